package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetCategory groups assets (ActImmCategory).
type AssetCategory struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type AssetCategoryInput struct {
	Name string `json:"name"`
}

func (c *AssetCategoryInput) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fieldErr("name", "اسم الفئة مطلوب")
	}
	return nil
}

// SuppliesCategory is the top level of the in-kind goods taxonomy shared by
// aid, donations and purchases.
type SuppliesCategory struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type SuppliesCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *SuppliesCategoryInput) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fieldErr("name", "اسم الفئة مطلوب")
	}
	return nil
}

// SuppliesSubCategory belongs to exactly one category. Quantity is the
// registered stock; AvailableQuantity is what remains after every aid,
// donation and purchase item referencing it.
type SuppliesSubCategory struct {
	ID                int             `db:"id" json:"id"`
	Name              string          `db:"name" json:"name"`
	UnitPrice         decimal.Decimal `db:"unit_price" json:"unitPrice"`
	CategoryID        int             `db:"category_id" json:"categoryId"`
	CategoryName      string          `db:"category_name" json:"categoryName"`
	Quantity          int             `db:"quantity" json:"quantity"`
	AvailableQuantity int             `db:"available_quantity" json:"availableQuantity"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
}

type SuppliesSubCategoryInput struct {
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	CategoryID int             `json:"categoryId"`
	Quantity   int             `json:"quantity"`
}

func (c *SuppliesSubCategoryInput) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fieldErr("name", "اسم الفئة الفرعية مطلوب")
	}
	if !c.UnitPrice.IsPositive() {
		return fieldErr("unitPrice", "سعر الوحدة يجب أن يكون أكبر من صفر")
	}
	if c.CategoryID <= 0 {
		return fieldErr("categoryId", "الفئة مطلوبة")
	}
	if c.Quantity < 0 {
		return fieldErr("quantity", "الكمية لا يمكن أن تكون سالبة")
	}
	return nil
}
