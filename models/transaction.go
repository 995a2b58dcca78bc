package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType selects how an aid, donation or purchase is fulfilled.
type TransactionType string

const (
	TypeCash   TransactionType = "نقدي"
	TypeInKind TransactionType = "عيني"
	TypeMixed  TransactionType = "نقدي وعيني"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeCash, TypeInKind, TypeMixed:
		return true
	}
	return false
}

// HasCash reports whether the type carries a cash amount.
func (t TransactionType) HasCash() bool { return t == TypeCash || t == TypeMixed }

// HasItems reports whether the type carries in-kind line items.
func (t TransactionType) HasItems() bool { return t == TypeInKind || t == TypeMixed }

// Supplies natures.
const (
	NatureDonation = "donation"
	NaturePurchase = "purchase"
)

// Item is an in-kind line item. SubCategoryName, UnitPrice and TotalValue
// are copied from the subcategory when the item is saved.
type Item struct {
	ID              int             `db:"id" json:"id"`
	ParentID        int             `db:"parent_id" json:"-"`
	SubCategoryID   int             `db:"sub_category_id" json:"subCategoryId"`
	SubCategoryName string          `db:"sub_category_name" json:"subCategoryName"`
	Quantity        int             `db:"quantity" json:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unitPrice"`
	TotalValue      decimal.Decimal `db:"total_value" json:"totalValue"`
}

// ItemInput is the wire form of an item: the rest is derived server side.
type ItemInput struct {
	ID            int `json:"id,omitempty"`
	SubCategoryID int `json:"subCategoryId"`
	Quantity      int `json:"quantity"`
}

// Aid is an outgoing aid record.
type Aid struct {
	ID            int             `db:"id" json:"id"`
	Reference     string          `db:"reference" json:"reference"`
	Usage         string          `db:"usage" json:"usage"`
	Date          time.Time       `db:"aid_date" json:"date"`
	Type          TransactionType `db:"type" json:"type"`
	CashAmount    decimal.Decimal `db:"cash_amount" json:"cashAmount"`
	MonetaryValue decimal.Decimal `db:"monetary_value" json:"monetaryValue"`
	ProjectID     *int            `db:"project_id" json:"projectId"`
	ProjectName   *string         `db:"project_name" json:"projectName"`
	FileName      *string         `db:"file_name" json:"fileName"`
	FilePath      *string         `db:"file_path" json:"-"`
	Items         []Item          `db:"-" json:"items"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// Supplies is a donation or purchase record, told apart by Nature.
type Supplies struct {
	ID            int             `db:"id" json:"id"`
	Reference     string          `db:"reference" json:"reference"`
	Source        string          `db:"source" json:"source"`
	Nature        string          `db:"supplies_nature" json:"suppliesNature"`
	Date          time.Time       `db:"supplies_date" json:"date"`
	Type          TransactionType `db:"type" json:"type"`
	CashAmount    decimal.Decimal `db:"cash_amount" json:"cashAmount"`
	MonetaryValue decimal.Decimal `db:"monetary_value" json:"monetaryValue"`
	ProjectID     *int            `db:"project_id" json:"projectId"`
	ProjectName   *string         `db:"project_name" json:"projectName"`
	FileName      *string         `db:"file_name" json:"fileName"`
	FilePath      *string         `db:"file_path" json:"-"`
	Items         []Item          `db:"-" json:"items"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// TransactionInput holds the header fields shared by aid and supplies.
type TransactionInput struct {
	Reference  string          `json:"reference"`
	Date       *time.Time      `json:"date"`
	Type       TransactionType `json:"type"`
	CashAmount decimal.Decimal `json:"cashAmount"`
	ProjectID  *int            `json:"projectId"`
	Items      []ItemInput     `json:"items"`
}

func (t *TransactionInput) validate() error {
	if t.Date == nil {
		return fieldErr("date", "التاريخ مطلوب")
	}
	if !t.Type.Valid() {
		return fieldErr("type", "نوع العملية غير صالح")
	}
	if t.CashAmount.IsNegative() {
		return fieldErr("cashAmount", "المبلغ النقدي لا يمكن أن يكون سالبا")
	}
	if t.Type.HasCash() && !t.CashAmount.IsPositive() {
		return fieldErr("cashAmount", "المبلغ النقدي يجب أن يكون أكبر من صفر")
	}
	if t.ProjectID != nil && *t.ProjectID <= 0 {
		return fieldErr("projectId", MsgInvalidValue)
	}
	return nil
}

// ValidateItems checks the item list against the type: in-kind and mixed
// records need at least one item, cash-only records none.
func (t *TransactionInput) ValidateItems() error {
	if t.Type.HasItems() && len(t.Items) == 0 {
		return fieldErr("items", "يجب إضافة عنصر عيني واحد على الأقل")
	}
	if t.Type == TypeCash && len(t.Items) > 0 {
		return fieldErr("items", "لا يمكن إضافة عناصر لعملية نقدية")
	}
	return ValidateItemInputs(t.Items)
}

// ValidateItemInputs checks every item has a subcategory and a positive
// quantity. Stock is checked separately.
func ValidateItemInputs(items []ItemInput) error {
	for _, it := range items {
		if it.SubCategoryID <= 0 {
			return fieldErr("items", "الفئة الفرعية مطلوبة")
		}
		if it.Quantity < 1 {
			return fieldErr("items", "الكمية يجب أن تكون 1 على الأقل")
		}
	}
	return nil
}

type AidInput struct {
	TransactionInput
	Usage string `json:"usage"`
}

// Validate checks the header. Usage may be empty when the record is linked
// to a project, which fills it in.
func (a *AidInput) Validate() error {
	if err := a.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(a.Usage) == "" && a.ProjectID == nil {
		return fieldErr("usage", "جهة الاستفادة مطلوبة")
	}
	return nil
}

type SuppliesInput struct {
	TransactionInput
	Source string `json:"source"`
	Nature string `json:"suppliesNature"`
}

func (s *SuppliesInput) Validate() error {
	switch s.Nature {
	case NatureDonation, NaturePurchase:
	default:
		return fieldErr("suppliesNature", "طبيعة التوريد يجب أن تكون تبرع أو شراء")
	}
	if err := s.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.Source) == "" && s.ProjectID == nil {
		return fieldErr("source", "المصدر مطلوب")
	}
	return nil
}
