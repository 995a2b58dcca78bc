package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Asset statuses.
const (
	AssetValid     = "valid"
	AssetDamaged   = "damaged"
	AssetDestroyed = "destroyed"
)

// Asset source natures.
const (
	SourcePurchase = "purchase"
	SourceDonation = "donation"
)

// Asset is a fixed asset (ActImm).
type Asset struct {
	ID             int             `db:"id" json:"id"`
	CategoryID     int             `db:"category_id" json:"categoryId"`
	CategoryName   string          `db:"category_name" json:"categoryName"`
	Brand          string          `db:"brand" json:"brand"`
	SerialNumber   string          `db:"serial_number" json:"serialNumber"`
	Value          decimal.Decimal `db:"value" json:"value"`
	UsageLocation  string          `db:"usage_location" json:"usageLocation"`
	Source         string          `db:"source" json:"source"`
	SourceNature   string          `db:"source_nature" json:"sourceNature"`
	DeploymentDate time.Time       `db:"deployment_date" json:"deploymentDate"`
	EndDate        *time.Time      `db:"end_date" json:"endDate"`
	Status         string          `db:"status" json:"status"`
	FileName       *string         `db:"file_name" json:"fileName"`
	FilePath       *string         `db:"file_path" json:"-"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}

// AssetInput is the create/update payload of an asset.
type AssetInput struct {
	CategoryID     int             `json:"categoryId"`
	Brand          string          `json:"brand"`
	SerialNumber   string          `json:"serialNumber"`
	Value          decimal.Decimal `json:"value"`
	UsageLocation  string          `json:"usageLocation"`
	Source         string          `json:"source"`
	SourceNature   string          `json:"sourceNature"`
	DeploymentDate *time.Time      `json:"deploymentDate"`
	EndDate        *time.Time      `json:"endDate"`
	Status         string          `json:"status"`
}

// Validate checks required fields and the end date rule for damaged or
// destroyed assets. An empty status defaults to valid.
func (a *AssetInput) Validate() error {
	if a.CategoryID <= 0 {
		return fieldErr("categoryId", "الفئة مطلوبة")
	}
	if strings.TrimSpace(a.Brand) == "" {
		return fieldErr("brand", "العلامة التجارية مطلوبة")
	}
	if strings.TrimSpace(a.SerialNumber) == "" {
		return fieldErr("serialNumber", "الرقم التسلسلي مطلوب")
	}
	if !a.Value.IsPositive() {
		return fieldErr("value", "القيمة يجب أن تكون أكبر من صفر")
	}
	if strings.TrimSpace(a.UsageLocation) == "" {
		return fieldErr("usageLocation", "مكان الاستخدام مطلوب")
	}
	if strings.TrimSpace(a.Source) == "" {
		return fieldErr("source", "المصدر مطلوب")
	}
	switch a.SourceNature {
	case SourcePurchase, SourceDonation:
	default:
		return fieldErr("sourceNature", "طبيعة المصدر يجب أن تكون شراء أو تبرع")
	}
	if a.DeploymentDate == nil {
		return fieldErr("deploymentDate", "تاريخ بدء الاستخدام مطلوب")
	}
	if a.Status == "" {
		a.Status = AssetValid
	}
	switch a.Status {
	case AssetValid:
	case AssetDamaged, AssetDestroyed:
		if a.EndDate == nil {
			return fieldErr("endDate", "تاريخ الانتهاء مطلوب عندما تكون الحالة تالفة أو مدمرة")
		}
	default:
		return fieldErr("status", "الحالة غير صالحة")
	}
	if a.EndDate != nil && a.EndDate.Before(*a.DeploymentDate) {
		return fieldErr("endDate", "تاريخ الانتهاء يجب أن يكون بعد تاريخ بدء الاستخدام")
	}
	return nil
}
