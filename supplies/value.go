// Package supplies holds the rules shared by aid, donations and purchases:
// the monetary value derivation, item denormalisation and stock checks.
package supplies

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ngoadmin/models"
)

// Total is the sum of item totals.
func Total(items []models.Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.TotalValue)
	}
	return sum
}

// DeriveMonetaryValue is the only way a record's monetary value is computed:
// the cash amount for cash-only, the item total for in-kind, both for mixed.
func DeriveMonetaryValue(t models.TransactionType, cash decimal.Decimal, items []models.Item) decimal.Decimal {
	switch t {
	case models.TypeCash:
		return cash
	case models.TypeInKind:
		return Total(items)
	case models.TypeMixed:
		return cash.Add(Total(items))
	}
	return decimal.Zero
}

// ApplyType returns the cash amount and items a record keeps under type t.
// Cash-only drops the items, in-kind zeroes the cash.
func ApplyType(t models.TransactionType, cash decimal.Decimal, items []models.Item) (decimal.Decimal, []models.Item) {
	switch t {
	case models.TypeCash:
		return cash, nil
	case models.TypeInKind:
		return decimal.Zero, items
	}
	return cash, items
}

// NewItem builds an item priced from sub as it is now.
func NewItem(sub models.SuppliesSubCategory, quantity int) models.Item {
	return models.Item{
		SubCategoryID:   sub.ID,
		SubCategoryName: sub.Name,
		Quantity:        quantity,
		UnitPrice:       sub.UnitPrice,
		TotalValue:      sub.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// GenerateReference builds a reference such as AID-20261018-153045.
func GenerateReference(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, t.Format("20060102-150405"))
}

// GenerateFineReference adds milliseconds, as in AID-20261018-153045.123,
// for a second reference generated within the same second.
func GenerateFineReference(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, t.Format("20060102-150405.000"))
}
