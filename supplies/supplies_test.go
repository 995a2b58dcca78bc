package supplies_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ngoadmin/models"
	"ngoadmin/supplies"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func testStock() supplies.Stock {
	return supplies.NewStock([]models.SuppliesSubCategory{
		{ID: 1, Name: "أرز", UnitPrice: dec("10"), AvailableQuantity: 5},
		{ID: 2, Name: "زيت", UnitPrice: dec("2.5"), AvailableQuantity: 100},
	})
}

func TestDeriveMonetaryValue(t *testing.T) {
	items := []models.Item{
		{Quantity: 2, UnitPrice: dec("10"), TotalValue: dec("20")},
		{Quantity: 4, UnitPrice: dec("2.5"), TotalValue: dec("10")},
	}
	cash := dec("50")

	require.True(t, supplies.DeriveMonetaryValue(models.TypeCash, cash, items).Equal(dec("50")))
	require.True(t, supplies.DeriveMonetaryValue(models.TypeInKind, cash, items).Equal(dec("30")))
	require.True(t, supplies.DeriveMonetaryValue(models.TypeMixed, cash, items).Equal(dec("80")))
	require.True(t, supplies.DeriveMonetaryValue("other", cash, items).IsZero())
}

func TestApplyType(t *testing.T) {
	items := []models.Item{{Quantity: 1, TotalValue: dec("10")}}

	cash, kept := supplies.ApplyType(models.TypeCash, dec("5"), items)
	require.True(t, cash.Equal(dec("5")))
	require.Empty(t, kept)

	cash, kept = supplies.ApplyType(models.TypeInKind, dec("5"), items)
	require.True(t, cash.IsZero())
	require.Len(t, kept, 1)

	cash, kept = supplies.ApplyType(models.TypeMixed, dec("5"), items)
	require.True(t, cash.Equal(dec("5")))
	require.Len(t, kept, 1)
}

func TestDraftMixedScenario(t *testing.T) {
	d := supplies.NewDraft(models.TypeMixed, testStock())
	d.SetCash(dec("50"))

	it, err := d.Add(1, 2)
	require.NoError(t, err)
	require.Equal(t, "أرز", it.SubCategoryName)
	require.True(t, it.TotalValue.Equal(dec("20")))
	require.True(t, d.MonetaryValue().Equal(dec("70")))

	require.NoError(t, d.Remove(0))
	require.Empty(t, d.Items())
	require.True(t, d.MonetaryValue().Equal(dec("50")))
}

func TestDraftAddOverStockLeavesItemsUnchanged(t *testing.T) {
	d := supplies.NewDraft(models.TypeInKind, testStock())
	_, err := d.Add(2, 3)
	require.NoError(t, err)
	before := d.MonetaryValue()

	_, err = d.Add(1, 6)
	require.ErrorIs(t, err, supplies.ErrQuantityExceedsStock)

	var se *supplies.StockError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 6, se.Violations[0].Requested)
	require.Equal(t, 5, se.Violations[0].Available)

	require.Len(t, d.Items(), 1)
	require.True(t, d.MonetaryValue().Equal(before))
}

func TestDraftAddRejectsBadInput(t *testing.T) {
	d := supplies.NewDraft(models.TypeInKind, testStock())

	_, err := d.Add(0, 1)
	require.ErrorIs(t, err, supplies.ErrSubCategoryRequired)
	_, err = d.Add(1, 0)
	require.ErrorIs(t, err, supplies.ErrInvalidQuantity)
	_, err = d.Add(99, 1)
	require.ErrorIs(t, err, supplies.ErrUnknownSubCategory)

	cashOnly := supplies.NewDraft(models.TypeCash, testStock())
	_, err = cashOnly.Add(1, 1)
	require.ErrorIs(t, err, supplies.ErrCashOnly)
}

func TestDraftTypeTransitions(t *testing.T) {
	d := supplies.NewDraft(models.TypeMixed, testStock())
	d.SetCash(dec("40"))
	_, err := d.Add(2, 4)
	require.NoError(t, err)
	require.True(t, d.MonetaryValue().Equal(dec("50")))

	d.SetType(models.TypeInKind)
	require.True(t, d.Cash().IsZero())
	require.True(t, d.MonetaryValue().Equal(dec("10")))

	d.SetCash(dec("99"))
	require.True(t, d.Cash().IsZero())

	d.SetType(models.TypeCash)
	require.Empty(t, d.Items())
	require.True(t, d.MonetaryValue().IsZero())

	d.SetCash(dec("15"))
	require.True(t, d.MonetaryValue().Equal(dec("15")))
}

func TestDraftUpdateUsesCurrentStock(t *testing.T) {
	d := supplies.LoadDraft(models.TypeInKind, decimal.Zero, []models.Item{
		{ID: 7, SubCategoryID: 1, SubCategoryName: "أرز", Quantity: 2, UnitPrice: dec("10"), TotalValue: dec("20")},
	}, testStock())
	require.True(t, d.MonetaryValue().Equal(dec("20")))

	d.SetStock(supplies.NewStock([]models.SuppliesSubCategory{
		{ID: 1, Name: "أرز", UnitPrice: dec("12"), AvailableQuantity: 2},
	}))
	require.ErrorIs(t, d.Update(0, 1, 3), supplies.ErrQuantityExceedsStock)
	require.True(t, d.MonetaryValue().Equal(dec("20")))

	require.NoError(t, d.Update(0, 1, 2))
	require.Equal(t, 7, d.Items()[0].ID)
	require.True(t, d.MonetaryValue().Equal(dec("24")))

	require.ErrorIs(t, d.Update(3, 1, 1), supplies.ErrItemIndex)
	require.ErrorIs(t, d.Remove(-1), supplies.ErrItemIndex)
}

func TestStockViolationsAggregatesPerSubCategory(t *testing.T) {
	items := []models.Item{
		{SubCategoryID: 1, Quantity: 3},
		{SubCategoryID: 2, Quantity: 10},
		{SubCategoryID: 1, Quantity: 3},
	}
	v := supplies.StockViolations(items, testStock())
	require.Len(t, v, 1)
	require.Equal(t, supplies.Violation{SubCategoryID: 1, SubCategoryName: "أرز", Requested: 6, Available: 5}, v[0])
}

func TestBuildItems(t *testing.T) {
	items, err := supplies.BuildItems([]models.ItemInput{{SubCategoryID: 2, Quantity: 4}}, testStock())
	require.NoError(t, err)
	require.Equal(t, "زيت", items[0].SubCategoryName)
	require.True(t, items[0].TotalValue.Equal(dec("10")))

	_, err = supplies.BuildItems([]models.ItemInput{{SubCategoryID: 1, Quantity: 6}}, testStock())
	require.ErrorIs(t, err, supplies.ErrQuantityExceedsStock)

	_, err = supplies.BuildItems([]models.ItemInput{{SubCategoryID: 42, Quantity: 1}}, testStock())
	require.ErrorIs(t, err, supplies.ErrUnknownSubCategory)
}

func TestGenerateReference(t *testing.T) {
	ts := time.Date(2026, 10, 18, 15, 30, 45, 0, time.UTC)
	require.Equal(t, "AID-20261018-153045", supplies.GenerateReference("AID", ts))

	ts = ts.Add(123 * time.Millisecond)
	require.Equal(t, "AID-20261018-153045.123", supplies.GenerateFineReference("AID", ts))
}

func TestMergeItemsKeepsSavedPrices(t *testing.T) {
	saved := []models.Item{
		{ID: 7, SubCategoryID: 1, SubCategoryName: "أرز", Quantity: 2, UnitPrice: dec("10"), TotalValue: dec("20")},
		{ID: 8, SubCategoryID: 2, SubCategoryName: "زيت", Quantity: 4, UnitPrice: dec("2"), TotalValue: dec("8")},
	}
	// Prices went up since the record was saved.
	stock := supplies.NewStock([]models.SuppliesSubCategory{
		{ID: 1, Name: "أرز", UnitPrice: dec("15"), AvailableQuantity: 5},
		{ID: 2, Name: "زيت", UnitPrice: dec("3"), AvailableQuantity: 100},
	})

	d := supplies.LoadDraft(models.TypeInKind, decimal.Zero, saved, stock)
	require.True(t, d.MonetaryValue().Equal(dec("28")))

	items, err := supplies.MergeItems(d.Inputs(), saved, stock)
	require.NoError(t, err)
	require.True(t, supplies.DeriveMonetaryValue(models.TypeInKind, decimal.Zero, items).Equal(d.MonetaryValue()))

	inputs := d.Inputs()
	inputs[1].Quantity = 5
	inputs = append(inputs, models.ItemInput{SubCategoryID: 1, Quantity: 1})
	items, err = supplies.MergeItems(inputs, saved, stock)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.True(t, items[0].TotalValue.Equal(dec("20")))
	require.Equal(t, 8, items[1].ID)
	require.True(t, items[1].TotalValue.Equal(dec("15")))
	require.Zero(t, items[2].ID)
	require.True(t, items[2].TotalValue.Equal(dec("15")))

	// Kept items still count against stock.
	inputs[2].Quantity = 4
	_, err = supplies.MergeItems(inputs, saved, stock)
	var se *supplies.StockError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 6, se.Violations[0].Requested)
}

func TestDraftCheckSumsItemsOfOneSubCategory(t *testing.T) {
	d := supplies.NewDraft(models.TypeInKind, testStock())
	_, err := d.Add(1, 3)
	require.NoError(t, err)
	require.NoError(t, d.Check())

	_, err = d.Add(1, 3)
	require.NoError(t, err)

	var se *supplies.StockError
	require.ErrorAs(t, d.Check(), &se)
	require.Equal(t, []supplies.Violation{{SubCategoryID: 1, SubCategoryName: "أرز", Requested: 6, Available: 5}}, se.Violations)

	require.NoError(t, d.Remove(1))
	require.NoError(t, d.Check())
}
