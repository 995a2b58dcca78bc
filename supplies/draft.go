package supplies

import (
	"github.com/shopspring/decimal"

	"ngoadmin/models"
)

// Draft is the editable item list of an aid, donation or purchase before it
// is submitted. Every mutation re-derives the monetary value; a rejected
// mutation leaves the draft untouched.
type Draft struct {
	typ   models.TransactionType
	cash  decimal.Decimal
	items []models.Item
	stock Stock
	value decimal.Decimal
}

func NewDraft(t models.TransactionType, stock Stock) *Draft {
	d := &Draft{typ: t, stock: stock}
	d.derive()
	return d
}

// LoadDraft opens an existing record for editing. Items keep the prices they
// were saved with until they are updated.
func LoadDraft(t models.TransactionType, cash decimal.Decimal, items []models.Item, stock Stock) *Draft {
	d := &Draft{typ: t, cash: cash, stock: stock}
	d.items = append(d.items, items...)
	d.cash, d.items = ApplyType(d.typ, d.cash, d.items)
	d.derive()
	return d
}

func (d *Draft) derive() {
	d.value = DeriveMonetaryValue(d.typ, d.cash, d.items)
}

func (d *Draft) Type() models.TransactionType   { return d.typ }
func (d *Draft) Cash() decimal.Decimal          { return d.cash }
func (d *Draft) MonetaryValue() decimal.Decimal { return d.value }

// Items returns a copy of the current items.
func (d *Draft) Items() []models.Item {
	return append([]models.Item(nil), d.items...)
}

// SetType switches the transaction type and applies its side effects.
func (d *Draft) SetType(t models.TransactionType) {
	d.typ = t
	d.cash, d.items = ApplyType(t, d.cash, d.items)
	d.derive()
}

// SetCash sets the cash amount. In-kind drafts keep zero.
func (d *Draft) SetCash(c decimal.Decimal) {
	if d.typ == models.TypeInKind {
		return
	}
	d.cash = c
	d.derive()
}

// SetStock replaces the stock snapshot. Later edits are checked against it.
func (d *Draft) SetStock(s Stock) {
	d.stock = s
}

// Add appends an item for subCategoryID after checking it against stock.
func (d *Draft) Add(subCategoryID, quantity int) (models.Item, error) {
	if !d.typ.HasItems() {
		return models.Item{}, ErrCashOnly
	}
	if err := CheckQuantity(d.stock, subCategoryID, quantity); err != nil {
		return models.Item{}, err
	}
	it := NewItem(d.stock[subCategoryID], quantity)
	d.items = append(d.items, it)
	d.derive()
	return it, nil
}

// Update replaces item i, re-checking against the current stock snapshot
// and re-pricing from it.
func (d *Draft) Update(i, subCategoryID, quantity int) error {
	if i < 0 || i >= len(d.items) {
		return ErrItemIndex
	}
	if err := CheckQuantity(d.stock, subCategoryID, quantity); err != nil {
		return err
	}
	it := NewItem(d.stock[subCategoryID], quantity)
	it.ID = d.items[i].ID
	d.items[i] = it
	d.derive()
	return nil
}

func (d *Draft) Remove(i int) error {
	if i < 0 || i >= len(d.items) {
		return ErrItemIndex
	}
	d.items = append(d.items[:i], d.items[i+1:]...)
	d.derive()
	return nil
}

// Violations recomputes every stock violation of the current items.
func (d *Draft) Violations() []Violation {
	return StockViolations(d.items, d.stock)
}

// Inputs returns the items in wire form.
func (d *Draft) Inputs() []models.ItemInput {
	out := make([]models.ItemInput, len(d.items))
	for i, it := range d.items {
		out[i] = models.ItemInput{ID: it.ID, SubCategoryID: it.SubCategoryID, Quantity: it.Quantity}
	}
	return out
}

// Check returns a *StockError listing every violation, or nil. It is the
// last check before the draft is submitted.
func (d *Draft) Check() error {
	if v := d.Violations(); len(v) > 0 {
		return &StockError{Violations: v}
	}
	return nil
}
