package supplies

import (
	"errors"
	"fmt"
	"strings"

	"ngoadmin/models"
)

var (
	ErrSubCategoryRequired  = errors.New("الفئة الفرعية مطلوبة")
	ErrUnknownSubCategory   = errors.New("الفئة الفرعية غير موجودة")
	ErrInvalidQuantity      = errors.New("الكمية يجب أن تكون 1 على الأقل")
	ErrQuantityExceedsStock = errors.New("الكمية المطلوبة تتجاوز الكمية المتوفرة")
	ErrCashOnly             = errors.New("لا يمكن إضافة عناصر لعملية نقدية")
	ErrItemIndex            = errors.New("العنصر غير موجود")
)

// Stock is a snapshot of subcategories keyed by id, as returned by the
// subcategory stock listing.
type Stock map[int]models.SuppliesSubCategory

func NewStock(subs []models.SuppliesSubCategory) Stock {
	s := make(Stock, len(subs))
	for _, sub := range subs {
		s[sub.ID] = sub
	}
	return s
}

// Available returns the remaining quantity of a subcategory, 0 if unknown.
func (s Stock) Available(id int) int {
	return s[id].AvailableQuantity
}

// Violation is one subcategory whose requested quantity exceeds its stock.
type Violation struct {
	SubCategoryID   int    `json:"subCategoryId"`
	SubCategoryName string `json:"subCategoryName"`
	Requested       int    `json:"requested"`
	Available       int    `json:"available"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: المطلوب %d والمتوفر %d", v.SubCategoryName, v.Requested, v.Available)
}

// StockError carries every violation found at submit time.
type StockError struct {
	Violations []Violation
}

func (e *StockError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return ErrQuantityExceedsStock.Error() + " (" + strings.Join(parts, "، ") + ")"
}

func (e *StockError) Unwrap() error { return ErrQuantityExceedsStock }

// CheckQuantity validates a single subcategory/quantity pair against stock.
func CheckQuantity(stock Stock, subCategoryID, quantity int) error {
	if subCategoryID <= 0 {
		return ErrSubCategoryRequired
	}
	sub, ok := stock[subCategoryID]
	if !ok {
		return ErrUnknownSubCategory
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if quantity > sub.AvailableQuantity {
		return &StockError{Violations: []Violation{{
			SubCategoryID:   sub.ID,
			SubCategoryName: sub.Name,
			Requested:       quantity,
			Available:       sub.AvailableQuantity,
		}}}
	}
	return nil
}

// StockViolations sums requested quantities per subcategory and returns the
// ones above their available stock, in first-seen order.
func StockViolations(items []models.Item, stock Stock) []Violation {
	requested := make(map[int]int)
	var order []int
	for _, it := range items {
		if _, seen := requested[it.SubCategoryID]; !seen {
			order = append(order, it.SubCategoryID)
		}
		requested[it.SubCategoryID] += it.Quantity
	}
	var out []Violation
	for _, id := range order {
		avail := stock.Available(id)
		if requested[id] <= avail {
			continue
		}
		name := stock[id].Name
		if name == "" {
			for _, it := range items {
				if it.SubCategoryID == id {
					name = it.SubCategoryName
					break
				}
			}
		}
		out = append(out, Violation{
			SubCategoryID:   id,
			SubCategoryName: name,
			Requested:       requested[id],
			Available:       avail,
		})
	}
	return out
}

// BuildItems prices inputs from stock and rejects the batch if any
// subcategory is unknown or over-allocated.
func BuildItems(inputs []models.ItemInput, stock Stock) ([]models.Item, error) {
	return MergeItems(inputs, nil, stock)
}

// MergeItems is BuildItems for an edited record. An input naming a saved
// item with the same subcategory and quantity keeps the saved prices; new
// and changed items are priced from stock. The stock check covers the
// whole list.
func MergeItems(inputs []models.ItemInput, saved []models.Item, stock Stock) ([]models.Item, error) {
	byID := make(map[int]models.Item, len(saved))
	for _, it := range saved {
		byID[it.ID] = it
	}
	items := make([]models.Item, 0, len(inputs))
	for _, in := range inputs {
		if in.SubCategoryID <= 0 {
			return nil, ErrSubCategoryRequired
		}
		if in.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if prev, ok := byID[in.ID]; ok && in.ID > 0 &&
			prev.SubCategoryID == in.SubCategoryID && prev.Quantity == in.Quantity {
			items = append(items, prev)
			continue
		}
		sub, ok := stock[in.SubCategoryID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownSubCategory, in.SubCategoryID)
		}
		it := NewItem(sub, in.Quantity)
		it.ID = in.ID
		items = append(items, it)
	}
	if v := StockViolations(items, stock); len(v) > 0 {
		return nil, &StockError{Violations: v}
	}
	return items, nil
}
