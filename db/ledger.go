package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"ngoadmin/models"
	"ngoadmin/supplies"
)

// ledger names the header and item tables of one in-kind record kind.
// Aid and supplies share every item operation below.
type ledger struct {
	header string
	items  string
	fk     string
}

var (
	aidLedger      = ledger{header: "aid", items: "aid_items", fk: "aid_id"}
	suppliesLedger = ledger{header: "supplies", items: "supplies_items", fk: "supplies_id"}
)

// stockExclusion returns the stockSelect arguments that leave out parentID.
func (l ledger) stockExclusion(parentID int) (aidID, suppliesID int) {
	if l == aidLedger {
		return parentID, 0
	}
	return 0, parentID
}

func (l ledger) loadItems(ctx context.Context, q sqlx.QueryerContext, parentIDs []int) (map[int][]models.Item, error) {
	out := make(map[int][]models.Item, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(`
        SELECT id, %[1]s AS parent_id, sub_category_id, sub_category_name, quantity, unit_price, total_value
        FROM %[2]s
        WHERE %[1]s = ANY($1)
        ORDER BY id ASC`, l.fk, l.items)
	var items []models.Item
	if err := sqlx.SelectContext(ctx, q, &items, query, int64s(parentIDs)); err != nil {
		return nil, fmt.Errorf("load %s: %w", l.items, err)
	}
	for _, it := range items {
		out[it.ParentID] = append(out[it.ParentID], it)
	}
	return out, nil
}

// lockHeader locks the parent row and returns its type and cash amount.
func (l ledger) lockHeader(ctx context.Context, tx *sqlx.Tx, id int) (models.TransactionType, decimal.Decimal, error) {
	var row struct {
		Type       models.TransactionType `db:"type"`
		CashAmount decimal.Decimal        `db:"cash_amount"`
	}
	query := fmt.Sprintf(`SELECT type, cash_amount FROM %s WHERE id=$1 FOR UPDATE`, l.header)
	if err := tx.GetContext(ctx, &row, query, id); err != nil {
		return "", decimal.Zero, notFound(err)
	}
	return row.Type, row.CashAmount, nil
}

func lockSubCategories(ctx context.Context, tx *sqlx.Tx, ids []int) error {
	var locked []int
	query := `SELECT id FROM supplies_subcategories WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	if err := tx.SelectContext(ctx, &locked, query, int64s(ids)); err != nil {
		return fmt.Errorf("lock subcategories: %w", err)
	}
	return nil
}

// stockFor locks and loads the subcategories referenced by inputs.
func (l ledger) stockFor(ctx context.Context, tx *sqlx.Tx, parentID int, exclude bool, inputs []models.ItemInput) (supplies.Stock, error) {
	seen := make(map[int]bool)
	var ids []int
	for _, in := range inputs {
		if !seen[in.SubCategoryID] {
			seen[in.SubCategoryID] = true
			ids = append(ids, in.SubCategoryID)
		}
	}
	sort.Ints(ids)
	if err := lockSubCategories(ctx, tx, ids); err != nil {
		return nil, err
	}

	aidID, suppliesID := 0, 0
	if exclude {
		aidID, suppliesID = l.stockExclusion(parentID)
	}
	var subs []models.SuppliesSubCategory
	query := stockSelect + ` WHERE s.id = ANY($3)`
	if err := tx.SelectContext(ctx, &subs, query, aidID, suppliesID, int64s(ids)); err != nil {
		return nil, fmt.Errorf("load stock: %w", err)
	}
	return supplies.NewStock(subs), nil
}

func (l ledger) insertItem(ctx context.Context, tx *sqlx.Tx, parentID int, it *models.Item) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (%s, sub_category_id, sub_category_name, quantity, unit_price, total_value)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`, l.items, l.fk)
	it.ParentID = parentID
	return tx.QueryRowContext(ctx, query,
		parentID, it.SubCategoryID, it.SubCategoryName, it.Quantity, it.UnitPrice, it.TotalValue).
		Scan(&it.ID)
}

// updateItem rewrites an existing item of parentID. It reports false when
// the id does not belong to the record.
func (l ledger) updateItem(ctx context.Context, tx *sqlx.Tx, parentID int, it *models.Item) (bool, error) {
	query := fmt.Sprintf(`
        UPDATE %s
        SET sub_category_id=$1, sub_category_name=$2, quantity=$3, unit_price=$4, total_value=$5
        WHERE id=$6 AND %s=$7`, l.items, l.fk)
	res, err := tx.ExecContext(ctx, query,
		it.SubCategoryID, it.SubCategoryName, it.Quantity, it.UnitPrice, it.TotalValue, it.ID, parentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	it.ParentID = parentID
	return n > 0, nil
}

func (l ledger) deleteItems(ctx context.Context, tx *sqlx.Tx, parentID int, keep []int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s=$1 AND NOT (id = ANY($2))`, l.items, l.fk)
	_, err := tx.ExecContext(ctx, query, parentID, int64s(keep))
	return err
}

// refreshValue re-derives monetary_value from the stored items.
func (l ledger) refreshValue(ctx context.Context, tx *sqlx.Tx, parentID int, t models.TransactionType, cash decimal.Decimal) ([]models.Item, decimal.Decimal, error) {
	byParent, err := l.loadItems(ctx, tx, []int{parentID})
	if err != nil {
		return nil, decimal.Zero, err
	}
	items := byParent[parentID]
	value := supplies.DeriveMonetaryValue(t, cash, items)
	query := fmt.Sprintf(`UPDATE %s SET monetary_value=$1, updated_at=NOW() WHERE id=$2`, l.header)
	if _, err := tx.ExecContext(ctx, query, value, parentID); err != nil {
		return nil, decimal.Zero, err
	}
	return items, value, nil
}

// addItems appends priced items to an existing record. Items already on the
// record count against stock.
func (l ledger) addItems(ctx context.Context, tx *sqlx.Tx, parentID int, inputs []models.ItemInput) ([]models.Item, decimal.Decimal, error) {
	t, cash, err := l.lockHeader(ctx, tx, parentID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if !t.HasItems() {
		return nil, decimal.Zero, supplies.ErrCashOnly
	}
	if err := models.ValidateItemInputs(inputs); err != nil {
		return nil, decimal.Zero, err
	}
	stock, err := l.stockFor(ctx, tx, parentID, false, inputs)
	if err != nil {
		return nil, decimal.Zero, err
	}
	for i := range inputs {
		inputs[i].ID = 0
	}
	items, err := supplies.BuildItems(inputs, stock)
	if err != nil {
		return nil, decimal.Zero, err
	}
	for i := range items {
		if err := l.insertItem(ctx, tx, parentID, &items[i]); err != nil {
			return nil, decimal.Zero, fmt.Errorf("insert item: %w", err)
		}
	}
	return l.refreshValue(ctx, tx, parentID, t, cash)
}

// replaceItems makes inputs the full item list of the record: known ids are
// rewritten, the rest inserted, missing ones deleted. Untouched items keep
// their saved prices. Stock is checked with the record's own previous
// allocation given back.
func (l ledger) replaceItems(ctx context.Context, tx *sqlx.Tx, parentID int, t models.TransactionType, cash decimal.Decimal, inputs []models.ItemInput) ([]models.Item, decimal.Decimal, error) {
	if !t.HasItems() {
		inputs = nil
	}
	stock, err := l.stockFor(ctx, tx, parentID, true, inputs)
	if err != nil {
		return nil, decimal.Zero, err
	}
	byParent, err := l.loadItems(ctx, tx, []int{parentID})
	if err != nil {
		return nil, decimal.Zero, err
	}
	items, err := supplies.MergeItems(inputs, byParent[parentID], stock)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var keep []int
	for _, it := range items {
		if it.ID > 0 {
			keep = append(keep, it.ID)
		}
	}
	if err := l.deleteItems(ctx, tx, parentID, keep); err != nil {
		return nil, decimal.Zero, fmt.Errorf("delete items: %w", err)
	}
	for i := range items {
		if items[i].ID > 0 {
			ok, err := l.updateItem(ctx, tx, parentID, &items[i])
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("update item: %w", err)
			}
			if ok {
				continue
			}
		}
		if err := l.insertItem(ctx, tx, parentID, &items[i]); err != nil {
			return nil, decimal.Zero, fmt.Errorf("insert item: %w", err)
		}
	}
	return l.refreshValue(ctx, tx, parentID, t, cash)
}
