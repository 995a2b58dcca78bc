package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ngoadmin/models"
	"ngoadmin/supplies"
)

const suppliesSelect = `
        SELECT s.id, s.reference, s.source, s.supplies_nature, s.supplies_date, s.type, s.cash_amount,
               s.monetary_value, s.project_id, p.name AS project_name, s.file_name, s.file_path,
               s.created_at, s.updated_at
        FROM supplies s
        LEFT JOIN ongoing_projects p ON p.id = s.project_id`

// ListSupplies returns donations and purchases; nature narrows to one of
// them when not empty.
func (s *Storage) ListSupplies(ctx context.Context, nature string) ([]models.Supplies, error) {
	list := []models.Supplies{}
	query := suppliesSelect + ` WHERE ($1 = '' OR s.supplies_nature = $1) ORDER BY s.supplies_date DESC, s.id DESC`
	if err := s.db.SelectContext(ctx, &list, query, nature); err != nil {
		return nil, err
	}
	ids := make([]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	items, err := suppliesLedger.loadItems(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Items = nonNil(items[list[i].ID])
	}
	return list, nil
}

func (s *Storage) GetSupplies(ctx context.Context, id int) (*models.Supplies, error) {
	sp := &models.Supplies{}
	if err := s.db.GetContext(ctx, sp, suppliesSelect+` WHERE s.id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	items, err := suppliesLedger.loadItems(ctx, s.db, []int{id})
	if err != nil {
		return nil, err
	}
	sp.Items = nonNil(items[id])
	return sp, nil
}

// CreateSupplies inserts the header only. Items follow through
// AddSuppliesItems.
func (s *Storage) CreateSupplies(ctx context.Context, sp *models.Supplies) error {
	sp.CashAmount, _ = supplies.ApplyType(sp.Type, sp.CashAmount, nil)
	sp.MonetaryValue = supplies.DeriveMonetaryValue(sp.Type, sp.CashAmount, nil)
	sp.Items = []models.Item{}
	query := `
        INSERT INTO supplies
            (reference, source, supplies_nature, supplies_date, type, cash_amount, monetary_value,
             project_id, file_name, file_path)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		sp.Reference, sp.Source, sp.Nature, sp.Date, sp.Type, sp.CashAmount, sp.MonetaryValue,
		sp.ProjectID, sp.FileName, sp.FilePath).
		Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
}

func (s *Storage) AddSuppliesItems(ctx context.Context, id int, inputs []models.ItemInput) (*models.Supplies, error) {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, _, err := suppliesLedger.addItems(ctx, tx, id, inputs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetSupplies(ctx, id)
}

func (s *Storage) UpdateSupplies(ctx context.Context, sp *models.Supplies, inputs []models.ItemInput) error {
	sp.CashAmount, _ = supplies.ApplyType(sp.Type, sp.CashAmount, nil)
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, _, err := suppliesLedger.lockHeader(ctx, tx, sp.ID); err != nil {
			return err
		}
		query := `
        UPDATE supplies
        SET reference=$1, source=$2, supplies_nature=$3, supplies_date=$4, type=$5, cash_amount=$6,
            project_id=$7, file_name=$8, file_path=$9
        WHERE id=$10`
		_, err := tx.ExecContext(ctx, query,
			sp.Reference, sp.Source, sp.Nature, sp.Date, sp.Type, sp.CashAmount, sp.ProjectID,
			sp.FileName, sp.FilePath, sp.ID)
		if err != nil {
			return fmt.Errorf("update supplies: %w", err)
		}
		items, value, err := suppliesLedger.replaceItems(ctx, tx, sp.ID, sp.Type, sp.CashAmount, inputs)
		if err != nil {
			return err
		}
		sp.Items, sp.MonetaryValue = nonNil(items), value
		return nil
	})
}

func (s *Storage) DeleteSupplies(ctx context.Context, id int) (*string, error) {
	var path *string
	err := s.db.QueryRowContext(ctx, `DELETE FROM supplies WHERE id=$1 RETURNING file_path`, id).Scan(&path)
	return path, notFound(err)
}
