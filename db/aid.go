package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ngoadmin/models"
	"ngoadmin/supplies"
)

const aidSelect = `
        SELECT a.id, a.reference, a.usage, a.aid_date, a.type, a.cash_amount, a.monetary_value,
               a.project_id, p.name AS project_name, a.file_name, a.file_path, a.created_at, a.updated_at
        FROM aid a
        LEFT JOIN ongoing_projects p ON p.id = a.project_id`

func (s *Storage) ListAid(ctx context.Context) ([]models.Aid, error) {
	aid := []models.Aid{}
	if err := s.db.SelectContext(ctx, &aid, aidSelect+` ORDER BY a.aid_date DESC, a.id DESC`); err != nil {
		return nil, err
	}
	ids := make([]int, len(aid))
	for i := range aid {
		ids[i] = aid[i].ID
	}
	items, err := aidLedger.loadItems(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range aid {
		aid[i].Items = nonNil(items[aid[i].ID])
	}
	return aid, nil
}

func (s *Storage) GetAid(ctx context.Context, id int) (*models.Aid, error) {
	a := &models.Aid{}
	if err := s.db.GetContext(ctx, a, aidSelect+` WHERE a.id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	items, err := aidLedger.loadItems(ctx, s.db, []int{id})
	if err != nil {
		return nil, err
	}
	a.Items = nonNil(items[id])
	return a, nil
}

// CreateAid inserts the header only. Items follow through AddAidItems.
func (s *Storage) CreateAid(ctx context.Context, a *models.Aid) error {
	a.CashAmount, _ = supplies.ApplyType(a.Type, a.CashAmount, nil)
	a.MonetaryValue = supplies.DeriveMonetaryValue(a.Type, a.CashAmount, nil)
	a.Items = []models.Item{}
	query := `
        INSERT INTO aid
            (reference, usage, aid_date, type, cash_amount, monetary_value, project_id, file_name, file_path)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		a.Reference, a.Usage, a.Date, a.Type, a.CashAmount, a.MonetaryValue, a.ProjectID, a.FileName, a.FilePath).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// AddAidItems attaches items to an in-kind or mixed aid and returns the
// refreshed record.
func (s *Storage) AddAidItems(ctx context.Context, id int, inputs []models.ItemInput) (*models.Aid, error) {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, _, err := aidLedger.addItems(ctx, tx, id, inputs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetAid(ctx, id)
}

// UpdateAid rewrites the header and replaces its items in one transaction.
func (s *Storage) UpdateAid(ctx context.Context, a *models.Aid, inputs []models.ItemInput) error {
	a.CashAmount, _ = supplies.ApplyType(a.Type, a.CashAmount, nil)
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, _, err := aidLedger.lockHeader(ctx, tx, a.ID); err != nil {
			return err
		}
		query := `
        UPDATE aid
        SET reference=$1, usage=$2, aid_date=$3, type=$4, cash_amount=$5, project_id=$6,
            file_name=$7, file_path=$8
        WHERE id=$9`
		_, err := tx.ExecContext(ctx, query,
			a.Reference, a.Usage, a.Date, a.Type, a.CashAmount, a.ProjectID, a.FileName, a.FilePath, a.ID)
		if err != nil {
			return fmt.Errorf("update aid: %w", err)
		}
		items, value, err := aidLedger.replaceItems(ctx, tx, a.ID, a.Type, a.CashAmount, inputs)
		if err != nil {
			return err
		}
		a.Items, a.MonetaryValue = nonNil(items), value
		return nil
	})
}

// DeleteAid removes the aid with its items and returns its attachment path.
func (s *Storage) DeleteAid(ctx context.Context, id int) (*string, error) {
	var path *string
	err := s.db.QueryRowContext(ctx, `DELETE FROM aid WHERE id=$1 RETURNING file_path`, id).Scan(&path)
	return path, notFound(err)
}

func nonNil(items []models.Item) []models.Item {
	if items == nil {
		return []models.Item{}
	}
	return items
}
