package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ngoadmin/models"
)

var ErrBelowAllocated = errors.New("الكمية أقل من الكمية المستعملة في العمليات المسجلة")

// Asset categories

func (s *Storage) ListAssetCategories(ctx context.Context) ([]models.AssetCategory, error) {
	cats := []models.AssetCategory{}
	err := s.db.SelectContext(ctx, &cats, `SELECT id, name, created_at FROM asset_categories ORDER BY name ASC`)
	return cats, err
}

func (s *Storage) CreateAssetCategory(ctx context.Context, c *models.AssetCategory) error {
	query := `INSERT INTO asset_categories (name) VALUES ($1) RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query, c.Name).Scan(&c.ID, &c.CreatedAt)
}

func (s *Storage) UpdateAssetCategory(ctx context.Context, c *models.AssetCategory) error {
	query := `UPDATE asset_categories SET name=$1 WHERE id=$2 RETURNING created_at`
	return notFound(s.db.QueryRowContext(ctx, query, c.Name, c.ID).Scan(&c.CreatedAt))
}

func (s *Storage) DeleteAssetCategory(ctx context.Context, id int) error {
	return mustAffect(s.db.ExecContext(ctx, `DELETE FROM asset_categories WHERE id=$1`, id))
}

// Supplies categories

func (s *Storage) ListSuppliesCategories(ctx context.Context) ([]models.SuppliesCategory, error) {
	cats := []models.SuppliesCategory{}
	query := `SELECT id, name, description, created_at FROM supplies_categories ORDER BY name ASC`
	err := s.db.SelectContext(ctx, &cats, query)
	return cats, err
}

func (s *Storage) CreateSuppliesCategory(ctx context.Context, c *models.SuppliesCategory) error {
	query := `
        INSERT INTO supplies_categories (name, description)
        VALUES ($1, $2)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query, c.Name, c.Description).Scan(&c.ID, &c.CreatedAt)
}

func (s *Storage) UpdateSuppliesCategory(ctx context.Context, c *models.SuppliesCategory) error {
	query := `UPDATE supplies_categories SET name=$1, description=$2 WHERE id=$3 RETURNING created_at`
	return notFound(s.db.QueryRowContext(ctx, query, c.Name, c.Description, c.ID).Scan(&c.CreatedAt))
}

func (s *Storage) DeleteSuppliesCategory(ctx context.Context, id int) error {
	return mustAffect(s.db.ExecContext(ctx, `DELETE FROM supplies_categories WHERE id=$1`, id))
}

// Supplies subcategories

// stockSelect computes the available quantity of each subcategory: the
// registered quantity minus every aid and supplies item referencing it.
// $1 and $2 exclude the items of one aid and one supplies record (0 for
// none) so an edit is checked against stock plus its own allocation.
const stockSelect = `
        SELECT s.id, s.name, s.unit_price, s.category_id, c.name AS category_name, s.quantity, s.created_at,
               s.quantity
               - COALESCE((SELECT SUM(ai.quantity) FROM aid_items ai
                           WHERE ai.sub_category_id = s.id AND ai.aid_id <> $1), 0)
               - COALESCE((SELECT SUM(si.quantity) FROM supplies_items si
                           WHERE si.sub_category_id = s.id AND si.supplies_id <> $2), 0)
               AS available_quantity
        FROM supplies_subcategories s
        JOIN supplies_categories c ON c.id = s.category_id`

// StockFilter narrows the subcategory stock listing.
type StockFilter struct {
	CategoryID        int
	ExcludeAidID      int
	ExcludeSuppliesID int
}

func (s *Storage) ListSubCategories(ctx context.Context, f StockFilter) ([]models.SuppliesSubCategory, error) {
	subs := []models.SuppliesSubCategory{}
	query := stockSelect + ` WHERE ($3 = 0 OR s.category_id = $3) ORDER BY c.name ASC, s.name ASC`
	err := s.db.SelectContext(ctx, &subs, query, f.ExcludeAidID, f.ExcludeSuppliesID, f.CategoryID)
	return subs, err
}

func (s *Storage) GetSubCategory(ctx context.Context, id int) (*models.SuppliesSubCategory, error) {
	sub := &models.SuppliesSubCategory{}
	if err := s.db.GetContext(ctx, sub, stockSelect+` WHERE s.id = $3`, 0, 0, id); err != nil {
		return nil, notFound(err)
	}
	return sub, nil
}

func (s *Storage) CreateSubCategory(ctx context.Context, sub *models.SuppliesSubCategory) error {
	query := `
        INSERT INTO supplies_subcategories (name, unit_price, category_id, quantity)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query, sub.Name, sub.UnitPrice, sub.CategoryID, sub.Quantity).
		Scan(&sub.ID, &sub.CreatedAt)
}

// UpdateSubCategory rejects a quantity below what items already consume.
func (s *Storage) UpdateSubCategory(ctx context.Context, sub *models.SuppliesSubCategory) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockSubCategories(ctx, tx, []int{sub.ID}); err != nil {
			return err
		}
		var allocated int
		query := `
        SELECT COALESCE((SELECT SUM(quantity) FROM aid_items WHERE sub_category_id = $1), 0)
             + COALESCE((SELECT SUM(quantity) FROM supplies_items WHERE sub_category_id = $1), 0)`
		if err := tx.GetContext(ctx, &allocated, query, sub.ID); err != nil {
			return err
		}
		if sub.Quantity < allocated {
			return fmt.Errorf("%w: %d", ErrBelowAllocated, allocated)
		}
		query = `
        UPDATE supplies_subcategories
        SET name=$1, unit_price=$2, category_id=$3, quantity=$4
        WHERE id=$5`
		return mustAffect(tx.ExecContext(ctx, query, sub.Name, sub.UnitPrice, sub.CategoryID, sub.Quantity, sub.ID))
	})
}

func (s *Storage) DeleteSubCategory(ctx context.Context, id int) error {
	return mustAffect(s.db.ExecContext(ctx, `DELETE FROM supplies_subcategories WHERE id=$1`, id))
}
