package db

import (
	"context"

	"ngoadmin/models"
)

const assetSelect = `
        SELECT a.id, a.category_id, COALESCE(c.name, '') AS category_name, a.brand, a.serial_number,
               a.value, a.usage_location, a.source, a.source_nature, a.deployment_date, a.end_date,
               a.status, a.file_name, a.file_path, a.created_at, a.updated_at
        FROM assets a
        LEFT JOIN asset_categories c ON c.id = a.category_id`

func (s *Storage) ListAssets(ctx context.Context) ([]models.Asset, error) {
	assets := []models.Asset{}
	err := s.db.SelectContext(ctx, &assets, assetSelect+` ORDER BY a.deployment_date DESC, a.id DESC`)
	return assets, err
}

func (s *Storage) GetAsset(ctx context.Context, id int) (*models.Asset, error) {
	a := &models.Asset{}
	if err := s.db.GetContext(ctx, a, assetSelect+` WHERE a.id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (s *Storage) CreateAsset(ctx context.Context, a *models.Asset) error {
	query := `
        INSERT INTO assets
            (category_id, brand, serial_number, value, usage_location, source, source_nature,
             deployment_date, end_date, status, file_name, file_path)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		a.CategoryID, a.Brand, a.SerialNumber, a.Value, a.UsageLocation, a.Source, a.SourceNature,
		a.DeploymentDate, a.EndDate, a.Status, a.FileName, a.FilePath).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (s *Storage) UpdateAsset(ctx context.Context, a *models.Asset) error {
	query := `
        UPDATE assets
        SET category_id=$1, brand=$2, serial_number=$3, value=$4, usage_location=$5, source=$6,
            source_nature=$7, deployment_date=$8, end_date=$9, status=$10, file_name=$11,
            file_path=$12, updated_at=NOW()
        WHERE id=$13
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		a.CategoryID, a.Brand, a.SerialNumber, a.Value, a.UsageLocation, a.Source, a.SourceNature,
		a.DeploymentDate, a.EndDate, a.Status, a.FileName, a.FilePath, a.ID).
		Scan(&a.UpdatedAt)
	return notFound(err)
}

// DeleteAsset removes the asset and returns its attachment path, if any.
func (s *Storage) DeleteAsset(ctx context.Context, id int) (*string, error) {
	var path *string
	err := s.db.QueryRowContext(ctx, `DELETE FROM assets WHERE id=$1 RETURNING file_path`, id).Scan(&path)
	return path, notFound(err)
}
