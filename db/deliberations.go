package db

import (
	"context"

	"ngoadmin/models"
)

const deliberationSelect = `
        SELECT id, number, date_time, attendees, document_name, document_path, created_at, updated_at
        FROM deliberations`

func (s *Storage) ListDeliberations(ctx context.Context) ([]models.Deliberation, error) {
	list := []models.Deliberation{}
	err := s.db.SelectContext(ctx, &list, deliberationSelect+` ORDER BY date_time DESC, id DESC`)
	return list, err
}

func (s *Storage) GetDeliberation(ctx context.Context, id int) (*models.Deliberation, error) {
	d := &models.Deliberation{}
	if err := s.db.GetContext(ctx, d, deliberationSelect+` WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (s *Storage) CreateDeliberation(ctx context.Context, d *models.Deliberation) error {
	query := `
        INSERT INTO deliberations (number, date_time, attendees, document_name, document_path)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return s.db.QueryRowContext(ctx, query, d.Number, d.DateTime, d.Attendees, d.DocumentName, d.DocumentPath).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (s *Storage) UpdateDeliberation(ctx context.Context, d *models.Deliberation) error {
	query := `
        UPDATE deliberations
        SET number=$1, date_time=$2, attendees=$3, document_name=$4, document_path=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		d.Number, d.DateTime, d.Attendees, d.DocumentName, d.DocumentPath, d.ID).
		Scan(&d.UpdatedAt)
	return notFound(err)
}

func (s *Storage) DeleteDeliberation(ctx context.Context, id int) (*string, error) {
	var path *string
	err := s.db.QueryRowContext(ctx, `DELETE FROM deliberations WHERE id=$1 RETURNING document_path`, id).Scan(&path)
	return path, notFound(err)
}
