package db

import (
	"context"

	"ngoadmin/models"
)

const userSelect = `
        SELECT id, name, email, role, is_active, is_approved, phone, password_hash, created_at, updated_at
        FROM users`

func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users, userSelect+` ORDER BY name ASC`)
	return users, err
}

func (s *Storage) GetUser(ctx context.Context, id int) (*models.User, error) {
	u := &models.User{}
	if err := s.db.GetContext(ctx, u, userSelect+` WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	query := `
        INSERT INTO users (name, email, role, is_active, is_approved, phone, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		u.Name, u.Email, u.Role, u.IsActive, u.IsApproved, u.Phone, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (s *Storage) UpdateUser(ctx context.Context, u *models.User) error {
	query := `
        UPDATE users
        SET name=$1, email=$2, role=$3, is_active=$4, is_approved=$5, phone=$6, password_hash=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		u.Name, u.Email, u.Role, u.IsActive, u.IsApproved, u.Phone, u.PasswordHash, u.ID).
		Scan(&u.UpdatedAt)
	return notFound(err)
}

func (s *Storage) DeleteUser(ctx context.Context, id int) error {
	return mustAffect(s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id))
}
