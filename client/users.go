package client

import (
	"context"
	"net/http"

	"ngoadmin/models"
)

const usersPath = "/users"

type UserService struct{ c *Client }

// List filters by opts.Search and opts.Status (active, inactive, pending).
func (s *UserService) List(ctx context.Context, opts ListOptions) ([]models.User, int, error) {
	return list[models.User](ctx, s.c, usersPath, opts.values())
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return get[models.User](ctx, s.c, idPath(usersPath, id))
}

func (s *UserService) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	var out models.User
	if err := s.c.sendJSON(ctx, http.MethodPost, usersPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update rewrites the user; an empty password keeps the current one.
func (s *UserService) Update(ctx context.Context, id int, in models.UserInput) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	var out models.User
	if err := s.c.sendJSON(ctx, http.MethodPut, idPath(usersPath, id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) SetStatus(ctx context.Context, id int, in models.UserStatusInput) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.User
	if err := s.c.sendJSON(ctx, http.MethodPut, idPath(usersPath, id, "status"), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.c.delete(ctx, idPath(usersPath, id))
}
