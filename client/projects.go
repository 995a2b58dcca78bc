package client

import (
	"context"
	"net/http"

	"ngoadmin/models"
)

const projectsPath = "/ongoingprojects"

type ProjectService struct{ c *Client }

func (s *ProjectService) List(ctx context.Context, opts ListOptions) ([]models.OngoingProject, int, error) {
	return list[models.OngoingProject](ctx, s.c, projectsPath, opts.values())
}

func (s *ProjectService) Get(ctx context.Context, id int) (*models.OngoingProject, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return get[models.OngoingProject](ctx, s.c, idPath(projectsPath, id))
}

func (s *ProjectService) Create(ctx context.Context, in models.OngoingProjectInput) (*models.OngoingProject, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.OngoingProject
	if err := s.c.sendJSON(ctx, http.MethodPost, projectsPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Complete marks the project completed. Completing it twice is a 409.
func (s *ProjectService) Complete(ctx context.Context, id int) (*models.OngoingProject, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var out models.OngoingProject
	if err := s.c.sendJSON(ctx, http.MethodPut, idPath(projectsPath, id, "complete"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProjectService) Delete(ctx context.Context, id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.c.delete(ctx, idPath(projectsPath, id))
}
