package client

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"ngoadmin/internal/form"
	"ngoadmin/models"
)

const deliberationsPath = "/deliberations"

type DeliberationService struct{ c *Client }

func (s *DeliberationService) List(ctx context.Context, opts ListOptions) ([]models.Deliberation, int, error) {
	return list[models.Deliberation](ctx, s.c, deliberationsPath, opts.values())
}

func (s *DeliberationService) Get(ctx context.Context, id int) (*models.Deliberation, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return get[models.Deliberation](ctx, s.c, idPath(deliberationsPath, id))
}

func validateDeliberation(in *models.DeliberationInput, doc *Attachment) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if doc != nil && !strings.EqualFold(filepath.Ext(doc.Name), ".pdf") {
		return models.NewFieldError("document", "يجب أن يكون الملف بصيغة PDF")
	}
	return nil
}

// Create records a deliberation with at least three attendees and an
// optional PDF document.
func (s *DeliberationService) Create(ctx context.Context, in models.DeliberationInput, doc *Attachment) (*models.Deliberation, error) {
	if err := validateDeliberation(&in, doc); err != nil {
		return nil, err
	}
	var out models.Deliberation
	if err := s.c.sendForm(ctx, http.MethodPost, deliberationsPath, form.DeliberationValues(in), form.Document, doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DeliberationService) Update(ctx context.Context, id int, in models.DeliberationInput, doc *Attachment) (*models.Deliberation, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := validateDeliberation(&in, doc); err != nil {
		return nil, err
	}
	var out models.Deliberation
	if err := s.c.sendForm(ctx, http.MethodPut, idPath(deliberationsPath, id), form.DeliberationValues(in), form.Document, doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DeliberationService) Delete(ctx context.Context, id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.c.delete(ctx, idPath(deliberationsPath, id))
}

func (s *DeliberationService) DownloadDocument(ctx context.Context, id int) (*File, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.c.download(ctx, idPath(deliberationsPath, id, "document"), "deliberation-"+strconv.Itoa(id))
}
