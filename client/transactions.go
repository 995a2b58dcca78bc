package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ngoadmin/internal/form"
	"ngoadmin/models"
)

const (
	aidPath      = "/aid"
	suppliesPath = "/supplies"
)

// createTwoPhase posts the header, then the items to {base}/{id}/items.
// When the items are rejected the saved header is returned together with
// an *ItemsError.
func createTwoPhase[T any](ctx context.Context, c *Client, base string, header url.Values, file *Attachment,
	items []models.ItemInput, id func(*T) int) (*T, error) {
	var created T
	if err := c.sendForm(ctx, http.MethodPost, base, header, form.LegalFile, file, &created); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &created, nil
	}
	recordID := id(&created)
	var withItems T
	if err := c.sendJSON(ctx, http.MethodPost, idPath(base, recordID, "items"), items, &withItems); err != nil {
		return &created, &ItemsError{ID: recordID, Err: err}
	}
	return &withItems, nil
}

type AidService struct{ c *Client }

func (s *AidService) List(ctx context.Context, opts ListOptions) ([]models.Aid, int, error) {
	return list[models.Aid](ctx, s.c, aidPath, opts.values())
}

func (s *AidService) Get(ctx context.Context, id int) (*models.Aid, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return get[models.Aid](ctx, s.c, idPath(aidPath, id))
}

// Create saves the header and then its items. See ItemsError for the
// partial failure.
func (s *AidService) Create(ctx context.Context, in models.AidInput, file *Attachment) (*models.Aid, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := in.ValidateItems(); err != nil {
		return nil, err
	}
	header := in
	header.Items = nil
	return createTwoPhase(ctx, s.c, aidPath, form.AidValues(header), file, in.Items,
		func(a *models.Aid) int { return a.ID })
}

// Update sends the header and the full item list in one request. Items
// without an id are added; stored items missing from the list are removed.
func (s *AidService) Update(ctx context.Context, id int, in models.AidInput, file *Attachment) (*models.Aid, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := in.ValidateItems(); err != nil {
		return nil, err
	}
	var out models.Aid
	if err := s.c.sendForm(ctx, http.MethodPut, idPath(aidPath, id), form.AidValues(in), form.LegalFile, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AidService) Delete(ctx context.Context, id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.c.delete(ctx, idPath(aidPath, id))
}

func (s *AidService) DownloadFile(ctx context.Context, id int) (*File, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.c.download(ctx, idPath(aidPath, id, "file"), "aid-"+strconv.Itoa(id))
}

// SuppliesService covers donations and purchases.
type SuppliesService struct{ c *Client }

// List filters by opts.Nature when set.
func (s *SuppliesService) List(ctx context.Context, opts ListOptions) ([]models.Supplies, int, error) {
	return list[models.Supplies](ctx, s.c, suppliesPath, opts.values())
}

func (s *SuppliesService) Get(ctx context.Context, id int) (*models.Supplies, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return get[models.Supplies](ctx, s.c, idPath(suppliesPath, id))
}

func (s *SuppliesService) Create(ctx context.Context, in models.SuppliesInput, file *Attachment) (*models.Supplies, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := in.ValidateItems(); err != nil {
		return nil, err
	}
	header := in
	header.Items = nil
	return createTwoPhase(ctx, s.c, suppliesPath, form.SuppliesValues(header), file, in.Items,
		func(sp *models.Supplies) int { return sp.ID })
}

func (s *SuppliesService) Update(ctx context.Context, id int, in models.SuppliesInput, file *Attachment) (*models.Supplies, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := in.ValidateItems(); err != nil {
		return nil, err
	}
	var out models.Supplies
	if err := s.c.sendForm(ctx, http.MethodPut, idPath(suppliesPath, id), form.SuppliesValues(in), form.LegalFile, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SuppliesService) Delete(ctx context.Context, id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.c.delete(ctx, idPath(suppliesPath, id))
}

func (s *SuppliesService) DownloadFile(ctx context.Context, id int) (*File, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.c.download(ctx, idPath(suppliesPath, id, "file"), "supplies-"+strconv.Itoa(id))
}
