package client

import (
	"context"
	"net/http"
	"strconv"

	"ngoadmin/internal/form"
	"ngoadmin/models"
)

const assetsPath = "/ActImm"

type AssetService struct{ c *Client }

// List filters by opts.Search, opts.Status and the deployment date range.
func (s *AssetService) List(ctx context.Context, opts ListOptions) ([]models.Asset, int, error) {
	return list[models.Asset](ctx, s.c, assetsPath, opts.values())
}

func (s *AssetService) Get(ctx context.Context, id int) (*models.Asset, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return get[models.Asset](ctx, s.c, idPath(assetsPath, id))
}

func (s *AssetService) Create(ctx context.Context, in models.AssetInput, file *Attachment) (*models.Asset, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.Asset
	if err := s.c.sendForm(ctx, http.MethodPost, assetsPath, form.AssetValues(in), form.LegalFile, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update rewrites the asset. A nil file keeps the stored one.
func (s *AssetService) Update(ctx context.Context, id int, in models.AssetInput, file *Attachment) (*models.Asset, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.Asset
	if err := s.c.sendForm(ctx, http.MethodPut, idPath(assetsPath, id), form.AssetValues(in), form.LegalFile, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AssetService) Delete(ctx context.Context, id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.c.delete(ctx, idPath(assetsPath, id))
}

func (s *AssetService) DownloadFile(ctx context.Context, id int) (*File, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.c.download(ctx, idPath(assetsPath, id, "file"), "asset-"+strconv.Itoa(id))
}
