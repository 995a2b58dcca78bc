package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"ngoadmin/models"
	"ngoadmin/supplies"
)

// AidForm is what the aid screen needs before it can render: one page of
// records, the supplies categories and the stock the item forms check
// against.
type AidForm struct {
	Records    []models.Aid
	Total      int
	Categories []models.SuppliesCategory
	Stock      supplies.Stock
}

// LoadAidForm fetches the three in parallel and returns the first error.
// editing is the id of the aid being edited, or 0, so that its own items
// count as available stock.
func (c *Client) LoadAidForm(ctx context.Context, opts ListOptions, editing int) (*AidForm, error) {
	var f AidForm
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		f.Records, f.Total, err = c.Aid.List(ctx, opts)
		return err
	})
	g.Go(func() error {
		var err error
		f.Categories, err = c.Categories.ListSuppliesCategories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		f.Stock, err = c.Categories.Stock(ctx, StockQuery{ExcludeAidID: editing})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &f, nil
}

// SuppliesForm is the donation and purchase counterpart of AidForm.
type SuppliesForm struct {
	Records    []models.Supplies
	Total      int
	Categories []models.SuppliesCategory
	Stock      supplies.Stock
}

func (c *Client) LoadSuppliesForm(ctx context.Context, opts ListOptions, editing int) (*SuppliesForm, error) {
	var f SuppliesForm
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		f.Records, f.Total, err = c.Supplies.List(ctx, opts)
		return err
	})
	g.Go(func() error {
		var err error
		f.Categories, err = c.Categories.ListSuppliesCategories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		f.Stock, err = c.Categories.Stock(ctx, StockQuery{ExcludeSuppliesID: editing})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &f, nil
}
