package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ngoadmin/models"
	"ngoadmin/supplies"
)

const (
	assetCategoriesPath    = "/ActImmCategory"
	suppliesCategoriesPath = "/suppliescategories"
	subCategoriesPath      = "/suppliessubcategories"
)

// CategoryService manages asset categories and the supplies taxonomy.
type CategoryService struct{ c *Client }

func (s *CategoryService) ListAssetCategories(ctx context.Context) ([]models.AssetCategory, error) {
	cats, _, err := list[models.AssetCategory](ctx, s.c, assetCategoriesPath, nil)
	return cats, err
}

func (s *CategoryService) CreateAssetCategory(ctx context.Context, in models.AssetCategoryInput) (*models.AssetCategory, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.AssetCategory
	if err := s.c.sendJSON(ctx, http.MethodPost, assetCategoriesPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoryService) UpdateAssetCategory(ctx context.Context, id int, in models.AssetCategoryInput) (*models.AssetCategory, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.AssetCategory
	if err := s.c.sendJSON(ctx, http.MethodPut, idPath(assetCategoriesPath, id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoryService) DeleteAssetCategory(ctx context.Context, id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.c.delete(ctx, idPath(assetCategoriesPath, id))
}

func (s *CategoryService) ListSuppliesCategories(ctx context.Context) ([]models.SuppliesCategory, error) {
	cats, _, err := list[models.SuppliesCategory](ctx, s.c, suppliesCategoriesPath, nil)
	return cats, err
}

func (s *CategoryService) CreateSuppliesCategory(ctx context.Context, in models.SuppliesCategoryInput) (*models.SuppliesCategory, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.SuppliesCategory
	if err := s.c.sendJSON(ctx, http.MethodPost, suppliesCategoriesPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoryService) UpdateSuppliesCategory(ctx context.Context, id int, in models.SuppliesCategoryInput) (*models.SuppliesCategory, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.SuppliesCategory
	if err := s.c.sendJSON(ctx, http.MethodPut, idPath(suppliesCategoriesPath, id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoryService) DeleteSuppliesCategory(ctx context.Context, id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.c.delete(ctx, idPath(suppliesCategoriesPath, id))
}

// ListSubCategories returns every subcategory, or those of categoryID when
// it is positive.
func (s *CategoryService) ListSubCategories(ctx context.Context, categoryID int) ([]models.SuppliesSubCategory, error) {
	path := subCategoriesPath
	if categoryID > 0 {
		path = idPath(suppliesCategoriesPath, categoryID, "subcategories")
	}
	subs, _, err := list[models.SuppliesSubCategory](ctx, s.c, path, nil)
	return subs, err
}

// StockQuery selects the stock snapshot. Setting ExcludeAidID or
// ExcludeSuppliesID counts the items of the record being edited as
// available.
type StockQuery struct {
	CategoryID        int
	ExcludeAidID      int
	ExcludeSuppliesID int
}

func (q StockQuery) values() url.Values {
	v := url.Values{}
	for key, n := range map[string]int{
		"categoryId":      q.CategoryID,
		"excludeAid":      q.ExcludeAidID,
		"excludeSupplies": q.ExcludeSuppliesID,
	} {
		if n > 0 {
			v.Set(key, strconv.Itoa(n))
		}
	}
	return v
}

// Stock fetches the subcategories with their available quantities.
func (s *CategoryService) Stock(ctx context.Context, q StockQuery) (supplies.Stock, error) {
	subs, _, err := list[models.SuppliesSubCategory](ctx, s.c, subCategoriesPath+"/stock", q.values())
	if err != nil {
		return nil, err
	}
	return supplies.NewStock(subs), nil
}

func (s *CategoryService) CreateSubCategory(ctx context.Context, in models.SuppliesSubCategoryInput) (*models.SuppliesSubCategory, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.SuppliesSubCategory
	if err := s.c.sendJSON(ctx, http.MethodPost, subCategoriesPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoryService) UpdateSubCategory(ctx context.Context, id int, in models.SuppliesSubCategoryInput) (*models.SuppliesSubCategory, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.SuppliesSubCategory
	if err := s.c.sendJSON(ctx, http.MethodPut, idPath(subCategoriesPath, id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoryService) DeleteSubCategory(ctx context.Context, id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.c.delete(ctx, idPath(subCategoriesPath, id))
}
