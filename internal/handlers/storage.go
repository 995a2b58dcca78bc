package handlers

import (
	"context"
	"io"
	"time"

	"ngoadmin/db"
	"ngoadmin/internal/files"
	"ngoadmin/models"
)

type StorageInterface interface {
	Ping(ctx context.Context) error

	ListAssets(ctx context.Context) ([]models.Asset, error)
	GetAsset(ctx context.Context, id int) (*models.Asset, error)
	CreateAsset(ctx context.Context, a *models.Asset) error
	UpdateAsset(ctx context.Context, a *models.Asset) error
	DeleteAsset(ctx context.Context, id int) (*string, error)

	ListAssetCategories(ctx context.Context) ([]models.AssetCategory, error)
	CreateAssetCategory(ctx context.Context, c *models.AssetCategory) error
	UpdateAssetCategory(ctx context.Context, c *models.AssetCategory) error
	DeleteAssetCategory(ctx context.Context, id int) error

	ListSuppliesCategories(ctx context.Context) ([]models.SuppliesCategory, error)
	CreateSuppliesCategory(ctx context.Context, c *models.SuppliesCategory) error
	UpdateSuppliesCategory(ctx context.Context, c *models.SuppliesCategory) error
	DeleteSuppliesCategory(ctx context.Context, id int) error

	ListSubCategories(ctx context.Context, f db.StockFilter) ([]models.SuppliesSubCategory, error)
	GetSubCategory(ctx context.Context, id int) (*models.SuppliesSubCategory, error)
	CreateSubCategory(ctx context.Context, sub *models.SuppliesSubCategory) error
	UpdateSubCategory(ctx context.Context, sub *models.SuppliesSubCategory) error
	DeleteSubCategory(ctx context.Context, id int) error

	ListAid(ctx context.Context) ([]models.Aid, error)
	GetAid(ctx context.Context, id int) (*models.Aid, error)
	CreateAid(ctx context.Context, a *models.Aid) error
	AddAidItems(ctx context.Context, id int, items []models.ItemInput) (*models.Aid, error)
	UpdateAid(ctx context.Context, a *models.Aid, items []models.ItemInput) error
	DeleteAid(ctx context.Context, id int) (*string, error)

	ListSupplies(ctx context.Context, nature string) ([]models.Supplies, error)
	GetSupplies(ctx context.Context, id int) (*models.Supplies, error)
	CreateSupplies(ctx context.Context, s *models.Supplies) error
	AddSuppliesItems(ctx context.Context, id int, items []models.ItemInput) (*models.Supplies, error)
	UpdateSupplies(ctx context.Context, s *models.Supplies, items []models.ItemInput) error
	DeleteSupplies(ctx context.Context, id int) (*string, error)

	ListProjects(ctx context.Context) ([]models.OngoingProject, error)
	GetProject(ctx context.Context, id int) (*models.OngoingProject, error)
	CreateProject(ctx context.Context, p *models.OngoingProject) error
	SetProjectStatus(ctx context.Context, id int, status string) error
	DeleteProject(ctx context.Context, id int) error

	ListDeliberations(ctx context.Context) ([]models.Deliberation, error)
	GetDeliberation(ctx context.Context, id int) (*models.Deliberation, error)
	CreateDeliberation(ctx context.Context, d *models.Deliberation) error
	UpdateDeliberation(ctx context.Context, d *models.Deliberation) error
	DeleteDeliberation(ctx context.Context, id int) (*string, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int) error
}

// FileStore keeps attachments.
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*files.StoredFile, error)
	Open(path string) (io.ReadSeekCloser, time.Time, error)
	Remove(path string) error
}
