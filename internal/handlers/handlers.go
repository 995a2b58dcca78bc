package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const defaultMaxUpload = 10 << 20

// Handler serves the REST API over a storage and an attachment store.
type Handler struct {
	Store     StorageInterface
	Files     FileStore
	Loc       *time.Location
	MaxUpload int64
	Now       func() time.Time
}

type Option func(*Handler)

// WithLocation sets the zone used for day boundaries and zone-less dates.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) { h.Loc = loc }
}

// WithMaxUpload limits the size of multipart bodies.
func WithMaxUpload(n int64) Option {
	return func(h *Handler) { h.MaxUpload = n }
}

// WithClock replaces time.Now for generated references.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.Now = now }
}

func NewHandler(store StorageInterface, fs FileStore, opts ...Option) *Handler {
	h := &Handler{
		Store:     store,
		Files:     fs,
		Loc:       time.Local,
		MaxUpload: defaultMaxUpload,
		Now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the API router, to be mounted under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/ping", h.PingHandler)

	r.Route("/ActImm", func(r chi.Router) {
		r.Get("/", h.ListAssetsHandler)
		r.Post("/", h.CreateAssetHandler)
		r.Get("/{id}", h.GetAssetHandler)
		r.Put("/{id}", h.UpdateAssetHandler)
		r.Delete("/{id}", h.DeleteAssetHandler)
		r.Get("/{id}/file", h.DownloadAssetFileHandler)
	})
	r.Route("/ActImmCategory", func(r chi.Router) {
		r.Get("/", h.ListAssetCategoriesHandler)
		r.Post("/", h.CreateAssetCategoryHandler)
		r.Put("/{id}", h.UpdateAssetCategoryHandler)
		r.Delete("/{id}", h.DeleteAssetCategoryHandler)
	})
	r.Route("/suppliescategories", func(r chi.Router) {
		r.Get("/", h.ListSuppliesCategoriesHandler)
		r.Post("/", h.CreateSuppliesCategoryHandler)
		r.Put("/{id}", h.UpdateSuppliesCategoryHandler)
		r.Delete("/{id}", h.DeleteSuppliesCategoryHandler)
		r.Get("/{id}/subcategories", h.ListCategorySubCategoriesHandler)
	})
	r.Route("/suppliessubcategories", func(r chi.Router) {
		r.Get("/", h.ListSubCategoriesHandler)
		r.Get("/stock", h.SubCategoryStockHandler)
		r.Post("/", h.CreateSubCategoryHandler)
		r.Put("/{id}", h.UpdateSubCategoryHandler)
		r.Delete("/{id}", h.DeleteSubCategoryHandler)
	})
	r.Route("/aid", func(r chi.Router) {
		r.Get("/", h.ListAidHandler)
		r.Post("/", h.CreateAidHandler)
		r.Get("/{id}", h.GetAidHandler)
		r.Put("/{id}", h.UpdateAidHandler)
		r.Delete("/{id}", h.DeleteAidHandler)
		r.Post("/{id}/items", h.AddAidItemsHandler)
		r.Get("/{id}/file", h.DownloadAidFileHandler)
	})
	r.Route("/supplies", func(r chi.Router) {
		r.Get("/", h.ListSuppliesHandler)
		r.Post("/", h.CreateSuppliesHandler)
		r.Get("/{id}", h.GetSuppliesHandler)
		r.Put("/{id}", h.UpdateSuppliesHandler)
		r.Delete("/{id}", h.DeleteSuppliesHandler)
		r.Post("/{id}/items", h.AddSuppliesItemsHandler)
		r.Get("/{id}/file", h.DownloadSuppliesFileHandler)
	})
	r.Route("/ongoingprojects", func(r chi.Router) {
		r.Get("/", h.ListProjectsHandler)
		r.Post("/", h.CreateProjectHandler)
		r.Get("/{id}", h.GetProjectHandler)
		r.Delete("/{id}", h.DeleteProjectHandler)
		r.Put("/{id}/complete", h.CompleteProjectHandler)
	})
	r.Route("/deliberations", func(r chi.Router) {
		r.Get("/", h.ListDeliberationsHandler)
		r.Post("/", h.CreateDeliberationHandler)
		r.Get("/{id}", h.GetDeliberationHandler)
		r.Put("/{id}", h.UpdateDeliberationHandler)
		r.Delete("/{id}", h.DeleteDeliberationHandler)
		r.Get("/{id}/document", h.DownloadDeliberationHandler)
	})
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsersHandler)
		r.Post("/", h.CreateUserHandler)
		r.Get("/{id}", h.GetUserHandler)
		r.Put("/{id}", h.UpdateUserHandler)
		r.Delete("/{id}", h.DeleteUserHandler)
		r.Put("/{id}/status", h.UpdateUserStatusHandler)
	})
	return r
}

// PingHandler answers "ok" when the database is reachable.
// @Summary      Health check
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "ok"
// @Failure      503  {string}  string
// @Router       /ping [get]
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
