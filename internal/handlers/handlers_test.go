package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ngoadmin/db"
	"ngoadmin/internal/files"
	"ngoadmin/internal/handlers"
	"ngoadmin/internal/handlers/testutils"
	"ngoadmin/models"
	"ngoadmin/supplies"
)

// MockStorage implements StorageInterface. Unset funcs return empty results.
type MockStorage struct {
	PingFunc                func(ctx context.Context) error
	ListAssetsFunc          func(ctx context.Context) ([]models.Asset, error)
	CreateAssetFunc         func(ctx context.Context, a *models.Asset) error
	CreateAssetCategoryFunc func(ctx context.Context, c *models.AssetCategory) error
	ListSubCategoriesFunc   func(ctx context.Context, f db.StockFilter) ([]models.SuppliesSubCategory, error)
	ListAidFunc             func(ctx context.Context) ([]models.Aid, error)
	GetAidFunc              func(ctx context.Context, id int) (*models.Aid, error)
	CreateAidFunc           func(ctx context.Context, a *models.Aid) error
	AddAidItemsFunc         func(ctx context.Context, id int, items []models.ItemInput) (*models.Aid, error)
	UpdateAidFunc           func(ctx context.Context, a *models.Aid, items []models.ItemInput) error
	DeleteAidFunc           func(ctx context.Context, id int) (*string, error)
	ListSuppliesFunc        func(ctx context.Context, nature string) ([]models.Supplies, error)
	CreateSuppliesFunc      func(ctx context.Context, s *models.Supplies) error
	GetProjectFunc          func(ctx context.Context, id int) (*models.OngoingProject, error)
	SetProjectStatusFunc    func(ctx context.Context, id int, status string) error
	CreateDeliberationFunc  func(ctx context.Context, d *models.Deliberation) error
	GetUserFunc             func(ctx context.Context, id int) (*models.User, error)
	CreateUserFunc          func(ctx context.Context, u *models.User) error
	UpdateUserFunc          func(ctx context.Context, u *models.User) error
}

func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockStorage) ListAssets(ctx context.Context) ([]models.Asset, error) {
	if m.ListAssetsFunc != nil {
		return m.ListAssetsFunc(ctx)
	}
	return []models.Asset{}, nil
}
func (m *MockStorage) GetAsset(ctx context.Context, id int) (*models.Asset, error) {
	return &models.Asset{ID: id, CategoryName: "حواسيب"}, nil
}
func (m *MockStorage) CreateAsset(ctx context.Context, a *models.Asset) error {
	if m.CreateAssetFunc != nil {
		return m.CreateAssetFunc(ctx, a)
	}
	return nil
}
func (m *MockStorage) UpdateAsset(ctx context.Context, a *models.Asset) error   { return nil }
func (m *MockStorage) DeleteAsset(ctx context.Context, id int) (*string, error) { return nil, nil }

func (m *MockStorage) ListAssetCategories(ctx context.Context) ([]models.AssetCategory, error) {
	return []models.AssetCategory{}, nil
}
func (m *MockStorage) CreateAssetCategory(ctx context.Context, c *models.AssetCategory) error {
	if m.CreateAssetCategoryFunc != nil {
		return m.CreateAssetCategoryFunc(ctx, c)
	}
	return nil
}
func (m *MockStorage) UpdateAssetCategory(ctx context.Context, c *models.AssetCategory) error {
	return nil
}
func (m *MockStorage) DeleteAssetCategory(ctx context.Context, id int) error { return nil }

func (m *MockStorage) ListSuppliesCategories(ctx context.Context) ([]models.SuppliesCategory, error) {
	return []models.SuppliesCategory{}, nil
}
func (m *MockStorage) CreateSuppliesCategory(ctx context.Context, c *models.SuppliesCategory) error {
	return nil
}
func (m *MockStorage) UpdateSuppliesCategory(ctx context.Context, c *models.SuppliesCategory) error {
	return nil
}
func (m *MockStorage) DeleteSuppliesCategory(ctx context.Context, id int) error { return nil }

func (m *MockStorage) ListSubCategories(ctx context.Context, f db.StockFilter) ([]models.SuppliesSubCategory, error) {
	if m.ListSubCategoriesFunc != nil {
		return m.ListSubCategoriesFunc(ctx, f)
	}
	return []models.SuppliesSubCategory{}, nil
}
func (m *MockStorage) GetSubCategory(ctx context.Context, id int) (*models.SuppliesSubCategory, error) {
	return &models.SuppliesSubCategory{ID: id}, nil
}
func (m *MockStorage) CreateSubCategory(ctx context.Context, sub *models.SuppliesSubCategory) error {
	return nil
}
func (m *MockStorage) UpdateSubCategory(ctx context.Context, sub *models.SuppliesSubCategory) error {
	return nil
}
func (m *MockStorage) DeleteSubCategory(ctx context.Context, id int) error { return nil }

func (m *MockStorage) ListAid(ctx context.Context) ([]models.Aid, error) {
	if m.ListAidFunc != nil {
		return m.ListAidFunc(ctx)
	}
	return []models.Aid{}, nil
}
func (m *MockStorage) GetAid(ctx context.Context, id int) (*models.Aid, error) {
	if m.GetAidFunc != nil {
		return m.GetAidFunc(ctx, id)
	}
	return &models.Aid{ID: id, Reference: "AID-1", Type: models.TypeCash}, nil
}
func (m *MockStorage) CreateAid(ctx context.Context, a *models.Aid) error {
	if m.CreateAidFunc != nil {
		return m.CreateAidFunc(ctx, a)
	}
	a.ID = 1
	return nil
}
func (m *MockStorage) AddAidItems(ctx context.Context, id int, items []models.ItemInput) (*models.Aid, error) {
	if m.AddAidItemsFunc != nil {
		return m.AddAidItemsFunc(ctx, id, items)
	}
	return &models.Aid{ID: id}, nil
}
func (m *MockStorage) UpdateAid(ctx context.Context, a *models.Aid, items []models.ItemInput) error {
	if m.UpdateAidFunc != nil {
		return m.UpdateAidFunc(ctx, a, items)
	}
	return nil
}
func (m *MockStorage) DeleteAid(ctx context.Context, id int) (*string, error) {
	if m.DeleteAidFunc != nil {
		return m.DeleteAidFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStorage) ListSupplies(ctx context.Context, nature string) ([]models.Supplies, error) {
	if m.ListSuppliesFunc != nil {
		return m.ListSuppliesFunc(ctx, nature)
	}
	return []models.Supplies{}, nil
}
func (m *MockStorage) GetSupplies(ctx context.Context, id int) (*models.Supplies, error) {
	return &models.Supplies{ID: id}, nil
}
func (m *MockStorage) CreateSupplies(ctx context.Context, s *models.Supplies) error {
	if m.CreateSuppliesFunc != nil {
		return m.CreateSuppliesFunc(ctx, s)
	}
	return nil
}
func (m *MockStorage) AddSuppliesItems(ctx context.Context, id int, items []models.ItemInput) (*models.Supplies, error) {
	return &models.Supplies{ID: id}, nil
}
func (m *MockStorage) UpdateSupplies(ctx context.Context, s *models.Supplies, items []models.ItemInput) error {
	return nil
}
func (m *MockStorage) DeleteSupplies(ctx context.Context, id int) (*string, error) { return nil, nil }

func (m *MockStorage) ListProjects(ctx context.Context) ([]models.OngoingProject, error) {
	return []models.OngoingProject{}, nil
}
func (m *MockStorage) GetProject(ctx context.Context, id int) (*models.OngoingProject, error) {
	if m.GetProjectFunc != nil {
		return m.GetProjectFunc(ctx, id)
	}
	return &models.OngoingProject{ID: id, Name: "Test Project", ImplementationStatus: models.ProjectOngoing}, nil
}
func (m *MockStorage) CreateProject(ctx context.Context, p *models.OngoingProject) error { return nil }
func (m *MockStorage) SetProjectStatus(ctx context.Context, id int, status string) error {
	if m.SetProjectStatusFunc != nil {
		return m.SetProjectStatusFunc(ctx, id, status)
	}
	return nil
}
func (m *MockStorage) DeleteProject(ctx context.Context, id int) error { return nil }

func (m *MockStorage) ListDeliberations(ctx context.Context) ([]models.Deliberation, error) {
	return []models.Deliberation{}, nil
}
func (m *MockStorage) GetDeliberation(ctx context.Context, id int) (*models.Deliberation, error) {
	return &models.Deliberation{ID: id}, nil
}
func (m *MockStorage) CreateDeliberation(ctx context.Context, d *models.Deliberation) error {
	if m.CreateDeliberationFunc != nil {
		return m.CreateDeliberationFunc(ctx, d)
	}
	return nil
}
func (m *MockStorage) UpdateDeliberation(ctx context.Context, d *models.Deliberation) error {
	return nil
}
func (m *MockStorage) DeleteDeliberation(ctx context.Context, id int) (*string, error) {
	return nil, nil
}

func (m *MockStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	return []models.User{}, nil
}
func (m *MockStorage) GetUser(ctx context.Context, id int) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return &models.User{ID: id, Name: "Test User", Email: "user@example.org", Role: models.RoleUser}, nil
}
func (m *MockStorage) CreateUser(ctx context.Context, u *models.User) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, u)
	}
	return nil
}
func (m *MockStorage) UpdateUser(ctx context.Context, u *models.User) error {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, u)
	}
	return nil
}
func (m *MockStorage) DeleteUser(ctx context.Context, id int) error { return nil }

// memFiles keeps attachments in memory.
type memFiles struct {
	content map[string]string
	removed []string
}

func newMemFiles() *memFiles { return &memFiles{content: map[string]string{}} }

func (f *memFiles) Save(ctx context.Context, name string, r io.Reader) (*files.StoredFile, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	path := "stored-" + name
	f.content[path] = string(b)
	return &files.StoredFile{
		Name:        name,
		Path:        path,
		ContentType: http.DetectContentType(b),
		Size:        int64(len(b)),
	}, nil
}

type readSeekNopCloser struct{ *strings.Reader }

func (readSeekNopCloser) Close() error { return nil }

func (f *memFiles) Open(path string) (io.ReadSeekCloser, time.Time, error) {
	c, ok := f.content[path]
	if !ok {
		return nil, time.Time{}, fs.ErrNotExist
	}
	return readSeekNopCloser{strings.NewReader(c)}, time.Time{}, nil
}

func (f *memFiles) Remove(path string) error {
	f.removed = append(f.removed, path)
	delete(f.content, path)
	return nil
}

var fixedNow = time.Date(2026, 10, 18, 15, 30, 45, 0, time.UTC)

func newTestHandler(store *MockStorage, att *memFiles) *handlers.Handler {
	return handlers.NewHandler(store, att,
		handlers.WithLocation(time.UTC),
		handlers.WithClock(func() time.Time { return fixedNow }))
}

type upload struct {
	field, name, content string
}

// multipartBody encodes fields (repeated keys allowed) and an optional file.
func multipartBody(t *testing.T, fields [][2]string, file *upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, kv := range fields {
		require.NoError(t, mw.WriteField(kv[0], kv[1]))
	}
	if file != nil {
		fw, err := mw.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(file.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
	Details json.RawMessage `json:"details"`
}

func decodeEnvelope(t *testing.T, res *http.Response) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	return env
}

func TestPingHandler(t *testing.T) {
	store := &MockStorage{PingFunc: func(ctx context.Context) error { return errors.New("down") }}
	handler := newTestHandler(store, newMemFiles())

	w := httptest.NewRecorder()
	handler.PingHandler(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListAidHandler(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 10, d, 12, 0, 0, 0, time.UTC) }
	store := &MockStorage{
		ListAidFunc: func(ctx context.Context) ([]models.Aid, error) {
			return []models.Aid{
				{ID: 1, Reference: "AID-1", Usage: "Family A", Type: models.TypeCash, Date: day(1)},
				{ID: 2, Reference: "AID-2", Usage: "Family B", Type: models.TypeInKind, Date: day(5)},
				{ID: 3, Reference: "AID-3", Usage: "School", Type: models.TypeCash, Date: day(10)},
				{ID: 4, Reference: "AID-4", Usage: "Family C", Type: models.TypeCash, Date: day(15)},
			}, nil
		},
	}
	handler := newTestHandler(store, newMemFiles())

	t.Run("paginates and reports the total", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/aid?page=2&pageSize=3", nil)
		w := httptest.NewRecorder()
		handler.ListAidHandler(w, req)

		res := w.Result()
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Equal(t, "4", res.Header.Get(handlers.TotalCountHeader))

		var page []models.Aid
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, res).Data, &page))
		require.Len(t, page, 1)
		require.Equal(t, 4, page[0].ID)
	})

	t.Run("filters by search, type and date range", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/aid?search=family&type="+url.QueryEscape(string(models.TypeCash))+"&from=2026-10-01&to=2026-10-14", nil)
		w := httptest.NewRecorder()
		handler.ListAidHandler(w, req)

		res := w.Result()
		defer res.Body.Close()
		require.Equal(t, "1", res.Header.Get(handlers.TotalCountHeader))

		var page []models.Aid
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, res).Data, &page))
		require.Len(t, page, 1)
		require.Equal(t, "AID-1", page[0].Reference)
	})
}

func TestCreateAidHandler(t *testing.T) {
	t.Run("generates the reference", func(t *testing.T) {
		var created *models.Aid
		store := &MockStorage{CreateAidFunc: func(ctx context.Context, a *models.Aid) error {
			a.ID = 9
			created = a
			return nil
		}}
		att := newMemFiles()
		handler := newTestHandler(store, att)

		body, ct := multipartBody(t, [][2]string{
			{"Usage", "Family A"},
			{"Date", "2026-10-18"},
			{"Type", "نقدي"},
			{"CashAmount", "150.50"},
		}, &upload{field: "LegalFile", name: "decision.pdf", content: "%PDF-1.4 test"})
		req := httptest.NewRequest(http.MethodPost, "/api/aid", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()

		handler.CreateAidHandler(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, created)
		require.Equal(t, "AID-20261018-153045", created.Reference)
		require.True(t, created.CashAmount.Equal(decimal.RequireFromString("150.50")))
		require.NotNil(t, created.FileName)
		require.Equal(t, "decision.pdf", *created.FileName)
		require.Contains(t, att.content, "stored-decision.pdf")
	})

	t.Run("fills usage and reference from the project", func(t *testing.T) {
		var created *models.Aid
		store := &MockStorage{
			GetProjectFunc: func(ctx context.Context, id int) (*models.OngoingProject, error) {
				return &models.OngoingProject{ID: id, Name: "Winter Relief"}, nil
			},
			CreateAidFunc: func(ctx context.Context, a *models.Aid) error {
				created = a
				return nil
			},
		}
		handler := newTestHandler(store, newMemFiles())

		body, ct := multipartBody(t, [][2]string{
			{"Date", "2026-10-18"},
			{"Type", "نقدي"},
			{"CashAmount", "20"},
			{"ProjectId", "4"},
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/aid", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()

		handler.CreateAidHandler(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "Winter Relief", created.Usage)
		require.Equal(t, "AID-P4-20261018-153045", created.Reference)
	})

	t.Run("generated reference collision is retried once", func(t *testing.T) {
		var refs []string
		store := &MockStorage{CreateAidFunc: func(ctx context.Context, a *models.Aid) error {
			refs = append(refs, a.Reference)
			if len(refs) == 1 {
				return &pq.Error{Code: db.CodeUniqueViolation}
			}
			return nil
		}}
		handler := newTestHandler(store, newMemFiles())

		body, ct := multipartBody(t, [][2]string{
			{"Usage", "Family A"},
			{"Date", "2026-10-18"},
			{"Type", "نقدي"},
			{"CashAmount", "10"},
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/aid", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()

		handler.CreateAidHandler(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, []string{"AID-20261018-153045", "AID-20261018-153045.000"}, refs)
	})

	t.Run("typed reference collision is a conflict", func(t *testing.T) {
		calls := 0
		store := &MockStorage{CreateAidFunc: func(ctx context.Context, a *models.Aid) error {
			calls++
			return &pq.Error{Code: db.CodeUniqueViolation}
		}}
		handler := newTestHandler(store, newMemFiles())

		body, ct := multipartBody(t, [][2]string{
			{"Reference", "REF-1"},
			{"Usage", "Family A"},
			{"Date", "2026-10-18"},
			{"Type", "نقدي"},
			{"CashAmount", "10"},
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/aid", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()

		handler.CreateAidHandler(w, req)

		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, 1, calls)
	})

	t.Run("unknown project is a field error", func(t *testing.T) {
		store := &MockStorage{
			GetProjectFunc: func(ctx context.Context, id int) (*models.OngoingProject, error) {
				return nil, db.ErrNotFound
			},
			CreateAidFunc: func(ctx context.Context, a *models.Aid) error {
				t.Fatal("store must not be called")
				return nil
			},
		}
		handler := newTestHandler(store, newMemFiles())

		body, ct := multipartBody(t, [][2]string{
			{"Date", "2026-10-18"},
			{"Type", "نقدي"},
			{"CashAmount", "20"},
			{"ProjectId", "4"},
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/aid", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()

		handler.CreateAidHandler(w, req)

		res := w.Result()
		defer res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.Equal(t, "projectId", decodeEnvelope(t, res).Field)
	})

	t.Run("cash type needs a positive amount", func(t *testing.T) {
		handler := newTestHandler(&MockStorage{}, newMemFiles())

		body, ct := multipartBody(t, [][2]string{
			{"Usage", "Family A"},
			{"Date", "2026-10-18"},
			{"Type", "نقدي"},
			{"CashAmount", "0"},
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/aid", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()

		handler.CreateAidHandler(w, req)

		res := w.Result()
		defer res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.Equal(t, "cashAmount", decodeEnvelope(t, res).Field)
	})
}

func TestAddAidItemsHandler(t *testing.T) {
	t.Run("stock violations are reported", func(t *testing.T) {
		store := &MockStorage{
			AddAidItemsFunc: func(ctx context.Context, id int, items []models.ItemInput) (*models.Aid, error) {
				return nil, &supplies.StockError{Violations: []supplies.Violation{
					{SubCategoryID: 3, SubCategoryName: "Blankets", Requested: 12, Available: 10},
				}}
			},
		}
		handler := newTestHandler(store, newMemFiles())

		req := httptest.NewRequest(http.MethodPost, "/api/aid/7/items",
			strings.NewReader(`[{"subCategoryId":3,"quantity":12}]`))
		req.Header.Set("Content-Type", "application/json")
		req = testutils.WithID(req, 7)
		w := httptest.NewRecorder()

		handler.AddAidItemsHandler(w, req)

		res := w.Result()
		defer res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode)

		env := decodeEnvelope(t, res)
		require.Equal(t, supplies.ErrQuantityExceedsStock.Error(), env.Error)
		require.Equal(t, "items", env.Field)

		var violations []supplies.Violation
		require.NoError(t, json.Unmarshal(env.Details, &violations))
		require.Equal(t, []supplies.Violation{
			{SubCategoryID: 3, SubCategoryName: "Blankets", Requested: 12, Available: 10},
		}, violations)
	})

	t.Run("empty list is rejected before the store", func(t *testing.T) {
		store := &MockStorage{
			AddAidItemsFunc: func(ctx context.Context, id int, items []models.ItemInput) (*models.Aid, error) {
				t.Fatal("store must not be called")
				return nil, nil
			},
		}
		handler := newTestHandler(store, newMemFiles())

		req := httptest.NewRequest(http.MethodPost, "/api/aid/7/items", strings.NewReader(`[]`))
		req = testutils.WithID(req, 7)
		w := httptest.NewRecorder()

		handler.AddAidItemsHandler(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("cash-only record", func(t *testing.T) {
		store := &MockStorage{
			AddAidItemsFunc: func(ctx context.Context, id int, items []models.ItemInput) (*models.Aid, error) {
				return nil, supplies.ErrCashOnly
			},
		}
		handler := newTestHandler(store, newMemFiles())

		req := httptest.NewRequest(http.MethodPost, "/api/aid/7/items",
			strings.NewReader(`[{"subCategoryId":3,"quantity":1}]`))
		req = testutils.WithID(req, 7)
		w := httptest.NewRecorder()

		handler.AddAidItemsHandler(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateAidHandler(t *testing.T) {
	var (
		updated  *models.Aid
		received []models.ItemInput
	)
	att := newMemFiles()
	att.content["old.pdf"] = "old"
	oldName, oldPath := "old.pdf", "old.pdf"
	store := &MockStorage{
		GetAidFunc: func(ctx context.Context, id int) (*models.Aid, error) {
			if updated != nil {
				return updated, nil
			}
			return &models.Aid{ID: id, Reference: "AID-OLD", Usage: "Family A", Type: models.TypeInKind,
				FileName: &oldName, FilePath: &oldPath}, nil
		},
		UpdateAidFunc: func(ctx context.Context, a *models.Aid, items []models.ItemInput) error {
			updated, received = a, items
			return nil
		},
	}
	handler := newTestHandler(store, att)

	body, ct := multipartBody(t, [][2]string{
		{"Usage", "Family A"},
		{"Date", "2026-10-18T09:30"},
		{"Type", "نقدي وعيني"},
		{"CashAmount", "50"},
		{"Items[0].Id", "11"},
		{"Items[0].SubCategoryId", "3"},
		{"Items[0].Quantity", "2"},
		{"Items[1].SubCategoryId", "4"},
		{"Items[1].Quantity", "1"},
	}, &upload{field: "LegalFile", name: "new.pdf", content: "%PDF-1.4 new"})
	req := httptest.NewRequest(http.MethodPut, "/api/aid/7", body)
	req.Header.Set("Content-Type", ct)
	req = testutils.WithID(req, 7)
	w := httptest.NewRecorder()

	handler.UpdateAidHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 7, updated.ID)
	require.Equal(t, "AID-OLD", updated.Reference)
	require.Equal(t, "new.pdf", *updated.FileName)
	require.Equal(t, []models.ItemInput{
		{ID: 11, SubCategoryID: 3, Quantity: 2},
		{SubCategoryID: 4, Quantity: 1},
	}, received)
	require.Equal(t, []string{"old.pdf"}, att.removed)
}

func TestDeleteAidHandler(t *testing.T) {
	att := newMemFiles()
	att.content["legal.pdf"] = "x"
	path := "legal.pdf"
	store := &MockStorage{DeleteAidFunc: func(ctx context.Context, id int) (*string, error) {
		return &path, nil
	}}
	handler := newTestHandler(store, att)

	req := testutils.WithChiURLParams(httptest.NewRequest(http.MethodDelete, "/api/aid/7", nil),
		map[string]string{"id": "7"})
	w := httptest.NewRecorder()

	handler.DeleteAidHandler(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, []string{"legal.pdf"}, att.removed)
}

func TestGetAidHandler_NotFound(t *testing.T) {
	store := &MockStorage{GetAidFunc: func(ctx context.Context, id int) (*models.Aid, error) {
		return nil, db.ErrNotFound
	}}
	handler := newTestHandler(store, newMemFiles())

	req := testutils.WithChiURLParams(httptest.NewRequest(http.MethodGet, "/api/aid/42", nil),
		map[string]string{"id": "42"})
	w := httptest.NewRecorder()

	handler.GetAidHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Equal(t, handlers.MsgNotFound, decodeEnvelope(t, res).Error)
}

func TestDownloadAidFileHandler(t *testing.T) {
	att := newMemFiles()
	att.content["abc.pdf"] = "%PDF-1.4 body"
	name, path := "decision.pdf", "abc.pdf"
	store := &MockStorage{GetAidFunc: func(ctx context.Context, id int) (*models.Aid, error) {
		if id == 2 {
			return &models.Aid{ID: id}, nil
		}
		return &models.Aid{ID: id, FileName: &name, FilePath: &path}, nil
	}}
	handler := newTestHandler(store, att)

	t.Run("streams the attachment", func(t *testing.T) {
		req := testutils.WithChiURLParams(httptest.NewRequest(http.MethodGet, "/api/aid/1/file", nil),
			map[string]string{"id": "1"})
		w := httptest.NewRecorder()

		handler.DownloadAidFileHandler(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "attachment; filename=decision.pdf", w.Header().Get("Content-Disposition"))
		require.Equal(t, "%PDF-1.4 body", w.Body.String())
	})

	t.Run("record without attachment", func(t *testing.T) {
		req := testutils.WithChiURLParams(httptest.NewRequest(http.MethodGet, "/api/aid/2/file", nil),
			map[string]string{"id": "2"})
		w := httptest.NewRecorder()

		handler.DownloadAidFileHandler(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListSuppliesHandler_PassesNature(t *testing.T) {
	var nature string
	store := &MockStorage{ListSuppliesFunc: func(ctx context.Context, n string) ([]models.Supplies, error) {
		nature = n
		return []models.Supplies{{ID: 1, Nature: n}}, nil
	}}
	handler := newTestHandler(store, newMemFiles())

	w := httptest.NewRecorder()
	handler.ListSuppliesHandler(w, httptest.NewRequest(http.MethodGet, "/api/supplies?suppliesNature=purchase", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.NaturePurchase, nature)
}

func TestCreateSuppliesHandler_PurchasePrefix(t *testing.T) {
	var created *models.Supplies
	store := &MockStorage{CreateSuppliesFunc: func(ctx context.Context, s *models.Supplies) error {
		created = s
		return nil
	}}
	handler := newTestHandler(store, newMemFiles())

	body, ct := multipartBody(t, [][2]string{
		{"SuppliesNature", "purchase"},
		{"Source", "Local market"},
		{"Date", "2026-10-18"},
		{"Type", "عيني"},
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/supplies", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()

	handler.CreateSuppliesHandler(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "PUR-20261018-153045", created.Reference)
}

func TestListAssetsHandler_DeploymentDayWestOfUTC(t *testing.T) {
	store := &MockStorage{ListAssetsFunc: func(ctx context.Context) ([]models.Asset, error) {
		return []models.Asset{
			{ID: 1, DeploymentDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
			{ID: 2, DeploymentDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
			{ID: 3, DeploymentDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
		}, nil
	}}
	handler := handlers.NewHandler(store, newMemFiles(),
		handlers.WithLocation(time.FixedZone("EST", -5*3600)))

	w := httptest.NewRecorder()
	handler.ListAssetsHandler(w, httptest.NewRequest(http.MethodGet, "/api/ActImm?from=2026-03-10&to=2026-03-10", nil))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var assets []models.Asset
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, res).Data, &assets))
	require.Len(t, assets, 1)
	require.Equal(t, 2, assets[0].ID)
}

func TestCreateAssetHandler_DamagedNeedsEndDate(t *testing.T) {
	store := &MockStorage{CreateAssetFunc: func(ctx context.Context, a *models.Asset) error {
		t.Fatal("store must not be called")
		return nil
	}}
	handler := newTestHandler(store, newMemFiles())

	body, ct := multipartBody(t, [][2]string{
		{"CategoryId", "1"},
		{"Brand", "Dell"},
		{"SerialNumber", "SN-1"},
		{"Value", "900"},
		{"UsageLocation", "Office"},
		{"Source", "Donor"},
		{"SourceNature", "donation"},
		{"DeploymentDate", "2025-01-10"},
		{"Status", "damaged"},
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/ActImm", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()

	handler.CreateAssetHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "endDate", decodeEnvelope(t, res).Field)
}

func TestCreateAssetCategoryHandler_Duplicate(t *testing.T) {
	store := &MockStorage{CreateAssetCategoryFunc: func(ctx context.Context, c *models.AssetCategory) error {
		return &pq.Error{Code: db.CodeUniqueViolation}
	}}
	handler := newTestHandler(store, newMemFiles())

	req := httptest.NewRequest(http.MethodPost, "/api/ActImmCategory", strings.NewReader(`{"name":"Computers"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateAssetCategoryHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusConflict, res.StatusCode)
	require.Equal(t, handlers.MsgAlreadyExists, decodeEnvelope(t, res).Error)
}

func TestSubCategoryStockHandler(t *testing.T) {
	var got db.StockFilter
	store := &MockStorage{ListSubCategoriesFunc: func(ctx context.Context, f db.StockFilter) ([]models.SuppliesSubCategory, error) {
		got = f
		return []models.SuppliesSubCategory{{ID: 3, Quantity: 10, AvailableQuantity: 4}}, nil
	}}
	handler := newTestHandler(store, newMemFiles())

	w := httptest.NewRecorder()
	handler.SubCategoryStockHandler(w, httptest.NewRequest(http.MethodGet,
		"/api/suppliessubcategories/stock?excludeAid=5&categoryId=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, db.StockFilter{CategoryID: 2, ExcludeAidID: 5}, got)

	w = httptest.NewRecorder()
	handler.SubCategoryStockHandler(w, httptest.NewRequest(http.MethodGet,
		"/api/suppliessubcategories/stock?excludeSupplies=abc", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteProjectHandler(t *testing.T) {
	status := models.ProjectOngoing
	store := &MockStorage{
		GetProjectFunc: func(ctx context.Context, id int) (*models.OngoingProject, error) {
			return &models.OngoingProject{ID: id, Name: "Wells", ImplementationStatus: status}, nil
		},
		SetProjectStatusFunc: func(ctx context.Context, id int, s string) error {
			status = s
			return nil
		},
	}
	handler := newTestHandler(store, newMemFiles())

	complete := func() int {
		req := testutils.WithChiURLParams(httptest.NewRequest(http.MethodPut, "/api/ongoingprojects/3/complete", nil),
			map[string]string{"id": "3"})
		w := httptest.NewRecorder()
		handler.CompleteProjectHandler(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, complete())
	require.Equal(t, models.ProjectCompleted, status)
	require.Equal(t, http.StatusConflict, complete())
}

func TestCreateDeliberationHandler(t *testing.T) {
	t.Run("quorum not reached", func(t *testing.T) {
		store := &MockStorage{CreateDeliberationFunc: func(ctx context.Context, d *models.Deliberation) error {
			t.Fatal("store must not be called")
			return nil
		}}
		handler := newTestHandler(store, newMemFiles())

		body, ct := multipartBody(t, [][2]string{
			{"Number", "PV-1"},
			{"DateTime", "2026-10-18T10:00"},
			{"Attendees", "Amina"},
			{"Attendees", "Karim"},
			{"Attendees", "  "},
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/deliberations", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()

		handler.CreateDeliberationHandler(w, req)

		res := w.Result()
		defer res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.Equal(t, "attendees", decodeEnvelope(t, res).Field)
	})

	t.Run("document must be a PDF", func(t *testing.T) {
		att := newMemFiles()
		handler := newTestHandler(&MockStorage{}, att)

		body, ct := multipartBody(t, [][2]string{
			{"Number", "PV-1"},
			{"DateTime", "2026-10-18T10:00"},
			{"Attendees", "Amina"},
			{"Attendees", "Karim"},
			{"Attendees", "Salma"},
		}, &upload{field: "Document", name: "notes.txt", content: "plain text"})
		req := httptest.NewRequest(http.MethodPost, "/api/deliberations", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()

		handler.CreateDeliberationHandler(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, []string{"stored-notes.txt"}, att.removed)
	})

	t.Run("created", func(t *testing.T) {
		var created *models.Deliberation
		store := &MockStorage{CreateDeliberationFunc: func(ctx context.Context, d *models.Deliberation) error {
			d.ID = 5
			created = d
			return nil
		}}
		handler := newTestHandler(store, newMemFiles())

		body, ct := multipartBody(t, [][2]string{
			{"Number", "PV-1"},
			{"DateTime", "2026-10-18T10:00"},
			{"Attendees", "Amina"},
			{"Attendees", "Karim"},
			{"Attendees", "Salma"},
		}, &upload{field: "Document", name: "pv.pdf", content: "%PDF-1.4 minutes"})
		req := httptest.NewRequest(http.MethodPost, "/api/deliberations", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()

		handler.CreateDeliberationHandler(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, created.Attendees, 3)
		require.Equal(t, "pv.pdf", *created.DocumentName)
	})
}

func TestCreateUserHandler(t *testing.T) {
	var created *models.User
	store := &MockStorage{CreateUserFunc: func(ctx context.Context, u *models.User) error {
		u.ID = 1
		created = u
		return nil
	}}
	handler := newTestHandler(store, newMemFiles())

	req := httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"name":"Amina","email":"Amina@Example.org","password":"s3cret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateUserHandler(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "amina@example.org", created.Email)
	require.Equal(t, models.RoleUser, created.Role)
	require.True(t, created.IsActive)
	require.False(t, created.IsApproved)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")))
	require.NotContains(t, w.Body.String(), created.PasswordHash)
}

func TestUpdateUserHandler_KeepsPassword(t *testing.T) {
	var saved *models.User
	store := &MockStorage{
		GetUserFunc: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, Name: "Amina", Email: "amina@example.org", Role: models.RoleUser,
				IsActive: true, PasswordHash: "existing-hash"}, nil
		},
		UpdateUserFunc: func(ctx context.Context, u *models.User) error {
			saved = u
			return nil
		},
	}
	handler := newTestHandler(store, newMemFiles())

	req := httptest.NewRequest(http.MethodPut, "/api/users/1",
		strings.NewReader(`{"name":"Amina B","email":"amina@example.org","role":"Admin"}`))
	req = testutils.WithID(req, 1)
	w := httptest.NewRecorder()

	handler.UpdateUserHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "existing-hash", saved.PasswordHash)
	require.Equal(t, models.RoleAdmin, saved.Role)
	require.True(t, saved.IsActive)
}

func TestUpdateUserStatusHandler(t *testing.T) {
	var saved *models.User
	store := &MockStorage{UpdateUserFunc: func(ctx context.Context, u *models.User) error {
		saved = u
		return nil
	}}
	handler := newTestHandler(store, newMemFiles())

	req := httptest.NewRequest(http.MethodPut, "/api/users/1/status", strings.NewReader(`{"isApproved":true}`))
	req = testutils.WithID(req, 1)
	w := httptest.NewRecorder()

	handler.UpdateUserStatusHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, saved.IsApproved)

	req = httptest.NewRequest(http.MethodPut, "/api/users/1/status", strings.NewReader(`{}`))
	req = testutils.WithID(req, 1)
	w = httptest.NewRecorder()
	handler.UpdateUserStatusHandler(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes(t *testing.T) {
	store := &MockStorage{GetAidFunc: func(ctx context.Context, id int) (*models.Aid, error) {
		return &models.Aid{ID: id, Reference: "AID-ROUTED"}, nil
	}}
	router := newTestHandler(store, newMemFiles()).Routes()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/aid/12", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "AID-ROUTED")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/suppliessubcategories/stock", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/aid/abc", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
