package catalog

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/auth"
)

func newDetailRouter(repo *mockCatalogRepo) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo), nil)
	r := chi.NewRouter()
	r.Route("/api", handler.MountAPIRoutes)
	return r
}

func getDetail(t *testing.T, router chi.Router, path string, principal auth.Principal) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProductDetailOwner(t *testing.T) {
	minPrice := 10.0
	repo := &mockCatalogRepo{product: &Product{
		ID:                7,
		Name:              "Saffron",
		SupplierID:        42,
		UnitOfMeasure:     UnitGram,
		SuggestedMinPrice: &minPrice,
	}}
	router := newDetailRouter(repo)

	rec := getDetail(t, router, "/api/products/7", auth.Principal{
		UserID: 42, ProfileID: 42, Role: auth.RoleSupplier,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"suggested_min_price":10`)
}

func TestProductDetailRejectsVendor(t *testing.T) {
	repo := &mockCatalogRepo{product: &Product{ID: 7, Name: "Saffron", SupplierID: 42}}
	router := newDetailRouter(repo)

	rec := getDetail(t, router, "/api/products/7", auth.Principal{
		UserID: 5, ProfileID: 5, Role: auth.RoleVendor,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Saffron")
}

func TestProductDetailRejectsOtherSupplier(t *testing.T) {
	repo := &mockCatalogRepo{product: &Product{ID: 7, SupplierID: 42}}
	router := newDetailRouter(repo)

	rec := getDetail(t, router, "/api/products/7", auth.Principal{
		UserID: 43, ProfileID: 43, Role: auth.RoleSupplier,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductDetailNotFound(t *testing.T) {
	router := newDetailRouter(&mockCatalogRepo{})

	rec := getDetail(t, router, "/api/products/99", auth.Principal{
		UserID: 42, ProfileID: 42, Role: auth.RoleSupplier,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
