package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

type mockCatalogRepo struct {
	product     *Product
	created     []Product
	updated     []Product
	deleted     []int64
	priceSet    float64
	browseTotal int
	browsed     []Product
	lastFilter  BrowseFilter
	lastPage    shared.Pagination
}

func (m *mockCatalogRepo) ListCategories(context.Context) ([]Category, error) { return nil, nil }

func (m *mockCatalogRepo) CreateCategory(context.Context, string, *string) (int64, error) {
	return 1, nil
}

func (m *mockCatalogRepo) ListBySupplier(context.Context, int64) ([]Product, error) {
	return nil, nil
}

func (m *mockCatalogRepo) Get(_ context.Context, id int64) (*Product, error) {
	if m.product != nil && m.product.ID == id {
		return m.product, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockCatalogRepo) Create(_ context.Context, p Product) (int64, error) {
	m.created = append(m.created, p)
	return int64(len(m.created)), nil
}

func (m *mockCatalogRepo) Update(_ context.Context, _ int64, p Product) error {
	m.updated = append(m.updated, p)
	return nil
}

func (m *mockCatalogRepo) Delete(_ context.Context, _, productID int64) error {
	m.deleted = append(m.deleted, productID)
	return nil
}

func (m *mockCatalogRepo) UpdatePrice(_ context.Context, _, _ int64, price float64) error {
	m.priceSet = price
	return nil
}

func (m *mockCatalogRepo) Browse(_ context.Context, filter BrowseFilter, p shared.Pagination) ([]Product, int, error) {
	m.lastFilter = filter
	m.lastPage = p
	return m.browsed, m.browseTotal, nil
}

func TestAddProduct(t *testing.T) {
	repo := &mockCatalogRepo{}
	svc := NewService(repo)

	id, err := svc.AddProduct(context.Background(), 200, Product{
		Name:                "Onions",
		UnitOfMeasure:       UnitKg,
		CurrentPricePerUnit: 20,
		QuantityAvailable:   100,
		QualityGrade:        GradeA,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.Len(t, repo.created, 1)
	assert.Equal(t, int64(200), repo.created[0].SupplierID)
}

func TestAddProductRejectsUnknownUnit(t *testing.T) {
	svc := NewService(&mockCatalogRepo{})

	_, err := svc.AddProduct(context.Background(), 200, Product{
		Name:          "Onions",
		UnitOfMeasure: Unit("barrel"),
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestAddProductRejectsUnknownGrade(t *testing.T) {
	svc := NewService(&mockCatalogRepo{})

	_, err := svc.AddProduct(context.Background(), 200, Product{
		Name:          "Onions",
		UnitOfMeasure: UnitKg,
		QualityGrade:  Grade("rotten"),
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestAddProductAllowsEmptyGrade(t *testing.T) {
	repo := &mockCatalogRepo{}
	svc := NewService(repo)

	_, err := svc.AddProduct(context.Background(), 200, Product{
		Name:          "Tomatoes",
		UnitOfMeasure: UnitKg,
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
}

func TestUpdatePriceRejectsNonPositive(t *testing.T) {
	repo := &mockCatalogRepo{}
	svc := NewService(repo)

	err := svc.UpdatePrice(context.Background(), 200, 1, 0)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.UpdatePrice(context.Background(), 200, 1, -5)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	require.NoError(t, svc.UpdatePrice(context.Background(), 200, 1, 22.5))
	assert.Equal(t, 22.5, repo.priceSet)
}

func TestBrowsePassesFilterAndPaginates(t *testing.T) {
	repo := &mockCatalogRepo{
		browsed:     []Product{{ID: 1, Name: "Onions"}},
		browseTotal: 7,
	}
	svc := NewService(repo)

	products, page, err := svc.Browse(context.Background(), BrowseFilter{
		Pincode:    "560041",
		Search:     "oni",
		CategoryID: 3,
	}, 2, 5)
	require.NoError(t, err)

	assert.Len(t, products, 1)
	assert.Equal(t, "560041", repo.lastFilter.Pincode)
	assert.Equal(t, "oni", repo.lastFilter.Search)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 2, page.Page)
}
