package profiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

type mockProfileRepo struct {
	upstreamByPhone map[string]*UpstreamSupplier

	created []UpstreamSupplier
	links   [][2]int64
}

func (m *mockProfileRepo) GetVendor(context.Context, int64) (*VendorProfile, error) {
	return nil, shared.ErrNotFound
}

func (m *mockProfileRepo) GetSupplier(context.Context, int64) (*SupplierProfile, error) {
	return nil, shared.ErrNotFound
}

func (m *mockProfileRepo) UpdateVendor(context.Context, int64, VendorUpdate) error { return nil }

func (m *mockProfileRepo) UpdateSupplier(context.Context, int64, SupplierUpdate) error { return nil }

func (m *mockProfileRepo) ListSuppliers(context.Context, bool, shared.Pagination) ([]SupplierProfile, int, error) {
	return nil, 0, nil
}

func (m *mockProfileRepo) SetSupplierVerified(context.Context, int64, bool) error { return nil }

func (m *mockProfileRepo) FindVendorByIdentity(context.Context, string) (*VendorProfile, error) {
	return nil, shared.ErrNotFound
}

func (m *mockProfileRepo) ListUpstreamForSupplier(context.Context, int64) ([]UpstreamSupplier, error) {
	return nil, nil
}

func (m *mockProfileRepo) FindUpstreamByPhone(_ context.Context, phone string) (*UpstreamSupplier, error) {
	if u, ok := m.upstreamByPhone[phone]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockProfileRepo) LinkUpstream(_ context.Context, supplierID, upstreamID int64) error {
	m.links = append(m.links, [2]int64{supplierID, upstreamID})
	return nil
}

func (m *mockProfileRepo) CreateUpstreamForSupplier(_ context.Context, supplierID int64, up UpstreamSupplier) (int64, error) {
	m.created = append(m.created, up)
	id := int64(100 + len(m.created))
	m.links = append(m.links, [2]int64{supplierID, id})
	return id, nil
}

func strptr(s string) *string { return &s }

func TestAddUpstreamSupplierReusesByPhone(t *testing.T) {
	repo := &mockProfileRepo{
		upstreamByPhone: map[string]*UpstreamSupplier{
			"9898989898": {ID: 55, Name: "KR Market Wholesale", AverageRatingByHub: 4.2, TotalReviewsByHub: 9},
		},
	}
	svc := NewService(repo)

	id, err := svc.AddUpstreamSupplier(context.Background(), 200, UpstreamSupplier{
		Name:        "KR Market",
		PhoneNumber: strptr("9898989898"),
	})
	require.NoError(t, err)

	// Existing wholesaler keeps its identity and rating history.
	assert.Equal(t, int64(55), id)
	assert.Empty(t, repo.created)
	require.Len(t, repo.links, 1)
	assert.Equal(t, [2]int64{200, 55}, repo.links[0])
}

func TestAddUpstreamSupplierCreatesWhenPhoneUnknown(t *testing.T) {
	repo := &mockProfileRepo{}
	svc := NewService(repo)

	id, err := svc.AddUpstreamSupplier(context.Background(), 200, UpstreamSupplier{
		Name:        "New Mandi Traders",
		PhoneNumber: strptr("9000000009"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(101), id)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "New Mandi Traders", repo.created[0].Name)
}

func TestAddUpstreamSupplierCreatesWithoutPhone(t *testing.T) {
	repo := &mockProfileRepo{
		upstreamByPhone: map[string]*UpstreamSupplier{"": {ID: 1}},
	}
	svc := NewService(repo)

	_, err := svc.AddUpstreamSupplier(context.Background(), 200, UpstreamSupplier{Name: "No Phone Mandi"})
	require.NoError(t, err)

	// Empty phone never matches an existing record.
	require.Len(t, repo.created, 1)
}
