package leftovers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/catalog"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/profiles"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

type mockListingRepo struct {
	listings map[int64]*Listing
	nextID   int64

	soldListing int64
	soldBuyer   *int64
	newAvg      float64
	newCount    int
}

func newMockListingRepo() *mockListingRepo {
	return &mockListingRepo{listings: map[int64]*Listing{}}
}

func (m *mockListingRepo) Create(_ context.Context, l Listing) (int64, error) {
	m.nextID++
	l.ID = m.nextID
	m.listings[l.ID] = &l
	return l.ID, nil
}

func (m *mockListingRepo) Get(_ context.Context, id int64) (*Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	snapshot := *l
	return &snapshot, nil
}

func (m *mockListingRepo) ListBySeller(_ context.Context, vendorID int64) ([]Listing, error) {
	var out []Listing
	for _, l := range m.listings {
		if l.SellerVendorID == vendorID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockListingRepo) BrowseOthers(_ context.Context, vendorID int64) ([]Listing, error) {
	var out []Listing
	for _, l := range m.listings {
		if l.SellerVendorID != vendorID && l.IsActive {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockListingRepo) CompleteSale(_ context.Context, listingID int64, buyerID *int64, sellerID int64, newAvg float64, newCount int) error {
	l, ok := m.listings[listingID]
	if !ok || !l.IsActive {
		return shared.ErrNotFound
	}
	l.IsActive = false
	l.BuyerVendorID = buyerID
	m.soldListing = listingID
	m.soldBuyer = buyerID
	m.newAvg = newAvg
	m.newCount = newCount
	return nil
}

type mockVendorDir struct {
	vendors    map[int64]*profiles.VendorProfile
	byIdentity map[string]*profiles.VendorProfile
}

func (m *mockVendorDir) GetVendor(_ context.Context, id int64) (*profiles.VendorProfile, error) {
	v, ok := m.vendors[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func (m *mockVendorDir) FindVendorByIdentity(_ context.Context, identity string) (*profiles.VendorProfile, error) {
	v, ok := m.byIdentity[identity]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func newLeftoverFixture() (*Service, *mockListingRepo, *mockVendorDir) {
	repo := newMockListingRepo()
	vendors := &mockVendorDir{
		vendors: map[int64]*profiles.VendorProfile{
			1: {UserID: 1, Name: "Ravi Chaat Corner", AverageRatingAsSeller: 4.0, TotalReviewsAsSeller: 2},
		},
		byIdentity: map[string]*profiles.VendorProfile{
			"lakshmi": {UserID: 2, Name: "Lakshmi Dosa Cart"},
		},
	}
	return NewService(repo, vendors), repo, vendors
}

func validListing() Listing {
	return Listing{
		ItemName:      "Tomatoes",
		Quantity:      3,
		UnitOfMeasure: catalog.UnitKg,
		PricePerUnit:  12,
		Condition:     ConditionFresh,
		Fulfilment:    FulfilmentPickup,
	}
}

func TestCreateListing(t *testing.T) {
	svc, repo, _ := newLeftoverFixture()

	id, err := svc.CreateListing(context.Background(), 1, validListing())
	require.NoError(t, err)

	stored := repo.listings[id]
	assert.True(t, stored.IsActive)
	assert.Equal(t, int64(1), stored.SellerVendorID)
}

func TestCreateListingValidation(t *testing.T) {
	svc, _, _ := newLeftoverFixture()

	bad := validListing()
	bad.Quantity = 0
	_, err := svc.CreateListing(context.Background(), 1, bad)
	assert.Error(t, err)

	bad = validListing()
	bad.Condition = "rotten"
	_, err = svc.CreateListing(context.Background(), 1, bad)
	assert.Error(t, err)

	bad = validListing()
	bad.UnitOfMeasure = "barrel"
	_, err = svc.CreateListing(context.Background(), 1, bad)
	assert.Error(t, err)
}

func TestMarkSoldWithBuyer(t *testing.T) {
	svc, repo, _ := newLeftoverFixture()
	id, err := svc.CreateListing(context.Background(), 1, validListing())
	require.NoError(t, err)

	result, err := svc.MarkSold(context.Background(), 1, id, "lakshmi")
	require.NoError(t, err)

	require.NotNil(t, result.BuyerVendorID)
	assert.Equal(t, int64(2), *result.BuyerVendorID)
	assert.Empty(t, result.Warnings)
	assert.False(t, repo.listings[id].IsActive)

	// Seller aggregate gains a fixed five star rating: (4*2+5)/3.
	assert.InDelta(t, 13.0/3.0, repo.newAvg, 1e-9)
	assert.Equal(t, 3, repo.newCount)
}

func TestMarkSoldUnknownBuyerIsWarning(t *testing.T) {
	svc, repo, _ := newLeftoverFixture()
	id, err := svc.CreateListing(context.Background(), 1, validListing())
	require.NoError(t, err)

	result, err := svc.MarkSold(context.Background(), 1, id, "nobody")
	require.NoError(t, err)

	assert.Nil(t, result.BuyerVendorID)
	assert.NotEmpty(t, result.Warnings)
	assert.False(t, repo.listings[id].IsActive)
}

func TestMarkSoldOnlyOwner(t *testing.T) {
	svc, _, _ := newLeftoverFixture()
	id, err := svc.CreateListing(context.Background(), 1, validListing())
	require.NoError(t, err)

	_, err = svc.MarkSold(context.Background(), 2, id, "")
	assert.Error(t, err)
}

func TestMarkSoldOnlyOnce(t *testing.T) {
	svc, _, _ := newLeftoverFixture()
	id, err := svc.CreateListing(context.Background(), 1, validListing())
	require.NoError(t, err)

	_, err = svc.MarkSold(context.Background(), 1, id, "")
	require.NoError(t, err)

	_, err = svc.MarkSold(context.Background(), 1, id, "")
	assert.Error(t, err)
}
