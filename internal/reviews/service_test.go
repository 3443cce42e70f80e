package reviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/ratings"
)

type mockReviewRepo struct {
	supplierAvg      float64
	supplierCount    int
	upstreamAvg      float64
	upstreamCount    int
	vendorReviewed   bool
	supplierReviewed bool
	linked           bool

	created []Review
	newAvg  float64
	newCnt  int
}

func (m *mockReviewRepo) HasVendorReviewedSupplier(context.Context, int64, int64) (bool, error) {
	return m.vendorReviewed, nil
}

// CreateSupplierReview folds the rating into the stored aggregate the way
// the real repository does inside its transaction.
func (m *mockReviewRepo) CreateSupplierReview(_ context.Context, rev Review) (int64, error) {
	m.created = append(m.created, rev)
	m.newAvg = ratings.NewAverage(m.supplierAvg, m.supplierCount, rev.Rating)
	m.newCnt = m.supplierCount + 1
	return int64(len(m.created)), nil
}

func (m *mockReviewRepo) ListByVendor(context.Context, int64) ([]Review, error)   { return nil, nil }
func (m *mockReviewRepo) ListForSupplier(context.Context, int64) ([]Review, error) { return nil, nil }

func (m *mockReviewRepo) IsUpstreamLinked(context.Context, int64, int64) (bool, error) {
	return m.linked, nil
}

func (m *mockReviewRepo) HasSupplierReviewedUpstream(context.Context, int64, int64) (bool, error) {
	return m.supplierReviewed, nil
}

func (m *mockReviewRepo) CreateUpstreamReview(_ context.Context, rev Review) (int64, error) {
	m.created = append(m.created, rev)
	m.newAvg = ratings.NewAverage(m.upstreamAvg, m.upstreamCount, rev.Rating)
	m.newCnt = m.upstreamCount + 1
	return int64(len(m.created)), nil
}

func (m *mockReviewRepo) ListBySupplier(context.Context, int64) ([]Review, error) { return nil, nil }

type mockOrderChecker struct {
	delivered bool
}

func (m *mockOrderChecker) HasDeliveredOrder(context.Context, int64, int64) (bool, error) {
	return m.delivered, nil
}

func TestReviewSupplierFirstReview(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := NewService(repo, &mockOrderChecker{delivered: true})

	id, err := svc.ReviewSupplier(context.Background(), 1, 100, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// First review replaces the zero average outright.
	assert.Equal(t, 4.0, repo.newAvg)
	assert.Equal(t, 1, repo.newCnt)
}

func TestReviewSupplierRunningAverage(t *testing.T) {
	repo := &mockReviewRepo{supplierAvg: 4.0, supplierCount: 2}
	svc := NewService(repo, &mockOrderChecker{delivered: true})

	_, err := svc.ReviewSupplier(context.Background(), 1, 100, 5, nil)
	require.NoError(t, err)

	assert.InDelta(t, 13.0/3.0, repo.newAvg, 1e-9)
	assert.Equal(t, 3, repo.newCnt)
}

func TestReviewSupplierNeedsDeliveredOrder(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := NewService(repo, &mockOrderChecker{delivered: false})

	_, err := svc.ReviewSupplier(context.Background(), 1, 100, 4, nil)
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.Empty(t, repo.created)
}

func TestReviewSupplierRejectsDuplicate(t *testing.T) {
	repo := &mockReviewRepo{vendorReviewed: true}
	svc := NewService(repo, &mockOrderChecker{delivered: true})

	_, err := svc.ReviewSupplier(context.Background(), 1, 100, 4, nil)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestReviewSupplierRejectsBadRating(t *testing.T) {
	svc := NewService(&mockReviewRepo{}, &mockOrderChecker{delivered: true})

	_, err := svc.ReviewSupplier(context.Background(), 1, 100, 0, nil)
	assert.Error(t, err)
	_, err = svc.ReviewSupplier(context.Background(), 1, 100, 6, nil)
	assert.Error(t, err)
}

func TestReviewUpstreamNeedsLink(t *testing.T) {
	repo := &mockReviewRepo{linked: false}
	svc := NewService(repo, &mockOrderChecker{})

	_, err := svc.ReviewUpstream(context.Background(), 100, 7, 5, nil)
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestReviewUpstreamRunningAverage(t *testing.T) {
	repo := &mockReviewRepo{linked: true, upstreamAvg: 3.0, upstreamCount: 4}
	svc := NewService(repo, &mockOrderChecker{})

	_, err := svc.ReviewUpstream(context.Background(), 100, 7, 5, nil)
	require.NoError(t, err)

	assert.InDelta(t, 17.0/5.0, repo.newAvg, 1e-9)
	assert.Equal(t, 5, repo.newCnt)

	require.Len(t, repo.created, 1)
	rev := repo.created[0]
	require.NotNil(t, rev.ReviewerSupplierID)
	assert.Equal(t, int64(100), *rev.ReviewerSupplierID)
	require.NotNil(t, rev.ReviewedUpstreamID)
	assert.Equal(t, int64(7), *rev.ReviewedUpstreamID)
}

func TestReviewUpstreamRejectsDuplicate(t *testing.T) {
	repo := &mockReviewRepo{linked: true, supplierReviewed: true}
	svc := NewService(repo, &mockOrderChecker{})

	_, err := svc.ReviewUpstream(context.Background(), 100, 7, 5, nil)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}
