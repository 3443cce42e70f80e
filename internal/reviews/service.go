package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
)

// ErrAlreadyReviewed signals a duplicate review of the same target.
var ErrAlreadyReviewed = errors.New("already reviewed")

// ErrNotEligible signals a review without a qualifying relationship.
var ErrNotEligible = errors.New("not eligible to review")

// OrderChecker verifies the delivered-order precondition for vendor reviews.
type OrderChecker interface {
	HasDeliveredOrder(ctx context.Context, vendorID, supplierID int64) (bool, error)
}

// Service enforces review eligibility rules. Rating aggregates move inside
// the repository's insert transaction.
type Service struct {
	repo   Repository
	orders OrderChecker
}

// NewService constructs a Service.
func NewService(repo Repository, orders OrderChecker) *Service {
	return &Service{repo: repo, orders: orders}
}

// ReviewSupplier records a vendor's review of a hub. The vendor must have
// at least one delivered order from the hub and may review it only once.
func (s *Service) ReviewSupplier(ctx context.Context, vendorID, supplierID int64, rating int, comment *string) (int64, error) {
	if rating < 1 || rating > 5 {
		return 0, fmt.Errorf("%w: rating must be between 1 and 5", httpx.ErrValidation)
	}

	delivered, err := s.orders.HasDeliveredOrder(ctx, vendorID, supplierID)
	if err != nil {
		return 0, err
	}
	if !delivered {
		return 0, fmt.Errorf("%w: reviews need a delivered order from this supplier", ErrNotEligible)
	}

	reviewed, err := s.repo.HasVendorReviewedSupplier(ctx, vendorID, supplierID)
	if err != nil {
		return 0, err
	}
	if reviewed {
		return 0, ErrAlreadyReviewed
	}

	return s.repo.CreateSupplierReview(ctx, Review{
		ReviewerVendorID:   &vendorID,
		ReviewedSupplierID: &supplierID,
		Rating:             rating,
		Comment:            comment,
	})
}

// VendorReviews lists reviews the vendor has written.
func (s *Service) VendorReviews(ctx context.Context, vendorID int64) ([]Review, error) {
	return s.repo.ListByVendor(ctx, vendorID)
}

// SupplierReceivedReviews lists vendor reviews of the hub.
func (s *Service) SupplierReceivedReviews(ctx context.Context, supplierID int64) ([]Review, error) {
	return s.repo.ListForSupplier(ctx, supplierID)
}

// ReviewUpstream records a hub's review of a linked upstream source.
func (s *Service) ReviewUpstream(ctx context.Context, supplierID, upstreamID int64, rating int, comment *string) (int64, error) {
	if rating < 1 || rating > 5 {
		return 0, fmt.Errorf("%w: rating must be between 1 and 5", httpx.ErrValidation)
	}

	linked, err := s.repo.IsUpstreamLinked(ctx, supplierID, upstreamID)
	if err != nil {
		return 0, err
	}
	if !linked {
		return 0, fmt.Errorf("%w: upstream supplier is not linked to your hub", ErrNotEligible)
	}

	reviewed, err := s.repo.HasSupplierReviewedUpstream(ctx, supplierID, upstreamID)
	if err != nil {
		return 0, err
	}
	if reviewed {
		return 0, ErrAlreadyReviewed
	}

	return s.repo.CreateUpstreamReview(ctx, Review{
		ReviewerSupplierID: &supplierID,
		ReviewedUpstreamID: &upstreamID,
		Rating:             rating,
		Comment:            comment,
	})
}

// SupplierGivenReviews lists reviews the hub has written about its
// upstream sources.
func (s *Service) SupplierGivenReviews(ctx context.Context, supplierID int64) ([]Review, error) {
	return s.repo.ListBySupplier(ctx, supplierID)
}
