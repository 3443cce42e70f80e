package leftovers

import (
	"context"
	"fmt"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/catalog"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/profiles"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/ratings"
)

// Every completed leftover sale credits the seller with a five star
// rating in their seller aggregate.
const saleRating = 5

// VendorDirectory resolves vendor profiles for buyer attribution and the
// seller rating bump.
type VendorDirectory interface {
	GetVendor(ctx context.Context, userID int64) (*profiles.VendorProfile, error)
	FindVendorByIdentity(ctx context.Context, identity string) (*profiles.VendorProfile, error)
}

// Service implements the leftover market rules.
type Service struct {
	repo    Repository
	vendors VendorDirectory
}

// NewService constructs a Service.
func NewService(repo Repository, vendors VendorDirectory) *Service {
	return &Service{repo: repo, vendors: vendors}
}

// CreateListing publishes a surplus item for resale.
func (s *Service) CreateListing(ctx context.Context, vendorID int64, l Listing) (int64, error) {
	if l.Quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
	}
	if l.PricePerUnit < 0 {
		return 0, fmt.Errorf("%w: price cannot be negative", httpx.ErrValidation)
	}
	if !catalog.ValidUnit(l.UnitOfMeasure) {
		return 0, fmt.Errorf("%w: unknown unit of measure %q", httpx.ErrValidation, l.UnitOfMeasure)
	}
	if !ValidCondition(l.Condition) {
		return 0, fmt.Errorf("%w: unknown condition %q", httpx.ErrValidation, l.Condition)
	}
	if !ValidFulfilment(l.Fulfilment) {
		return 0, fmt.Errorf("%w: unknown fulfilment preference %q", httpx.ErrValidation, l.Fulfilment)
	}
	l.SellerVendorID = vendorID
	l.IsActive = true
	return s.repo.Create(ctx, l)
}

// MyListings lists the vendor's own offers, newest first.
func (s *Service) MyListings(ctx context.Context, vendorID int64) ([]Listing, error) {
	return s.repo.ListBySeller(ctx, vendorID)
}

// Browse lists other vendors' active, unexpired offers.
func (s *Service) Browse(ctx context.Context, vendorID int64) ([]Listing, error) {
	return s.repo.BrowseOthers(ctx, vendorID)
}

// MarkSold closes an active listing the vendor owns. The buyer identity is
// optional and resolved best-effort; a missing buyer is a warning, not a
// failure. The seller's rating aggregate takes a fixed five star bump.
func (s *Service) MarkSold(ctx context.Context, vendorID, listingID int64, buyerIdentity string) (*SaleResult, error) {
	listing, err := s.repo.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerVendorID != vendorID {
		return nil, httpx.ErrForbidden
	}
	if !listing.IsActive {
		return nil, fmt.Errorf("%w: listing is already sold or inactive", httpx.ErrConflict)
	}

	result := &SaleResult{ListingID: listingID}
	var buyerID *int64
	if buyerIdentity != "" {
		buyer, err := s.vendors.FindVendorByIdentity(ctx, buyerIdentity)
		if err != nil {
			result.Warnings = append(result.Warnings, "buyer vendor not found, item marked as sold anyway")
		} else {
			buyerID = &buyer.UserID
		}
	}
	result.BuyerVendorID = buyerID

	seller, err := s.vendors.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	newAvg := ratings.NewAverage(seller.AverageRatingAsSeller, seller.TotalReviewsAsSeller, saleRating)

	err = s.repo.CompleteSale(ctx, listingID, buyerID, vendorID, newAvg, seller.TotalReviewsAsSeller+1)
	if err != nil {
		return nil, err
	}
	return result, nil
}
