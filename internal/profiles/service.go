package profiles

import (
	"context"
	"errors"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Service wraps profile business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// VendorProfile fetches a vendor profile by user id.
func (s *Service) VendorProfile(ctx context.Context, userID int64) (*VendorProfile, error) {
	return s.repo.GetVendor(ctx, userID)
}

// SupplierProfile fetches a supplier profile by user id.
func (s *Service) SupplierProfile(ctx context.Context, userID int64) (*SupplierProfile, error) {
	return s.repo.GetSupplier(ctx, userID)
}

// UpdateVendorProfile replaces the editable vendor fields.
func (s *Service) UpdateVendorProfile(ctx context.Context, userID int64, upd VendorUpdate) error {
	return s.repo.UpdateVendor(ctx, userID, upd)
}

// UpdateSupplierProfile replaces the editable supplier fields.
func (s *Service) UpdateSupplierProfile(ctx context.Context, userID int64, upd SupplierUpdate) error {
	return s.repo.UpdateSupplier(ctx, userID, upd)
}

// ListSuppliers returns suppliers for the admin verification queue.
func (s *Service) ListSuppliers(ctx context.Context, onlyUnverified bool, page, perPage int) ([]SupplierProfile, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	suppliers, total, err := s.repo.ListSuppliers(ctx, onlyUnverified, p)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return suppliers, shared.NewPagination(page, perPage, total), nil
}

// VerifySupplier flips the admin verification flag.
func (s *Service) VerifySupplier(ctx context.Context, supplierID int64, verified bool) error {
	return s.repo.SetSupplierVerified(ctx, supplierID, verified)
}

// ResolveVendor finds a vendor by name, phone number or email.
func (s *Service) ResolveVendor(ctx context.Context, identity string) (*VendorProfile, error) {
	return s.repo.FindVendorByIdentity(ctx, identity)
}

// UpstreamSuppliers lists the wholesale sources linked to a hub.
func (s *Service) UpstreamSuppliers(ctx context.Context, supplierID int64) ([]UpstreamSupplier, error) {
	return s.repo.ListUpstreamForSupplier(ctx, supplierID)
}

// AddUpstreamSupplier links the hub to a wholesale source. A source already
// known by phone number is reused so hubs buying from the same wholesaler
// share one record and its rating history; otherwise a new one is created.
func (s *Service) AddUpstreamSupplier(ctx context.Context, supplierID int64, up UpstreamSupplier) (int64, error) {
	if up.PhoneNumber != nil && *up.PhoneNumber != "" {
		existing, err := s.repo.FindUpstreamByPhone(ctx, *up.PhoneNumber)
		switch {
		case err == nil:
			if err := s.repo.LinkUpstream(ctx, supplierID, existing.ID); err != nil {
				return 0, err
			}
			return existing.ID, nil
		case !errors.Is(err, shared.ErrNotFound):
			return 0, err
		}
	}
	return s.repo.CreateUpstreamForSupplier(ctx, supplierID, up)
}
