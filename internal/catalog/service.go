package catalog

import (
	"context"
	"fmt"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Service wraps catalog business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Categories lists all raw material categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// AddCategory creates or refreshes a category by name.
func (s *Service) AddCategory(ctx context.Context, name string, description *string) (int64, error) {
	return s.repo.CreateCategory(ctx, name, description)
}

// SupplierProducts lists a hub's own offerings.
func (s *Service) SupplierProducts(ctx context.Context, supplierID int64) ([]Product, error) {
	return s.repo.ListBySupplier(ctx, supplierID)
}

// Product fetches a single product with its category and supplier names.
func (s *Service) Product(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// AddProduct creates an offering for the supplier after enum checks.
func (s *Service) AddProduct(ctx context.Context, supplierID int64, p Product) (int64, error) {
	if err := checkEnums(p); err != nil {
		return 0, err
	}
	p.SupplierID = supplierID
	return s.repo.Create(ctx, p)
}

// UpdateProduct replaces an offering the supplier owns.
func (s *Service) UpdateProduct(ctx context.Context, supplierID int64, p Product) error {
	if err := checkEnums(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, supplierID, p)
}

// RemoveProduct deletes an offering the supplier owns.
func (s *Service) RemoveProduct(ctx context.Context, supplierID, productID int64) error {
	return s.repo.Delete(ctx, supplierID, productID)
}

// UpdatePrice changes only the unit price of an owned offering.
func (s *Service) UpdatePrice(ctx context.Context, supplierID, productID int64, price float64) error {
	if price <= 0 {
		return fmt.Errorf("%w: price must be positive", httpx.ErrValidation)
	}
	return s.repo.UpdatePrice(ctx, supplierID, productID, price)
}

// Browse lists purchasable products near the vendor.
func (s *Service) Browse(ctx context.Context, filter BrowseFilter, page, perPage int) ([]Product, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	products, total, err := s.repo.Browse(ctx, filter, p)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return products, shared.NewPagination(page, perPage, total), nil
}

func checkEnums(p Product) error {
	if !ValidUnit(p.UnitOfMeasure) {
		return fmt.Errorf("%w: unknown unit of measure %q", httpx.ErrValidation, p.UnitOfMeasure)
	}
	if p.QualityGrade == "" {
		return nil
	}
	if !ValidGrade(p.QualityGrade) {
		return fmt.Errorf("%w: unknown quality grade %q", httpx.ErrValidation, p.QualityGrade)
	}
	return nil
}
