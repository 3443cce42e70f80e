package insights

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/profiles"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

const (
	purchaseWindow = 30 * 24 * time.Hour
	demandWindow   = 7 * 24 * time.Hour
	topProducts    = 3
)

// ProfileDirectory supplies the pincode the suggestions are scoped to.
type ProfileDirectory interface {
	VendorProfile(ctx context.Context, userID int64) (*profiles.VendorProfile, error)
	SupplierProfile(ctx context.Context, userID int64) (*profiles.SupplierProfile, error)
}

type Service struct {
	repo     Repository
	profiles ProfileDirectory
	now      func() time.Time
	jitter   func(lo, hi float64) float64
}

func NewService(repo Repository, profiles ProfileDirectory) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		now:      time.Now,
		jitter: func(lo, hi float64) float64 {
			return lo + rand.Float64()*(hi-lo)
		},
	}
}

// VendorSuggestions builds up to four purchase suggestions for a vendor:
// their three most ordered products from the last 30 days that are still in
// stock nearby, plus one random seasonal pick. Vendors with no usable history
// get two random popular items instead.
func (s *Service) VendorSuggestions(ctx context.Context, vendorID int64) ([]Suggestion, error) {
	vendor, err := s.profiles.VendorProfile(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	pincode := vendor.LocationPincode

	since := s.now().Add(-purchaseWindow)
	top, err := s.repo.TopOrderedProducts(ctx, vendorID, since, topProducts)
	if err != nil {
		return nil, err
	}

	suggestions := []Suggestion{}
	topIDs := make([]int64, 0, len(top))
	for _, v := range top {
		topIDs = append(topIDs, v.ProductID)
		p, err := s.repo.ProductInPincode(ctx, v.ProductID, pincode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		suggestions = append(suggestions, s.buildSuggestion(*p, TypePastPurchase,
			s.jitter(0.01, 0.05),
			fmt.Sprintf("Based on your recent purchases. Great deal from %s!", p.SupplierName)))
	}

	seasonal, err := s.repo.RandomProductsInPincode(ctx, pincode, topIDs, 1)
	if err != nil {
		return nil, err
	}
	if len(seasonal) > 0 {
		p := seasonal[0]
		suggestions = append(suggestions, s.buildSuggestion(p, TypeSeasonalPick,
			s.jitter(0.01, 0.03),
			fmt.Sprintf("Popular this season! Check out %s.", p.SupplierName)))
	}

	if len(suggestions) == 0 {
		popular, err := s.repo.RandomProductsInPincode(ctx, pincode, nil, 2)
		if err != nil {
			return nil, err
		}
		for _, p := range popular {
			suggestions = append(suggestions, s.buildSuggestion(p, TypePopularItem,
				s.jitter(0.01, 0.02),
				fmt.Sprintf("A popular choice from %s.", p.SupplierName)))
		}
	}

	return suggestions, nil
}

func (s *Service) buildSuggestion(p Product, kind string, discount float64, reason string) Suggestion {
	return Suggestion{
		Type:              kind,
		ProductID:         p.ID,
		ProductName:       p.Name,
		SuggestedQuantity: suggestedQuantity(p.UnitOfMeasure),
		SuggestedUnit:     p.UnitOfMeasure,
		SuggestedPrice:    round2(p.Price * (1 - discount)),
		Reason:            reason,
	}
}

// SupplierInsights builds a pricing suggestion and a demand forecast for each
// of the supplier's products. The price range comes from same-named competitor
// listings in the supplier's pincode when any exist, otherwise a band around
// the supplier's own price. Suppliers with no products get a single onboarding
// entry.
func (s *Service) SupplierInsights(ctx context.Context, supplierID int64) ([]Insight, error) {
	supplier, err := s.profiles.SupplierProfile(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	pincode := supplier.LocationPincode

	products, err := s.repo.SupplierProducts(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	insights := []Insight{}
	since := s.now().Add(-demandWindow)
	for _, p := range products {
		pricing, err := s.pricingInsight(ctx, p, pincode)
		if err != nil {
			return nil, err
		}
		insights = append(insights, pricing)

		volume, err := s.repo.RecentOrderVolume(ctx, supplierID, p.ID, since)
		if err != nil {
			return nil, err
		}
		insights = append(insights, demandInsight(p, volume))
	}

	if len(insights) == 0 {
		insights = append(insights, Insight{
			Type:        TypeGettingStarted,
			ProductName: "Your Inventory",
			Reason:      "List your first few products to start receiving AI pricing and demand insights!",
		})
	}

	return insights, nil
}

func (s *Service) pricingInsight(ctx context.Context, p Product, pincode string) (Insight, error) {
	avg, err := s.repo.CompetitorAveragePrice(ctx, p, pincode)
	if err != nil {
		return Insight{}, err
	}

	current := p.Price
	insight := Insight{
		Type:         TypePricingSuggestion,
		ProductID:    p.ID,
		ProductName:  p.Name,
		CurrentPrice: &current,
	}
	if avg != nil {
		minPrice := round2(*avg * (1 - s.jitter(0.02, 0.05)))
		maxPrice := round2(*avg * (1 + s.jitter(0.01, 0.03)))
		insight.SuggestedMinPrice = &minPrice
		insight.SuggestedMaxPrice = &maxPrice
		insight.Reason = fmt.Sprintf("Based on competitor pricing in your area. Current price: ₹%.2f.", p.Price)
	} else {
		minPrice := round2(p.Price * (1 - s.jitter(0.01, 0.03)))
		maxPrice := round2(p.Price * (1 + s.jitter(0.01, 0.03)))
		insight.SuggestedMinPrice = &minPrice
		insight.SuggestedMaxPrice = &maxPrice
		insight.Reason = fmt.Sprintf("No direct competitors found for %s. Consider this range.", p.Name)
	}
	return insight, nil
}

func demandInsight(p Product, volume float64) Insight {
	level := DemandLow
	switch {
	case volume > 50:
		level = DemandHigh
	case volume > 10:
		level = DemandMedium
	}
	rounded := round2(volume)
	return Insight{
		Type:          TypeDemandForecast,
		ProductID:     p.ID,
		ProductName:   p.Name,
		RecentVolume:  &rounded,
		ForecastLevel: level,
		Reason: fmt.Sprintf("Demand for %s is currently %s (Last 7 days volume: %g %s).",
			p.Name, level, rounded, p.UnitOfMeasure),
	}
}

// CartSuggestion validates a suggested line against current stock and returns
// the payload the cart stores.
func (s *Service) CartSuggestion(ctx context.Context, productID int64, quantity float64) (*CartPick, error) {
	if productID <= 0 || quantity <= 0 {
		return nil, fmt.Errorf("%w: invalid product data provided", httpx.ErrValidation)
	}
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Quantity < quantity {
		return nil, fmt.Errorf("%w: not enough %s available, only %g %s left",
			httpx.ErrValidation, p.Name, p.Quantity, p.UnitOfMeasure)
	}
	return &CartPick{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Unit:     p.UnitOfMeasure,
		Quantity: quantity,
	}, nil
}
