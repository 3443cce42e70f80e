// Package insights produces heuristic purchasing suggestions for vendors
// and pricing/demand insights for suppliers. The heuristics run over recent
// order history and nearby catalog data; nothing here calls an external model.
package insights

import (
	"math"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/catalog"
)

// Suggestion types shown to vendors.
const (
	TypePastPurchase = "Past Purchase"
	TypeSeasonalPick = "Seasonal Pick"
	TypePopularItem  = "Popular Item"
)

// Insight types shown to suppliers.
const (
	TypePricingSuggestion = "Pricing Suggestion"
	TypeDemandForecast    = "Demand Forecast"
	TypeGettingStarted    = "Getting Started"
)

// Demand forecast levels.
const (
	DemandHigh   = "High"
	DemandMedium = "Medium"
	DemandLow    = "Low"
)

// Product is the slice of catalog data the heuristics need. It is scanned
// straight from products joined with supplier_profiles.
type Product struct {
	ID            int64
	Name          string
	CategoryID    *int64
	SupplierID    int64
	SupplierName  string
	UnitOfMeasure catalog.Unit
	Price         float64
	Quantity      float64
}

// ProductVolume is a product id with its total ordered quantity over a window.
type ProductVolume struct {
	ProductID int64
	Quantity  float64
}

// Suggestion is a single purchase recommendation for a vendor.
type Suggestion struct {
	Type              string       `json:"type"`
	ProductID         int64        `json:"product_id"`
	ProductName       string       `json:"product_name"`
	SuggestedQuantity float64      `json:"suggested_quantity"`
	SuggestedUnit     catalog.Unit `json:"suggested_unit"`
	SuggestedPrice    float64      `json:"suggested_price"`
	Reason            string       `json:"reason"`
}

// Insight is a single pricing or demand entry for a supplier.
type Insight struct {
	Type              string   `json:"type"`
	ProductID         int64    `json:"product_id,omitempty"`
	ProductName       string   `json:"product_name"`
	CurrentPrice      *float64 `json:"current_price,omitempty"`
	SuggestedMinPrice *float64 `json:"suggested_min_price,omitempty"`
	SuggestedMaxPrice *float64 `json:"suggested_max_price,omitempty"`
	RecentVolume      *float64 `json:"recent_volume,omitempty"`
	ForecastLevel     string   `json:"forecast_level,omitempty"`
	Reason            string   `json:"reason"`
}

// CartPick is the payload returned when a suggestion is added to the cart.
type CartPick struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Price    float64      `json:"price"`
	Unit     catalog.Unit `json:"unit"`
	Quantity float64      `json:"quantity"`
}

// suggestedQuantity picks an order quantity appropriate to the unit.
func suggestedQuantity(unit catalog.Unit) float64 {
	switch unit {
	case catalog.UnitKg:
		return 5
	case catalog.UnitPiece:
		return 10
	default:
		return 2
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
