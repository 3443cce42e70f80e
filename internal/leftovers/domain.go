package leftovers

import (
	"time"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/catalog"
)

// Condition describes the state of a leftover item.
type Condition string

// Leftover conditions.
const (
	ConditionFresh         Condition = "fresh"
	ConditionGoodForOneDay Condition = "good_for_1_day"
	ConditionImperfect     Condition = "slightly_imperfect"
)

// ValidCondition reports whether c is a known condition.
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionFresh, ConditionGoodForOneDay, ConditionImperfect:
		return true
	}
	return false
}

// Fulfilment selects how a leftover sale changes hands.
type Fulfilment string

// Fulfilment preferences.
const (
	FulfilmentPickup   Fulfilment = "pickup"
	FulfilmentDelivery Fulfilment = "delivery"
)

// ValidFulfilment reports whether f is a known fulfilment preference.
func ValidFulfilment(f Fulfilment) bool {
	return f == FulfilmentPickup || f == FulfilmentDelivery
}

// Listing is a vendor-to-vendor resale offer of surplus stock.
type Listing struct {
	ID              int64        `json:"id"`
	SellerVendorID  int64        `json:"seller_vendor_id"`
	SellerName      string       `json:"seller_name,omitempty"`
	ItemName        string       `json:"item_name"`
	Quantity        float64      `json:"quantity"`
	UnitOfMeasure   catalog.Unit `json:"unit_of_measure"`
	PricePerUnit    float64      `json:"price_per_unit"`
	Condition       Condition    `json:"condition"`
	ExpiryDate      *time.Time   `json:"expiry_date"`
	ListingDate     time.Time    `json:"listing_date"`
	IsActive        bool         `json:"is_active"`
	Fulfilment      Fulfilment   `json:"pickup_delivery_preference"`
	BuyerVendorID   *int64       `json:"buyer_vendor_id"`
	BuyerName       *string      `json:"buyer_name,omitempty"`
	TransactionDate *time.Time   `json:"transaction_date"`
}

// SaleResult reports how a completed leftover sale was recorded.
type SaleResult struct {
	ListingID     int64    `json:"listing_id"`
	BuyerVendorID *int64   `json:"buyer_vendor_id"`
	Warnings      []string `json:"warnings,omitempty"`
}
