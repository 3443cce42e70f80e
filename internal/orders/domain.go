package orders

import (
	"math"
	"time"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/catalog"
)

// Status tracks order fulfilment progress.
type Status string

// Order lifecycle statuses.
const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPacked         Status = "packed"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// Statuses lists all statuses in lifecycle order. Listings group by this.
var Statuses = []Status{
	StatusPending, StatusConfirmed, StatusPacked,
	StatusOutForDelivery, StatusDelivered, StatusCancelled,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s Status) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// DeliveryOption selects a delivery slot at checkout.
type DeliveryOption string

// Supported delivery options.
const (
	DeliveryInstant          DeliveryOption = "instant"
	DeliveryTomorrowMorning  DeliveryOption = "tomorrow_morning"
	DeliveryTomorrowEvening  DeliveryOption = "tomorrow_evening"
	DeliveryDayAfterMorning  DeliveryOption = "day_after_morning"
	DeliveryDayAfterEvening  DeliveryOption = "day_after_evening"
)

// ValidDeliveryOption reports whether o is a known delivery option.
func ValidDeliveryOption(o DeliveryOption) bool {
	switch o {
	case DeliveryInstant, DeliveryTomorrowMorning, DeliveryTomorrowEvening,
		DeliveryDayAfterMorning, DeliveryDayAfterEvening:
		return true
	}
	return false
}

// ScheduleDelivery maps a delivery option to its concrete slot.
// Instant delivery has no scheduled time.
func ScheduleDelivery(option DeliveryOption, now time.Time) *time.Time {
	var days int
	var hour int
	switch option {
	case DeliveryTomorrowMorning:
		days, hour = 1, 9
	case DeliveryTomorrowEvening:
		days, hour = 1, 17
	case DeliveryDayAfterMorning:
		days, hour = 2, 9
	case DeliveryDayAfterEvening:
		days, hour = 2, 17
	default:
		return nil
	}
	slot := now.AddDate(0, 0, days)
	slot = time.Date(slot.Year(), slot.Month(), slot.Day(), hour, 0, 0, 0, slot.Location())
	return &slot
}

// PaymentMethod selects how the vendor pays.
type PaymentMethod string

// Supported payment methods.
const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentCOD || m == PaymentOnline
}

// Order is one vendor purchase from a single supplier hub. A multi-supplier
// cart fans out into one order per supplier.
type Order struct {
	ID                    int64          `json:"id"`
	VendorID              int64          `json:"vendor_id"`
	VendorName            string         `json:"vendor_name,omitempty"`
	SupplierID            int64          `json:"supplier_id"`
	SupplierName          string         `json:"supplier_name,omitempty"`
	OrderDate             time.Time      `json:"order_date"`
	DeliveryOption        DeliveryOption `json:"delivery_option"`
	ScheduledDeliveryTime *time.Time     `json:"scheduled_delivery_time"`
	Status                Status         `json:"status"`
	TotalAmount           float64        `json:"total_amount"`
	DeliveryAddress       string         `json:"delivery_address"`
	PaymentMethod         PaymentMethod  `json:"payment_method"`
	IsCoVendorOrder       bool           `json:"is_co_vendor_order"`
	CoVendorGroupID       *string        `json:"co_vendor_group_id"`
	DiscountApplied       float64        `json:"discount_applied"`
	Items                 []OrderItem    `json:"items,omitempty"`
}

// OrderItem is a purchased line within an order. The price is captured at
// purchase time so later catalog changes do not rewrite history.
type OrderItem struct {
	ID                     int64        `json:"id"`
	OrderID                int64        `json:"order_id"`
	ProductID              int64        `json:"product_id"`
	ProductName            string       `json:"product_name,omitempty"`
	UnitOfMeasure          catalog.Unit `json:"unit_of_measure,omitempty"`
	Quantity               float64      `json:"quantity"`
	PricePerUnitAtPurchase float64      `json:"price_per_unit_at_purchase"`
	Subtotal               float64      `json:"subtotal"`
}

// CartLine is one requested product quantity at checkout.
type CartLine struct {
	ProductID int64   `json:"id"`
	Quantity  float64 `json:"quantity"`
}

// CheckoutInput carries the validated checkout request.
type CheckoutInput struct {
	Lines            []CartLine
	DeliveryOption   DeliveryOption
	PaymentMethod    PaymentMethod
	DeliveryAddress  string
	CoVendorIdentity string
}

// CheckoutResult summarises the placed orders.
type CheckoutResult struct {
	OrderIDs        []int64  `json:"order_ids"`
	TotalAmount     float64  `json:"total_amount"`
	DiscountApplied float64  `json:"discount_applied"`
	CoVendorApplied bool     `json:"co_vendor_applied"`
	CoVendorGroupID *string  `json:"co_vendor_group_id"`
	Warnings        []string `json:"warnings,omitempty"`
}

// Earnings sums delivered order totals for a supplier.
type Earnings struct {
	Today       float64 `json:"today"`
	Last7Days   float64 `json:"last_7_days"`
	MonthToDate float64 `json:"month_to_date"`
}

const coVendorDiscountRate = 0.05

// toCents converts a rupee amount to integer paise, rounding half away
// from zero.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

// prorateDiscount splits a discount across supplier order totals in
// proportion to each supplier's share of the gross. All amounts are paise.
// The final share absorbs the rounding remainder so the parts always sum
// to the whole discount.
func prorateDiscount(supplierGross []int64, totalGross, discount int64) []int64 {
	shares := make([]int64, len(supplierGross))
	if totalGross <= 0 || discount <= 0 {
		return shares
	}
	var allocated int64
	for i, gross := range supplierGross {
		if i == len(supplierGross)-1 {
			shares[i] = discount - allocated
			break
		}
		share := int64(math.Round(float64(discount) * float64(gross) / float64(totalGross)))
		shares[i] = share
		allocated += share
	}
	return shares
}
