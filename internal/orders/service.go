package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/profiles"
)

// ErrInsufficientStock signals a cart line exceeding the available quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// VendorDirectory resolves vendor profiles for checkout.
type VendorDirectory interface {
	GetVendor(ctx context.Context, userID int64) (*profiles.VendorProfile, error)
	FindVendorByIdentity(ctx context.Context, identity string) (*profiles.VendorProfile, error)
}

// Service implements the order engine.
type Service struct {
	repo    Repository
	vendors VendorDirectory
	now     func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, vendors VendorDirectory) *Service {
	return &Service{repo: repo, vendors: vendors, now: time.Now}
}

// Checkout turns a cart into one pending order per supplier. Stock rows are
// locked for the duration of the transaction so concurrent checkouts cannot
// oversell. A valid co-vendor grants a flat 5% discount on the whole cart,
// prorated across suppliers by their share of the gross; an invalid co-vendor
// is reported as a warning and the checkout proceeds at full price.
func (s *Service) Checkout(ctx context.Context, vendorID int64, in CheckoutInput) (*CheckoutResult, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", httpx.ErrValidation)
	}
	for _, line := range in.Lines {
		if line.ProductID <= 0 || line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: invalid cart line", httpx.ErrValidation)
		}
	}
	if !ValidDeliveryOption(in.DeliveryOption) {
		return nil, fmt.Errorf("%w: unknown delivery option %q", httpx.ErrValidation, in.DeliveryOption)
	}
	if !ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", httpx.ErrValidation, in.PaymentMethod)
	}

	vendor, err := s.vendors.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	address := in.DeliveryAddress
	if address == "" && vendor.LocationAddress != nil {
		address = *vendor.LocationAddress
	}

	result := &CheckoutResult{}
	coVendorOK := false
	if in.CoVendorIdentity != "" {
		coVendor, err := s.vendors.FindVendorByIdentity(ctx, in.CoVendorIdentity)
		switch {
		case err != nil:
			result.Warnings = append(result.Warnings, "co-vendor not found, discount not applied")
		case coVendor.UserID == vendorID:
			result.Warnings = append(result.Warnings, "cannot use yourself as co-vendor, discount not applied")
		default:
			coVendorOK = true
		}
	}

	scheduled := ScheduleDelivery(in.DeliveryOption, s.now())

	err = s.repo.WithTx(ctx, func(ctx context.Context, txr TxRepository) error {
		type supplierGroup struct {
			supplierID int64
			grossCents int64
			items      []OrderItem
		}
		var groups []*supplierGroup
		bySupplier := map[int64]*supplierGroup{}
		var totalGross int64

		for _, line := range in.Lines {
			product, err := txr.GetProductForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product.QuantityAvailable < line.Quantity {
				return fmt.Errorf("%w: only %g %s of %s left",
					ErrInsufficientStock, product.QuantityAvailable, product.UnitOfMeasure, product.Name)
			}

			subtotal := toCents(product.CurrentPricePerUnit * line.Quantity)
			totalGross += subtotal

			group, ok := bySupplier[product.SupplierID]
			if !ok {
				group = &supplierGroup{supplierID: product.SupplierID}
				bySupplier[product.SupplierID] = group
				groups = append(groups, group)
			}
			group.grossCents += subtotal
			group.items = append(group.items, OrderItem{
				ProductID:              product.ID,
				Quantity:               line.Quantity,
				PricePerUnitAtPurchase: product.CurrentPricePerUnit,
				Subtotal:               fromCents(subtotal),
			})
		}

		var discountCents int64
		var groupID *string
		if coVendorOK {
			discountCents = toCents(fromCents(totalGross) * coVendorDiscountRate)
			id := uuid.NewString()
			groupID = &id
		}

		supplierGross := make([]int64, len(groups))
		for i, g := range groups {
			supplierGross[i] = g.grossCents
		}
		shares := prorateDiscount(supplierGross, totalGross, discountCents)

		for i, g := range groups {
			order := Order{
				VendorID:              vendorID,
				SupplierID:            g.supplierID,
				DeliveryOption:        in.DeliveryOption,
				ScheduledDeliveryTime: scheduled,
				Status:                StatusPending,
				TotalAmount:           fromCents(g.grossCents - shares[i]),
				DeliveryAddress:       address,
				PaymentMethod:         in.PaymentMethod,
				IsCoVendorOrder:       coVendorOK,
				CoVendorGroupID:       groupID,
				DiscountApplied:       fromCents(shares[i]),
			}
			orderID, err := txr.InsertOrder(ctx, order)
			if err != nil {
				return err
			}
			for _, item := range g.items {
				item.OrderID = orderID
				if err := txr.InsertOrderItem(ctx, item); err != nil {
					return err
				}
				if err := txr.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			result.OrderIDs = append(result.OrderIDs, orderID)
		}

		result.TotalAmount = fromCents(totalGross - discountCents)
		result.DiscountApplied = fromCents(discountCents)
		result.CoVendorApplied = coVendorOK
		result.CoVendorGroupID = groupID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VendorOrders groups a vendor's orders by status.
func (s *Service) VendorOrders(ctx context.Context, vendorID int64) (map[Status][]Order, error) {
	orders, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return groupByStatus(orders), nil
}

// SupplierOrders groups a supplier's incoming orders by status.
func (s *Service) SupplierOrders(ctx context.Context, supplierID int64) (map[Status][]Order, error) {
	orders, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return groupByStatus(orders), nil
}

// Order fetches one order with its items. Only the buying vendor or the
// selling supplier may view it.
func (s *Service) Order(ctx context.Context, orderID, requesterProfileID int64) (*Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.VendorID != requesterProfileID && order.SupplierID != requesterProfileID {
		return nil, httpx.ErrForbidden
	}
	return order, nil
}

// UpdateStatus moves an order the supplier owns to a new status.
func (s *Service) UpdateStatus(ctx context.Context, supplierID, orderID int64, status Status) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	return s.repo.UpdateStatus(ctx, supplierID, orderID, status)
}

// Earnings summarises delivered order revenue for the supplier.
func (s *Service) Earnings(ctx context.Context, supplierID int64) (Earnings, error) {
	return s.repo.EarningsSummary(ctx, supplierID, s.now())
}

func groupByStatus(orders []Order) map[Status][]Order {
	grouped := make(map[Status][]Order, len(Statuses))
	for _, st := range Statuses {
		grouped[st] = nil
	}
	for _, o := range orders {
		grouped[o.Status] = append(grouped[o.Status], o)
	}
	return grouped
}
