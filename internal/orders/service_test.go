package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/profiles"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

type mockTxRepo struct {
	products map[int64]*lockedProduct
	orders   []Order
	items    []OrderItem
	nextID   int64
}

func (m *mockTxRepo) GetProductForUpdate(_ context.Context, id int64) (*lockedProduct, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	snapshot := *p
	return &snapshot, nil
}

func (m *mockTxRepo) DecrementStock(_ context.Context, id int64, qty float64) error {
	p, ok := m.products[id]
	if !ok || p.QuantityAvailable < qty {
		return ErrInsufficientStock
	}
	p.QuantityAvailable -= qty
	return nil
}

func (m *mockTxRepo) InsertOrder(_ context.Context, o Order) (int64, error) {
	m.nextID++
	o.ID = m.nextID
	m.orders = append(m.orders, o)
	return o.ID, nil
}

func (m *mockTxRepo) InsertOrderItem(_ context.Context, item OrderItem) error {
	m.items = append(m.items, item)
	return nil
}

type mockRepo struct {
	tx          *mockTxRepo
	txErr       error
	vendorList  []Order
	supplierLst []Order
	stored      map[int64]*Order
}

func (m *mockRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if err := fn(ctx, m.tx); err != nil {
		m.txErr = err
		return err
	}
	return nil
}

func (m *mockRepo) ListByVendor(context.Context, int64) ([]Order, error) {
	return m.vendorList, nil
}

func (m *mockRepo) ListBySupplier(context.Context, int64) ([]Order, error) {
	return m.supplierLst, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Order, error) {
	o, ok := m.stored[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (m *mockRepo) UpdateStatus(context.Context, int64, int64, Status) error { return nil }

func (m *mockRepo) EarningsSummary(context.Context, int64, time.Time) (Earnings, error) {
	return Earnings{}, nil
}

func (m *mockRepo) HasDeliveredOrder(context.Context, int64, int64) (bool, error) {
	return false, nil
}

type mockVendors struct {
	vendors    map[int64]*profiles.VendorProfile
	byIdentity map[string]*profiles.VendorProfile
}

func (m *mockVendors) GetVendor(_ context.Context, id int64) (*profiles.VendorProfile, error) {
	v, ok := m.vendors[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func (m *mockVendors) FindVendorByIdentity(_ context.Context, identity string) (*profiles.VendorProfile, error) {
	v, ok := m.byIdentity[identity]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func newCheckoutFixture() (*Service, *mockRepo, *mockVendors) {
	addr := "Stall 12, Jayanagar Market"
	tx := &mockTxRepo{products: map[int64]*lockedProduct{
		1: {ID: 1, Name: "Onions", SupplierID: 100, UnitOfMeasure: "kg", CurrentPricePerUnit: 20, QuantityAvailable: 50},
		2: {ID: 2, Name: "Coconuts", SupplierID: 100, UnitOfMeasure: "piece", CurrentPricePerUnit: 10, QuantityAvailable: 30},
		3: {ID: 3, Name: "Sunflower Oil", SupplierID: 200, UnitOfMeasure: "liter", CurrentPricePerUnit: 15, QuantityAvailable: 40},
	}}
	repo := &mockRepo{tx: tx}
	vendors := &mockVendors{
		vendors: map[int64]*profiles.VendorProfile{
			1: {UserID: 1, Name: "Ravi Chaat Corner", LocationPincode: "560041", LocationAddress: &addr},
		},
		byIdentity: map[string]*profiles.VendorProfile{
			"9876543210": {UserID: 2, Name: "Lakshmi Dosa Cart", LocationPincode: "560041"},
		},
	}
	svc := NewService(repo, vendors)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	}
	return svc, repo, vendors
}

func TestCheckoutSingleSupplier(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()

	result, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Lines: []CartLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
		DeliveryOption: DeliveryInstant,
		PaymentMethod:  PaymentCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, 70.0, result.TotalAmount)
	assert.Equal(t, 0.0, result.DiscountApplied)
	assert.False(t, result.CoVendorApplied)
	assert.Len(t, result.OrderIDs, 1)

	require.Len(t, repo.tx.orders, 1)
	order := repo.tx.orders[0]
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, 70.0, order.TotalAmount)
	assert.Equal(t, "Stall 12, Jayanagar Market", order.DeliveryAddress)
	assert.Nil(t, order.ScheduledDeliveryTime)

	assert.Equal(t, 48.0, repo.tx.products[1].QuantityAvailable)
	assert.Equal(t, 27.0, repo.tx.products[2].QuantityAvailable)
}

func TestCheckoutCoVendorDiscount(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()

	result, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Lines: []CartLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
		DeliveryOption:   DeliveryTomorrowMorning,
		PaymentMethod:    PaymentOnline,
		CoVendorIdentity: "9876543210",
	})
	require.NoError(t, err)

	assert.True(t, result.CoVendorApplied)
	assert.Equal(t, 3.5, result.DiscountApplied)
	assert.Equal(t, 66.5, result.TotalAmount)
	require.NotNil(t, result.CoVendorGroupID)

	require.Len(t, repo.tx.orders, 1)
	order := repo.tx.orders[0]
	assert.Equal(t, 66.5, order.TotalAmount)
	assert.Equal(t, 3.5, order.DiscountApplied)
	assert.True(t, order.IsCoVendorOrder)
	require.NotNil(t, order.ScheduledDeliveryTime)
	assert.Equal(t, 9, order.ScheduledDeliveryTime.Hour())
	assert.Equal(t, 11, order.ScheduledDeliveryTime.Day())
}

func TestCheckoutMultiSupplierProration(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()

	// Supplier 100 gross 40, supplier 200 gross 30, discount 3.50 on 70.
	result, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Lines: []CartLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 3, Quantity: 2},
		},
		DeliveryOption:   DeliveryInstant,
		PaymentMethod:    PaymentCOD,
		CoVendorIdentity: "9876543210",
	})
	require.NoError(t, err)
	require.Len(t, repo.tx.orders, 2)

	assert.Equal(t, 66.5, result.TotalAmount)
	assert.Equal(t, 3.5, result.DiscountApplied)

	first, second := repo.tx.orders[0], repo.tx.orders[1]
	assert.Equal(t, int64(100), first.SupplierID)
	assert.Equal(t, int64(200), second.SupplierID)
	assert.Equal(t, 2.0, first.DiscountApplied)
	assert.Equal(t, 1.5, second.DiscountApplied)
	assert.Equal(t, 38.0, first.TotalAmount)
	assert.Equal(t, 28.5, second.TotalAmount)

	// The prorated parts reassemble the whole discount exactly.
	assert.Equal(t, result.DiscountApplied, first.DiscountApplied+second.DiscountApplied)
	assert.Equal(t, result.TotalAmount, first.TotalAmount+second.TotalAmount)

	// Both orders share the co-vendor group id.
	require.NotNil(t, first.CoVendorGroupID)
	assert.Equal(t, *first.CoVendorGroupID, *second.CoVendorGroupID)
}

func TestCheckoutSelfCoVendorNoDiscount(t *testing.T) {
	svc, _, vendors := newCheckoutFixture()
	vendors.byIdentity["me"] = vendors.vendors[1]

	result, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Lines:            []CartLine{{ProductID: 1, Quantity: 1}},
		DeliveryOption:   DeliveryInstant,
		PaymentMethod:    PaymentCOD,
		CoVendorIdentity: "me",
	})
	require.NoError(t, err)

	assert.False(t, result.CoVendorApplied)
	assert.Equal(t, 20.0, result.TotalAmount)
	assert.NotEmpty(t, result.Warnings)
}

func TestCheckoutUnknownCoVendorNoDiscount(t *testing.T) {
	svc, _, _ := newCheckoutFixture()

	result, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Lines:            []CartLine{{ProductID: 1, Quantity: 1}},
		DeliveryOption:   DeliveryInstant,
		PaymentMethod:    PaymentCOD,
		CoVendorIdentity: "nobody",
	})
	require.NoError(t, err)

	assert.False(t, result.CoVendorApplied)
	assert.Equal(t, 0.0, result.DiscountApplied)
	assert.NotEmpty(t, result.Warnings)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()

	_, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Lines:          []CartLine{{ProductID: 1, Quantity: 100}},
		DeliveryOption: DeliveryInstant,
		PaymentMethod:  PaymentCOD,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, repo.tx.orders)
}

func TestCheckoutValidation(t *testing.T) {
	svc, _, _ := newCheckoutFixture()

	_, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		DeliveryOption: DeliveryInstant,
		PaymentMethod:  PaymentCOD,
	})
	assert.Error(t, err)

	_, err = svc.Checkout(context.Background(), 1, CheckoutInput{
		Lines:          []CartLine{{ProductID: 1, Quantity: 1}},
		DeliveryOption: "teleport",
		PaymentMethod:  PaymentCOD,
	})
	assert.Error(t, err)
}

func TestScheduleDelivery(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	assert.Nil(t, ScheduleDelivery(DeliveryInstant, now))

	cases := []struct {
		option DeliveryOption
		day    int
		hour   int
	}{
		{DeliveryTomorrowMorning, 11, 9},
		{DeliveryTomorrowEvening, 11, 17},
		{DeliveryDayAfterMorning, 12, 9},
		{DeliveryDayAfterEvening, 12, 17},
	}
	for _, tc := range cases {
		slot := ScheduleDelivery(tc.option, now)
		require.NotNil(t, slot, string(tc.option))
		assert.Equal(t, tc.day, slot.Day(), string(tc.option))
		assert.Equal(t, tc.hour, slot.Hour(), string(tc.option))
		assert.Equal(t, 0, slot.Minute(), string(tc.option))
	}
}

func TestProrateDiscountConservation(t *testing.T) {
	gross := []int64{3333, 3333, 3334}
	shares := prorateDiscount(gross, 10000, 500)

	var sum int64
	for _, s := range shares {
		sum += s
	}
	assert.Equal(t, int64(500), sum)
}

func TestOrderAccessControl(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()
	repo.stored = map[int64]*Order{
		7: {ID: 7, VendorID: 1, SupplierID: 100},
	}

	order, err := svc.Order(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), order.ID)

	_, err = svc.Order(context.Background(), 7, 100)
	require.NoError(t, err)

	_, err = svc.Order(context.Background(), 7, 999)
	assert.Error(t, err)
}

func TestGroupByStatus(t *testing.T) {
	grouped := groupByStatus([]Order{
		{ID: 1, Status: StatusPending},
		{ID: 2, Status: StatusDelivered},
		{ID: 3, Status: StatusPending},
	})

	assert.Len(t, grouped[StatusPending], 2)
	assert.Len(t, grouped[StatusDelivered], 1)
	assert.Empty(t, grouped[StatusCancelled])
}
