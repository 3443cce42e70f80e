package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// lockedProduct is the stock snapshot taken under a row lock at checkout.
type lockedProduct struct {
	ID                  int64
	Name                string
	SupplierID          int64
	UnitOfMeasure       string
	CurrentPricePerUnit float64
	QuantityAvailable   float64
}

// TxRepository exposes the transactional checkout operations.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, productID int64) (*lockedProduct, error)
	DecrementStock(ctx context.Context, productID int64, qty float64) error
	InsertOrder(ctx context.Context, o Order) (int64, error)
	InsertOrderItem(ctx context.Context, item OrderItem) error
}

// Repository persists orders.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListByVendor(ctx context.Context, vendorID int64) ([]Order, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]Order, error)
	Get(ctx context.Context, orderID int64) (*Order, error)
	UpdateStatus(ctx context.Context, supplierID, orderID int64, status Status) error
	EarningsSummary(ctx context.Context, supplierID int64, now time.Time) (Earnings, error)
	HasDeliveredOrder(ctx context.Context, vendorID, supplierID int64) (bool, error)
}

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx runs fn inside a repeatable-read transaction.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &txRepo{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *txRepo) GetProductForUpdate(ctx context.Context, productID int64) (*lockedProduct, error) {
	row := r.tx.QueryRow(ctx, `
		SELECT id, name, supplier_id, unit_of_measure, current_price_per_unit, quantity_available
		FROM products WHERE id = $1
		FOR UPDATE`, productID)

	var p lockedProduct
	err := row.Scan(&p.ID, &p.Name, &p.SupplierID, &p.UnitOfMeasure,
		&p.CurrentPricePerUnit, &p.QuantityAvailable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *txRepo) DecrementStock(ctx context.Context, productID int64, qty float64) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE products SET quantity_available = quantity_available - $2, last_updated = now()
		WHERE id = $1 AND quantity_available >= $2`, productID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *txRepo) InsertOrder(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO orders (vendor_id, supplier_id, order_date, delivery_option,
		                    scheduled_delivery_time, status, total_amount, delivery_address,
		                    payment_method, is_co_vendor_order, co_vendor_group_id, discount_applied)
		VALUES ($1, $2, now(), $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		o.VendorID, o.SupplierID, o.DeliveryOption, o.ScheduledDeliveryTime,
		o.Status, o.TotalAmount, o.DeliveryAddress, o.PaymentMethod,
		o.IsCoVendorOrder, o.CoVendorGroupID, o.DiscountApplied).Scan(&id)
	return id, err
}

func (r *txRepo) InsertOrderItem(ctx context.Context, item OrderItem) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, price_per_unit_at_purchase, subtotal)
		VALUES ($1, $2, $3, $4, $5)`,
		item.OrderID, item.ProductID, item.Quantity, item.PricePerUnitAtPurchase, item.Subtotal)
	return err
}

const orderColumns = `
	o.id, o.vendor_id, v.name, o.supplier_id, s.business_name, o.order_date,
	o.delivery_option, o.scheduled_delivery_time, o.status, o.total_amount,
	o.delivery_address, o.payment_method, o.is_co_vendor_order,
	o.co_vendor_group_id, o.discount_applied`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.VendorID, &o.VendorName, &o.SupplierID, &o.SupplierName,
		&o.OrderDate, &o.DeliveryOption, &o.ScheduledDeliveryTime, &o.Status,
		&o.TotalAmount, &o.DeliveryAddress, &o.PaymentMethod, &o.IsCoVendorOrder,
		&o.CoVendorGroupID, &o.DiscountApplied)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) listOrders(ctx context.Context, where string, arg any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN vendor_profiles v ON v.user_id = o.vendor_id
		JOIN supplier_profiles s ON s.user_id = o.supplier_id
		WHERE `+where+`
		ORDER BY o.order_date DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *PGRepository) ListByVendor(ctx context.Context, vendorID int64) ([]Order, error) {
	return r.listOrders(ctx, `o.vendor_id = $1`, vendorID)
}

func (r *PGRepository) ListBySupplier(ctx context.Context, supplierID int64) ([]Order, error) {
	return r.listOrders(ctx, `o.supplier_id = $1`, supplierID)
}

func (r *PGRepository) Get(ctx context.Context, orderID int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN vendor_profiles v ON v.user_id = o.vendor_id
		JOIN supplier_profiles s ON s.user_id = o.supplier_id
		WHERE o.id = $1`, orderID)

	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, p.name, p.unit_of_measure,
		       i.quantity, i.price_per_unit_at_purchase, i.subtotal
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.UnitOfMeasure, &it.Quantity, &it.PricePerUnitAtPurchase, &it.Subtotal); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, supplierID, orderID int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = $3 WHERE id = $1 AND supplier_id = $2`,
		orderID, supplierID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// EarningsSummary sums delivered orders for today, the trailing week and
// the calendar month to date.
func (r *PGRepository) EarningsSummary(ctx context.Context, supplierID int64, now time.Time) (Earnings, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var e Earnings
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE order_date >= $2), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE order_date >= $3), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE order_date >= $4), 0)
		FROM orders
		WHERE supplier_id = $1 AND status = 'delivered'`,
		supplierID, dayStart, weekStart, monthStart).Scan(&e.Today, &e.Last7Days, &e.MonthToDate)
	return e, err
}

func (r *PGRepository) HasDeliveredOrder(ctx context.Context, vendorID, supplierID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE vendor_id = $1 AND supplier_id = $2 AND status = 'delivered'
		)`, vendorID, supplierID).Scan(&exists)
	return exists, err
}
