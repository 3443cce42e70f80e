package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Repository reads the order history and catalog slices the heuristics run on.
type Repository interface {
	TopOrderedProducts(ctx context.Context, vendorID int64, since time.Time, limit int) ([]ProductVolume, error)
	ProductInPincode(ctx context.Context, productID int64, pincode string) (*Product, error)
	RandomProductsInPincode(ctx context.Context, pincode string, exclude []int64, limit int) ([]Product, error)
	SupplierProducts(ctx context.Context, supplierID int64) ([]Product, error)
	CompetitorAveragePrice(ctx context.Context, product Product, pincode string) (*float64, error)
	RecentOrderVolume(ctx context.Context, supplierID, productID int64, since time.Time) (float64, error)
	GetProduct(ctx context.Context, productID int64) (*Product, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const productColumns = `p.id, p.name, p.category_id, p.supplier_id, s.business_name,
		p.unit_of_measure, p.current_price_per_unit, p.quantity_available`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.SupplierID, &p.SupplierName,
		&p.UnitOfMeasure, &p.Price, &p.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func (r *PGRepository) TopOrderedProducts(ctx context.Context, vendorID int64, since time.Time, limit int) ([]ProductVolume, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT oi.product_id, SUM(oi.quantity) AS total_qty
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.vendor_id = $1 AND o.order_date >= $2
		GROUP BY oi.product_id
		ORDER BY total_qty DESC
		LIMIT $3`, vendorID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query top ordered products: %w", err)
	}
	defer rows.Close()

	var out []ProductVolume
	for rows.Next() {
		var v ProductVolume
		if err := rows.Scan(&v.ProductID, &v.Quantity); err != nil {
			return nil, fmt.Errorf("scan product volume: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PGRepository) ProductInPincode(ctx context.Context, productID int64, pincode string) (*Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN supplier_profiles s ON s.user_id = p.supplier_id
		WHERE p.id = $1 AND s.location_pincode = $2 AND p.quantity_available > 0`,
		productID, pincode)
	return scanProduct(row)
}

func (r *PGRepository) RandomProductsInPincode(ctx context.Context, pincode string, exclude []int64, limit int) ([]Product, error) {
	if exclude == nil {
		exclude = []int64{}
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN supplier_profiles s ON s.user_id = p.supplier_id
		WHERE s.location_pincode = $1 AND p.quantity_available > 0
		  AND p.id <> ALL($2)
		ORDER BY random()
		LIMIT $3`, pincode, exclude, limit)
	if err != nil {
		return nil, fmt.Errorf("query random products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PGRepository) SupplierProducts(ctx context.Context, supplierID int64) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN supplier_profiles s ON s.user_id = p.supplier_id
		WHERE p.supplier_id = $1
		ORDER BY p.id`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("query supplier products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// CompetitorAveragePrice averages the prices of same-named products in the
// same category and pincode, excluding the supplier's own listing. Returns
// nil when no competitor carries the product.
func (r *PGRepository) CompetitorAveragePrice(ctx context.Context, product Product, pincode string) (*float64, error) {
	var avg *float64
	err := r.pool.QueryRow(ctx, `
		SELECT AVG(p.current_price_per_unit)
		FROM products p
		JOIN supplier_profiles s ON s.user_id = p.supplier_id
		WHERE p.name = $1
		  AND (p.category_id = $2 OR (p.category_id IS NULL AND $2::bigint IS NULL))
		  AND s.location_pincode = $3
		  AND p.supplier_id <> $4`,
		product.Name, product.CategoryID, pincode, product.SupplierID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("query competitor average price: %w", err)
	}
	return avg, nil
}

func (r *PGRepository) RecentOrderVolume(ctx context.Context, supplierID, productID int64, since time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.product_id = $1 AND o.supplier_id = $2 AND o.order_date >= $3`,
		productID, supplierID, since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query recent order volume: %w", err)
	}
	return total, nil
}

func (r *PGRepository) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN supplier_profiles s ON s.user_id = p.supplier_id
		WHERE p.id = $1`, productID)
	return scanProduct(row)
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		var p Product
		err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.SupplierID, &p.SupplierName,
			&p.UnitOfMeasure, &p.Price, &p.Quantity)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
