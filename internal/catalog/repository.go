package catalog

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Repository persists the product catalog.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string, description *string) (int64, error)

	ListBySupplier(ctx context.Context, supplierID int64) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, supplierID int64, p Product) error
	Delete(ctx context.Context, supplierID, productID int64) error
	UpdatePrice(ctx context.Context, supplierID, productID int64, price float64) error

	Browse(ctx context.Context, filter BrowseFilter, p shared.Pagination) ([]Product, int, error)
}

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const productColumns = `
	p.id, p.name, p.description, p.category_id, c.name, p.supplier_id, s.business_name,
	p.unit_of_measure, p.current_price_per_unit, p.quantity_available,
	p.quality_grade, p.is_organic, p.suggested_min_price, p.suggested_max_price,
	p.last_updated`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.CategoryName,
		&p.SupplierID, &p.SupplierName, &p.UnitOfMeasure, &p.CurrentPricePerUnit,
		&p.QuantityAvailable, &p.QualityGrade, &p.IsOrganic,
		&p.SuggestedMinPrice, &p.SuggestedMaxPrice, &p.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *PGRepository) CreateCategory(ctx context.Context, name string, description *string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = COALESCE(EXCLUDED.description, categories.description)
		RETURNING id`, name, description).Scan(&id)
	return id, err
}

func (r *PGRepository) ListBySupplier(ctx context.Context, supplierID int64) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		JOIN supplier_profiles s ON s.user_id = p.supplier_id
		WHERE p.supplier_id = $1
		ORDER BY p.name ASC`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		JOIN supplier_profiles s ON s.user_id = p.supplier_id
		WHERE p.id = $1`, id)
	return scanProduct(row)
}

func (r *PGRepository) Create(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, category_id, supplier_id, unit_of_measure,
		                      current_price_per_unit, quantity_available, quality_grade,
		                      is_organic, suggested_min_price, suggested_max_price, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		RETURNING id`,
		p.Name, p.Description, p.CategoryID, p.SupplierID, p.UnitOfMeasure,
		p.CurrentPricePerUnit, p.QuantityAvailable, p.QualityGrade,
		p.IsOrganic, p.SuggestedMinPrice, p.SuggestedMaxPrice).Scan(&id)
	return id, err
}

func (r *PGRepository) Update(ctx context.Context, supplierID int64, p Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $3, description = $4, category_id = $5, unit_of_measure = $6,
		    current_price_per_unit = $7, quantity_available = $8, quality_grade = $9,
		    is_organic = $10, last_updated = now()
		WHERE id = $1 AND supplier_id = $2`,
		p.ID, supplierID, p.Name, p.Description, p.CategoryID, p.UnitOfMeasure,
		p.CurrentPricePerUnit, p.QuantityAvailable, p.QualityGrade, p.IsOrganic)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, supplierID, productID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM products WHERE id = $1 AND supplier_id = $2`, productID, supplierID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) UpdatePrice(ctx context.Context, supplierID, productID int64, price float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET current_price_per_unit = $3, last_updated = now()
		WHERE id = $1 AND supplier_id = $2`, productID, supplierID, price)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Browse lists in-stock products of verified suppliers in the vendor's pincode.
// browseWhere builds the shared FROM/WHERE clause for the count and page
// queries. Only verified hubs are listed; admin verification gates the
// vendor-facing market.
func browseWhere(filter BrowseFilter) (string, []any) {
	base := `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		JOIN supplier_profiles s ON s.user_id = p.supplier_id
		WHERE s.is_verified = true AND s.location_pincode = $1 AND p.quantity_available > 0`
	args := []any{filter.Pincode}

	if filter.Search != "" {
		n := strconv.Itoa(len(args) + 1)
		base += ` AND (p.name ILIKE $` + n + ` OR p.description ILIKE $` + n + `)`
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.CategoryID > 0 {
		base += ` AND p.category_id = $` + strconv.Itoa(len(args)+1)
		args = append(args, filter.CategoryID)
	}
	return base, args
}

func (r *PGRepository) Browse(ctx context.Context, filter BrowseFilter, p shared.Pagination) ([]Product, int, error) {
	base, args := browseWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + base + ` ORDER BY p.name ASC`
	query += ` LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, p.PerPage)
	query += ` OFFSET $` + strconv.Itoa(len(args)+1)
	args = append(args, p.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
