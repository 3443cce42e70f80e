package leftovers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/db"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Repository persists leftover market listings.
type Repository interface {
	Create(ctx context.Context, l Listing) (int64, error)
	Get(ctx context.Context, listingID int64) (*Listing, error)
	ListBySeller(ctx context.Context, vendorID int64) ([]Listing, error)
	BrowseOthers(ctx context.Context, vendorID int64) ([]Listing, error)
	CompleteSale(ctx context.Context, listingID int64, buyerID *int64, sellerID int64, sellerNewAvg float64, sellerNewCount int) error
}

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const listingColumns = `
	l.id, l.seller_vendor_id, sv.name, l.item_name, l.quantity, l.unit_of_measure,
	l.price_per_unit, l.condition, l.expiry_date, l.listing_date, l.is_active,
	l.pickup_delivery_preference, l.buyer_vendor_id, bv.name, l.transaction_date`

const listingJoins = `
	FROM leftover_listings l
	JOIN vendor_profiles sv ON sv.user_id = l.seller_vendor_id
	LEFT JOIN vendor_profiles bv ON bv.user_id = l.buyer_vendor_id`

func scanListing(row pgx.Row) (*Listing, error) {
	var l Listing
	err := row.Scan(&l.ID, &l.SellerVendorID, &l.SellerName, &l.ItemName, &l.Quantity,
		&l.UnitOfMeasure, &l.PricePerUnit, &l.Condition, &l.ExpiryDate, &l.ListingDate,
		&l.IsActive, &l.Fulfilment, &l.BuyerVendorID, &l.BuyerName, &l.TransactionDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) Create(ctx context.Context, l Listing) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leftover_listings (seller_vendor_id, item_name, quantity, unit_of_measure,
		                               price_per_unit, condition, expiry_date, listing_date,
		                               is_active, pickup_delivery_preference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), true, $8)
		RETURNING id`,
		l.SellerVendorID, l.ItemName, l.Quantity, l.UnitOfMeasure,
		l.PricePerUnit, l.Condition, l.ExpiryDate, l.Fulfilment).Scan(&id)
	return id, err
}

func (r *PGRepository) Get(ctx context.Context, listingID int64) (*Listing, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+listingColumns+listingJoins+` WHERE l.id = $1`, listingID)
	return scanListing(row)
}

func (r *PGRepository) ListBySeller(ctx context.Context, vendorID int64) ([]Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+listingColumns+listingJoins+`
		WHERE l.seller_vendor_id = $1
		ORDER BY l.listing_date DESC`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

// BrowseOthers lists active, unexpired listings from other vendors.
func (r *PGRepository) BrowseOthers(ctx context.Context, vendorID int64) ([]Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+listingColumns+listingJoins+`
		WHERE l.seller_vendor_id <> $1
		  AND l.is_active = true
		  AND l.expiry_date >= CURRENT_DATE
		ORDER BY l.listing_date DESC`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

// CompleteSale closes the listing and bumps the seller's rating aggregate
// in one transaction. The is_active guard makes a double sale impossible.
func (r *PGRepository) CompleteSale(ctx context.Context, listingID int64, buyerID *int64, sellerID int64, sellerNewAvg float64, sellerNewCount int) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE leftover_listings
			SET is_active = false, buyer_vendor_id = $2, transaction_date = now()
			WHERE id = $1 AND is_active = true`, listingID, buyerID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrConflict
		}
		_, err = tx.Exec(ctx, `
			UPDATE vendor_profiles
			SET average_rating_as_seller = $2, total_reviews_as_seller = $3
			WHERE user_id = $1`, sellerID, sellerNewAvg, sellerNewCount)
		return err
	})
}

func collectListings(rows pgx.Rows) ([]Listing, error) {
	var listings []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}
