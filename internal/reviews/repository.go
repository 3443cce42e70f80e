package reviews

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/db"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/ratings"
)

// Repository persists reviews and the rating aggregates they feed. The
// Create methods fold the review into the target's running average inside
// their own transaction.
type Repository interface {
	HasVendorReviewedSupplier(ctx context.Context, vendorID, supplierID int64) (bool, error)
	CreateSupplierReview(ctx context.Context, rev Review) (int64, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]Review, error)
	ListForSupplier(ctx context.Context, supplierID int64) ([]Review, error)

	IsUpstreamLinked(ctx context.Context, supplierID, upstreamID int64) (bool, error)
	HasSupplierReviewedUpstream(ctx context.Context, supplierID, upstreamID int64) (bool, error)
	CreateUpstreamReview(ctx context.Context, rev Review) (int64, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]Review, error)
}

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) HasVendorReviewedSupplier(ctx context.Context, vendorID, supplierID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE reviewer_vendor_id = $1 AND reviewed_supplier_id = $2
		)`, vendorID, supplierID).Scan(&exists)
	return exists, err
}

// CreateSupplierReview inserts the review and refreshes the supplier's
// rating aggregate in one transaction. The aggregate row is locked so
// concurrent reviews cannot compute from the same base.
func (r *PGRepository) CreateSupplierReview(ctx context.Context, rev Review) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var avg float64
		var count int
		err := tx.QueryRow(ctx, `
			SELECT average_rating, total_reviews FROM supplier_profiles
			WHERE user_id = $1 FOR UPDATE`, rev.ReviewedSupplierID).Scan(&avg, &count)
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO reviews (reviewer_vendor_id, reviewed_supplier_id, rating, comment, review_date, is_moderated)
			VALUES ($1, $2, $3, $4, now(), false)
			RETURNING id`,
			rev.ReviewerVendorID, rev.ReviewedSupplierID, rev.Rating, rev.Comment).Scan(&id)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE supplier_profiles SET average_rating = $2, total_reviews = $3
			WHERE user_id = $1`,
			rev.ReviewedSupplierID, ratings.NewAverage(avg, count, rev.Rating), count+1)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) ListByVendor(ctx context.Context, vendorID int64) ([]Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rv.id, rv.reviewer_vendor_id, rv.reviewed_supplier_id, v.name, s.business_name,
		       rv.rating, rv.comment, rv.review_date, rv.is_moderated
		FROM reviews rv
		JOIN vendor_profiles v ON v.user_id = rv.reviewer_vendor_id
		JOIN supplier_profiles s ON s.user_id = rv.reviewed_supplier_id
		WHERE rv.reviewer_vendor_id = $1
		ORDER BY rv.review_date DESC`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVendorSupplierReviews(rows)
}

func (r *PGRepository) ListForSupplier(ctx context.Context, supplierID int64) ([]Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rv.id, rv.reviewer_vendor_id, rv.reviewed_supplier_id, v.name, s.business_name,
		       rv.rating, rv.comment, rv.review_date, rv.is_moderated
		FROM reviews rv
		JOIN vendor_profiles v ON v.user_id = rv.reviewer_vendor_id
		JOIN supplier_profiles s ON s.user_id = rv.reviewed_supplier_id
		WHERE rv.reviewed_supplier_id = $1
		ORDER BY rv.review_date DESC`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVendorSupplierReviews(rows)
}

func collectVendorSupplierReviews(rows pgx.Rows) ([]Review, error) {
	var reviews []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.ReviewerVendorID, &rev.ReviewedSupplierID,
			&rev.ReviewerName, &rev.ReviewedName, &rev.Rating, &rev.Comment,
			&rev.ReviewDate, &rev.IsModerated); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *PGRepository) IsUpstreamLinked(ctx context.Context, supplierID, upstreamID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM supplier_upstream_links
			WHERE supplier_id = $1 AND upstream_supplier_id = $2
		)`, supplierID, upstreamID).Scan(&exists)
	return exists, err
}

func (r *PGRepository) HasSupplierReviewedUpstream(ctx context.Context, supplierID, upstreamID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE reviewer_supplier_id = $1 AND reviewed_upstream_id = $2
		)`, supplierID, upstreamID).Scan(&exists)
	return exists, err
}

func (r *PGRepository) CreateUpstreamReview(ctx context.Context, rev Review) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var avg float64
		var count int
		err := tx.QueryRow(ctx, `
			SELECT average_rating_by_hub, total_reviews_by_hub FROM upstream_suppliers
			WHERE id = $1 FOR UPDATE`, rev.ReviewedUpstreamID).Scan(&avg, &count)
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO reviews (reviewer_supplier_id, reviewed_upstream_id, rating, comment, review_date, is_moderated)
			VALUES ($1, $2, $3, $4, now(), false)
			RETURNING id`,
			rev.ReviewerSupplierID, rev.ReviewedUpstreamID, rev.Rating, rev.Comment).Scan(&id)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE upstream_suppliers SET average_rating_by_hub = $2, total_reviews_by_hub = $3
			WHERE id = $1`,
			rev.ReviewedUpstreamID, ratings.NewAverage(avg, count, rev.Rating), count+1)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) ListBySupplier(ctx context.Context, supplierID int64) ([]Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rv.id, rv.reviewer_supplier_id, rv.reviewed_upstream_id, s.business_name, u.name,
		       rv.rating, rv.comment, rv.review_date, rv.is_moderated
		FROM reviews rv
		JOIN supplier_profiles s ON s.user_id = rv.reviewer_supplier_id
		JOIN upstream_suppliers u ON u.id = rv.reviewed_upstream_id
		WHERE rv.reviewer_supplier_id = $1
		ORDER BY rv.review_date DESC`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.ReviewerSupplierID, &rev.ReviewedUpstreamID,
			&rev.ReviewerName, &rev.ReviewedName, &rev.Rating, &rev.Comment,
			&rev.ReviewDate, &rev.IsModerated); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
