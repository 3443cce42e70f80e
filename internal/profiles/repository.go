package profiles

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/db"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Repository persists vendor and supplier profiles.
type Repository interface {
	GetVendor(ctx context.Context, userID int64) (*VendorProfile, error)
	GetSupplier(ctx context.Context, userID int64) (*SupplierProfile, error)
	UpdateVendor(ctx context.Context, userID int64, upd VendorUpdate) error
	UpdateSupplier(ctx context.Context, userID int64, upd SupplierUpdate) error
	ListSuppliers(ctx context.Context, onlyUnverified bool, p shared.Pagination) ([]SupplierProfile, int, error)
	SetSupplierVerified(ctx context.Context, userID int64, verified bool) error

	FindVendorByIdentity(ctx context.Context, identity string) (*VendorProfile, error)

	ListUpstreamForSupplier(ctx context.Context, supplierID int64) ([]UpstreamSupplier, error)
	FindUpstreamByPhone(ctx context.Context, phone string) (*UpstreamSupplier, error)
	LinkUpstream(ctx context.Context, supplierID, upstreamID int64) error
	CreateUpstreamForSupplier(ctx context.Context, supplierID int64, up UpstreamSupplier) (int64, error)
}

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) GetVendor(ctx context.Context, userID int64) (*VendorProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, name, location_pincode, location_address, type_of_food,
		       average_rating_as_seller, total_reviews_as_seller
		FROM vendor_profiles WHERE user_id = $1`, userID)

	var v VendorProfile
	err := row.Scan(&v.UserID, &v.Name, &v.LocationPincode, &v.LocationAddress,
		&v.TypeOfFood, &v.AverageRatingAsSeller, &v.TotalReviewsAsSeller)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) GetSupplier(ctx context.Context, userID int64) (*SupplierProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, business_name, contact_person, phone_number, email,
		       location_pincode, location_address, business_registration_details,
		       storage_capacity_sqft, average_rating, total_reviews, is_verified
		FROM supplier_profiles WHERE user_id = $1`, userID)

	var s SupplierProfile
	err := row.Scan(&s.UserID, &s.BusinessName, &s.ContactPerson, &s.PhoneNumber, &s.Email,
		&s.LocationPincode, &s.LocationAddress, &s.BusinessRegistrationDetails,
		&s.StorageCapacitySqft, &s.AverageRating, &s.TotalReviews, &s.IsVerified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) UpdateVendor(ctx context.Context, userID int64, upd VendorUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vendor_profiles
		SET name = $2, location_pincode = $3, location_address = $4, type_of_food = $5
		WHERE user_id = $1`,
		userID, upd.Name, upd.LocationPincode, upd.LocationAddress, upd.TypeOfFood)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) UpdateSupplier(ctx context.Context, userID int64, upd SupplierUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE supplier_profiles
		SET business_name = $2, contact_person = $3, phone_number = $4, email = $5,
		    location_pincode = $6, location_address = $7,
		    business_registration_details = $8, storage_capacity_sqft = $9
		WHERE user_id = $1`,
		userID, upd.BusinessName, upd.ContactPerson, upd.PhoneNumber, upd.Email,
		upd.LocationPincode, upd.LocationAddress, upd.BusinessRegistrationDetails,
		upd.StorageCapacitySqft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) ListSuppliers(ctx context.Context, onlyUnverified bool, p shared.Pagination) ([]SupplierProfile, int, error) {
	query := `
		SELECT user_id, business_name, contact_person, phone_number, email,
		       location_pincode, location_address, business_registration_details,
		       storage_capacity_sqft, average_rating, total_reviews, is_verified
		FROM supplier_profiles WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM supplier_profiles WHERE 1=1`
	args := []any{}
	argCount := 0

	if onlyUnverified {
		query += ` AND is_verified = false`
		countQuery += ` AND is_verified = false`
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY business_name ASC`
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, p.PerPage)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, p.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var suppliers []SupplierProfile
	for rows.Next() {
		var s SupplierProfile
		if err := rows.Scan(&s.UserID, &s.BusinessName, &s.ContactPerson, &s.PhoneNumber, &s.Email,
			&s.LocationPincode, &s.LocationAddress, &s.BusinessRegistrationDetails,
			&s.StorageCapacitySqft, &s.AverageRating, &s.TotalReviews, &s.IsVerified); err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *PGRepository) SetSupplierVerified(ctx context.Context, userID int64, verified bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE supplier_profiles SET is_verified = $2 WHERE user_id = $1`, userID, verified)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindVendorByIdentity resolves a vendor by profile name, phone number or
// email. Used for co-vendor checkout and leftover buyer attribution.
func (r *PGRepository) FindVendorByIdentity(ctx context.Context, identity string) (*VendorProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT v.user_id, v.name, v.location_pincode, v.location_address, v.type_of_food,
		       v.average_rating_as_seller, v.total_reviews_as_seller
		FROM vendor_profiles v
		JOIN users u ON u.id = v.user_id
		WHERE v.name = $1 OR u.phone_number = $1 OR u.email = $1
		LIMIT 1`, identity)

	var v VendorProfile
	err := row.Scan(&v.UserID, &v.Name, &v.LocationPincode, &v.LocationAddress,
		&v.TypeOfFood, &v.AverageRatingAsSeller, &v.TotalReviewsAsSeller)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) ListUpstreamForSupplier(ctx context.Context, supplierID int64) ([]UpstreamSupplier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.contact_person, u.phone_number, u.email, u.address,
		       u.average_rating_by_hub, u.total_reviews_by_hub, u.created_at
		FROM upstream_suppliers u
		JOIN supplier_upstream_links l ON l.upstream_supplier_id = u.id
		WHERE l.supplier_id = $1
		ORDER BY u.name ASC`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ups []UpstreamSupplier
	for rows.Next() {
		var u UpstreamSupplier
		if err := rows.Scan(&u.ID, &u.Name, &u.ContactPerson, &u.PhoneNumber, &u.Email,
			&u.Address, &u.AverageRatingByHub, &u.TotalReviewsByHub, &u.CreatedAt); err != nil {
			return nil, err
		}
		ups = append(ups, u)
	}
	return ups, rows.Err()
}

func (r *PGRepository) FindUpstreamByPhone(ctx context.Context, phone string) (*UpstreamSupplier, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, contact_person, phone_number, email, address,
		       average_rating_by_hub, total_reviews_by_hub, created_at
		FROM upstream_suppliers WHERE phone_number = $1`, phone)

	var u UpstreamSupplier
	err := row.Scan(&u.ID, &u.Name, &u.ContactPerson, &u.PhoneNumber, &u.Email,
		&u.Address, &u.AverageRatingByHub, &u.TotalReviewsByHub, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) LinkUpstream(ctx context.Context, supplierID, upstreamID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO supplier_upstream_links (supplier_id, upstream_supplier_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, supplierID, upstreamID)
	return err
}

func (r *PGRepository) CreateUpstreamForSupplier(ctx context.Context, supplierID int64, up UpstreamSupplier) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO upstream_suppliers (name, contact_person, phone_number, email, address)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			up.Name, up.ContactPerson, up.PhoneNumber, up.Email, up.Address).Scan(&id)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO supplier_upstream_links (supplier_id, upstream_supplier_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, supplierID, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
