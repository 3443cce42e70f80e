package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/db"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// ErrDuplicateIdentity indicates the phone number (or email) is already taken.
var ErrDuplicateIdentity = errors.New("auth: phone number or email already registered")

// Registration carries everything needed to create an account and its profile
// in one transaction.
type Registration struct {
	Name                        string
	PhoneNumber                 string
	Email                       *string
	PasswordHash                string
	Role                        Role
	LocationPincode             string
	TypeOfFood                  *string
	BusinessRegistrationDetails *string
}

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByIdentity(ctx context.Context, identity string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Register(ctx context.Context, reg Registration) (int64, error)
	CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, phone_number, email, password_hash, role, is_active, created_at, updated_at`

// FindByIdentity fetches a user by phone number or email.
func (r *PGRepository) FindByIdentity(ctx context.Context, identity string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone_number = $1 OR email = $1`, identity)
	return scanUser(row)
}

// FindByID fetches a user by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Register creates the user row plus the role profile atomically and returns
// the new user id.
func (r *PGRepository) Register(ctx context.Context, reg Registration) (int64, error) {
	var userID int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		err := tx.QueryRow(ctx, `
			INSERT INTO users (phone_number, email, password_hash, role, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, TRUE, $5, $5)
			RETURNING id`,
			reg.PhoneNumber, reg.Email, reg.PasswordHash, string(reg.Role), now,
		).Scan(&userID)
		if err != nil {
			return err
		}

		switch reg.Role {
		case RoleVendor:
			_, err = tx.Exec(ctx, `
				INSERT INTO vendor_profiles (user_id, name, location_pincode, type_of_food)
				VALUES ($1, $2, $3, $4)`,
				userID, reg.Name, reg.LocationPincode, reg.TypeOfFood)
		case RoleSupplier:
			_, err = tx.Exec(ctx, `
				INSERT INTO supplier_profiles
					(user_id, business_name, contact_person, phone_number, email,
					 location_pincode, location_address, business_registration_details)
				VALUES ($1, $2, $2, $3, $4, $5, 'Not provided during registration', $6)`,
				userID, reg.Name, reg.PhoneNumber, reg.Email, reg.LocationPincode, reg.BusinessRegistrationDetails)
		}
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateIdentity
		}
		return 0, err
	}
	return userID, nil
}

// CreateSession persists a new login session in the database for auditing.
func (r *PGRepository) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at, ip, ua)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		ON CONFLICT (id) DO UPDATE SET expires_at = EXCLUDED.expires_at`,
		id, userID, time.Now().UTC(), expiresAt.UTC(), ip, ua)
	return err
}

// DeleteSession removes a session record from the database.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var role string
	if err := row.Scan(&u.ID, &u.PhoneNumber, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	u.Role = Role(role)
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
