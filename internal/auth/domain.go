package auth

import (
	"context"
	"time"
)

// Role identifies what part of the marketplace an account operates.
type Role string

const (
	RoleVendor   Role = "vendor"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// User represents an authenticated account. The phone number is the login
// identity, mirroring how street vendors register in the field.
type User struct {
	ID           int64
	PhoneNumber  string
	Email        *string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the resolved identity passed to handlers. ProfileID equals the
// vendor or supplier profile key for the two marketplace roles and is zero for
// admins.
type Principal struct {
	UserID    int64
	ProfileID int64
	Role      Role
}

// IsVendor reports whether the principal acts as a street-food vendor.
func (p Principal) IsVendor() bool { return p.Role == RoleVendor }

// IsSupplier reports whether the principal acts as a micro-supply hub.
func (p Principal) IsSupplier() bool { return p.Role == RoleSupplier }

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal placed by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
