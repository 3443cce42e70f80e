package auth

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Middleware resolves the session user into a Principal and enforces roles.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireRole admits requests whose principal holds one of the given roles.
// The principal is attached to the request context for downstream handlers.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := m.resolve(r)
			if err != nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
					return
				}
			}
			httpx.RespondError(w, httpx.ErrForbidden)
		})
	}
}

// RequireUser admits any authenticated principal regardless of role.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.resolve(r)
		if err != nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

func (m Middleware) resolve(r *http.Request) (Principal, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		return Principal{}, shared.ErrInvalidCredentials
	}
	userID, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		return Principal{}, shared.ErrInvalidCredentials
	}
	user, err := m.Service.Lookup(r.Context(), userID)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Warn("principal lookup failed", slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return Principal{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return Principal{}, shared.ErrInvalidCredentials
	}
	principal := Principal{UserID: user.ID, Role: user.Role}
	// Vendor and supplier profiles key on the user id.
	if user.Role == RoleVendor || user.Role == RoleSupplier {
		principal.ProfileID = user.ID
	}
	return principal, nil
}
