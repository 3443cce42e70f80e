package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/auth"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/catalog"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/insights"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/leftovers"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/loans"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/observability"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/orders"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/profiles"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/reviews"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
	"github.com/manaswi-siripurapu/SpiceRoute/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	AuthHandler    *auth.Handler
	AuthMiddleware auth.Middleware

	ProfilesHandler  *profiles.Handler
	CatalogHandler   *catalog.Handler
	OrdersHandler    *orders.Handler
	LoansHandler     *loans.Handler
	ReviewsHandler   *reviews.Handler
	LeftoversHandler *leftovers.Handler
	InsightsHandler  *insights.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with SpiceRoute defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Clients read the token here and echo it back on mutating requests.
	r.Get("/csrf", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		token, err := params.CSRFManager.EnsureToken(r.Context(), sess)
		if err != nil {
			params.Logger.Error("ensure csrf token", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/vendor", func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireRole(auth.RoleVendor))
		params.ProfilesHandler.MountVendorRoutes(r)
		params.CatalogHandler.MountVendorRoutes(r)
		params.OrdersHandler.MountVendorRoutes(r)
		params.LoansHandler.MountVendorRoutes(r)
		params.ReviewsHandler.MountVendorRoutes(r)
		params.LeftoversHandler.MountVendorRoutes(r)
		params.InsightsHandler.MountVendorRoutes(r)
	})

	r.Route("/supplier", func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireRole(auth.RoleSupplier))
		params.ProfilesHandler.MountSupplierRoutes(r)
		params.CatalogHandler.MountSupplierRoutes(r)
		params.OrdersHandler.MountSupplierRoutes(r)
		params.ReviewsHandler.MountSupplierRoutes(r)
		params.InsightsHandler.MountSupplierRoutes(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireRole(auth.RoleAdmin))
		params.ProfilesHandler.MountAdminRoutes(r)
		params.LoansHandler.MountAdminRoutes(r)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireUser)
		params.CatalogHandler.MountAPIRoutes(r)
		params.OrdersHandler.MountAPIRoutes(r)
		params.InsightsHandler.MountAPIRoutes(r)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
