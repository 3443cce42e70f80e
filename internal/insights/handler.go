package insights

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/auth"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Handler exposes suggestion and insight endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountVendorRoutes registers vendor suggestion routes.
func (h *Handler) MountVendorRoutes(r chi.Router) {
	r.Get("/suggestions", h.handleVendorSuggestions)
}

// MountSupplierRoutes registers supplier insight routes.
func (h *Handler) MountSupplierRoutes(r chi.Router) {
	r.Get("/insights", h.handleSupplierInsights)
}

// MountAPIRoutes registers shared insight routes.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Post("/cart/suggestions", h.handleCartSuggestion)
}

func (h *Handler) handleVendorSuggestions(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	suggestions, err := h.service.VendorSuggestions(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (h *Handler) handleSupplierInsights(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	insights, err := h.service.SupplierInsights(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"insights": insights})
}

type cartSuggestionRequest struct {
	ProductID         int64   `json:"product_id" validate:"required"`
	SuggestedQuantity float64 `json:"suggested_quantity" validate:"required,gt=0"`
}

func (h *Handler) handleCartSuggestion(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	if !principal.IsVendor() {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}

	var req cartSuggestionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	pick, err := h.service.CartSuggestion(r.Context(), req.ProductID, req.SuggestedQuantity)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "product": pick})
}

func mapErr(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return httpx.ErrNotFound
	}
	return err
}
