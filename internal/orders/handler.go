package orders

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/auth"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Handler exposes order endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountVendorRoutes registers vendor-scoped order routes.
func (h *Handler) MountVendorRoutes(r chi.Router) {
	r.Post("/orders/checkout", h.handleCheckout)
	r.Get("/orders", h.handleVendorOrders)
}

// MountSupplierRoutes registers supplier-scoped order routes.
func (h *Handler) MountSupplierRoutes(r chi.Router) {
	r.Get("/orders", h.handleSupplierOrders)
	r.Post("/orders/{id}/status", h.handleUpdateStatus)
	r.Get("/earnings", h.handleEarnings)
}

// MountAPIRoutes registers shared JSON resources.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/orders/{id}", h.handleOrderDetail)
}

type checkoutRequest struct {
	Items            []CartLine `json:"items" validate:"required,min=1,dive"`
	DeliveryOption   string     `json:"delivery_option" validate:"required"`
	PaymentMethod    string     `json:"payment_method" validate:"required"`
	DeliveryAddress  string     `json:"delivery_address"`
	CoVendorIdentity string     `json:"co_vendor_id"`
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	result, err := h.service.Checkout(r.Context(), principal.ProfileID, CheckoutInput{
		Lines:            req.Items,
		DeliveryOption:   DeliveryOption(req.DeliveryOption),
		PaymentMethod:    PaymentMethod(req.PaymentMethod),
		DeliveryAddress:  req.DeliveryAddress,
		CoVendorIdentity: req.CoVendorIdentity,
	})
	if err != nil {
		h.logger.Warn("checkout failed",
			slog.Int64("vendor_id", principal.ProfileID), slog.Any("error", err))
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) handleVendorOrders(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	grouped, err := h.service.VendorOrders(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"orders_by_status": grouped})
}

func (h *Handler) handleSupplierOrders(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	grouped, err := h.service.SupplierOrders(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"orders_by_status": grouped})
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	var req statusUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	if err := h.service.UpdateStatus(r.Context(), principal.ProfileID, id, Status(req.Status)); err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *Handler) handleEarnings(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	earnings, err := h.service.Earnings(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, earnings)
}

func (h *Handler) handleOrderDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	principal, _ := auth.PrincipalFromContext(r.Context())
	order, err := h.service.Order(r.Context(), id, principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return httpx.ErrNotFound
	case errors.Is(err, ErrInsufficientStock):
		return fmt.Errorf("%w: %s", httpx.ErrConflict, err.Error())
	}
	return err
}
