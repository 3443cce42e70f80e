package loans

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/auth"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Handler exposes loan endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountVendorRoutes registers vendor-scoped loan routes.
func (h *Handler) MountVendorRoutes(r chi.Router) {
	r.Get("/loans", h.handleVendorLoans)
	r.Post("/loans", h.handleApply)
	r.Get("/loans/{id}/repayments", h.handleRepayments)
	r.Post("/loans/{id}/repayments", h.handleRepay)
}

// MountAdminRoutes registers the approval queue routes.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/loans", h.handlePendingLoans)
	r.Post("/loans/{id}/approve", h.handleApprove)
	r.Post("/loans/{id}/default", h.handleDefault)
}

type applyRequest struct {
	Amount              float64 `json:"amount" validate:"required,gt=0"`
	RepaymentPeriodDays int     `json:"repayment_period_days" validate:"required"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	loan, err := h.service.Apply(r.Context(), principal.ProfileID, req.Amount, req.RepaymentPeriodDays)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, loan)
}

func (h *Handler) handleVendorLoans(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	loans, err := h.service.VendorLoans(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"loans": loans})
}

type repayRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=online cash"`
}

func (h *Handler) handleRepay(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid loan id")
		return
	}
	var req repayRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	loan, err := h.service.Repay(r.Context(), principal.ProfileID, id, req.Amount, req.PaymentMethod)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, loan)
}

func (h *Handler) handleRepayments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid loan id")
		return
	}
	principal, _ := auth.PrincipalFromContext(r.Context())
	repayments, err := h.service.Repayments(r.Context(), principal.ProfileID, id)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"repayments": repayments})
}

func (h *Handler) handlePendingLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.PendingLoans(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"loans": loans})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid loan id")
		return
	}
	principal, _ := auth.PrincipalFromContext(r.Context())
	if err := h.service.Approve(r.Context(), principal.UserID, id); err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "active"})
}

func (h *Handler) handleDefault(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid loan id")
		return
	}
	if err := h.service.MarkDefaulted(r.Context(), id); err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "defaulted"})
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return httpx.ErrNotFound
	case errors.Is(err, ErrActiveLoanExists):
		return httpx.ErrConflict
	}
	return err
}
