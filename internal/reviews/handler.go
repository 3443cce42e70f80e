package reviews

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

// Handler exposes review endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountVendorRoutes registers vendor review routes.
func (h *Handler) MountVendorRoutes(r chi.Router) {
	r.Get("/reviews", h.handleVendorReviews)
	r.Post("/reviews", h.handleReviewSupplier)
}

// MountSupplierRoutes registers supplier review routes.
func (h *Handler) MountSupplierRoutes(r chi.Router) {
	r.Get("/reviews", h.handleReceivedReviews)
	r.Get("/upstream/reviews", h.handleGivenReviews)
	r.Post("/upstream/{id}/reviews", h.handleReviewUpstream)
}

type reviewRequest struct {
	SupplierID int64   `json:"supplier_id" validate:"required"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment"`
}

func (h *Handler) handleReviewSupplier(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	id, err := h.service.ReviewSupplier(r.Context(), principal.ProfileID, req.SupplierID, req.Rating, req.Comment)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) handleVendorReviews(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	reviews, err := h.service.VendorReviews(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func (h *Handler) handleReceivedReviews(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	reviews, err := h.service.SupplierReceivedReviews(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func (h *Handler) handleGivenReviews(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	reviews, err := h.service.SupplierGivenReviews(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

type upstreamReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

func (h *Handler) handleReviewUpstream(w http.ResponseWriter, r *http.Request) {
	upstreamID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid upstream supplier id")
		return
	}
	var req upstreamReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	id, err := h.service.ReviewUpstream(r.Context(), principal.ProfileID, upstreamID, req.Rating, req.Comment)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": id})
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return httpx.ErrNotFound
	case errors.Is(err, ErrAlreadyReviewed):
		return httpx.ErrConflict
	case errors.Is(err, ErrNotEligible):
		return httpx.ErrForbidden
	}
	return err
}
