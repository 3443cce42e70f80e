package leftovers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/auth"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/catalog"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Handler exposes leftover market endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountVendorRoutes registers leftover market routes.
func (h *Handler) MountVendorRoutes(r chi.Router) {
	r.Get("/leftovers", h.handleMyListings)
	r.Post("/leftovers", h.handleCreate)
	r.Get("/leftovers/market", h.handleBrowse)
	r.Post("/leftovers/{id}/sold", h.handleMarkSold)
}

type listingRequest struct {
	ItemName      string  `json:"item_name" validate:"required,max=255"`
	Quantity      float64 `json:"quantity" validate:"required,gt=0"`
	UnitOfMeasure string  `json:"unit_of_measure" validate:"required"`
	PricePerUnit  float64 `json:"price_per_unit" validate:"gte=0"`
	Condition     string  `json:"condition" validate:"required"`
	ExpiryDate    *string `json:"expiry_date"`
	Fulfilment    string  `json:"pickup_delivery_preference" validate:"required"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var expiry *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "expiry_date must be YYYY-MM-DD")
			return
		}
		expiry = &parsed
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	id, err := h.service.CreateListing(r.Context(), principal.ProfileID, Listing{
		ItemName:      req.ItemName,
		Quantity:      req.Quantity,
		UnitOfMeasure: catalog.Unit(req.UnitOfMeasure),
		PricePerUnit:  req.PricePerUnit,
		Condition:     Condition(req.Condition),
		ExpiryDate:    expiry,
		Fulfilment:    Fulfilment(req.Fulfilment),
	})
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) handleMyListings(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	listings, err := h.service.MyListings(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *Handler) handleBrowse(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	listings, err := h.service.Browse(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"listings": listings})
}

type markSoldRequest struct {
	BuyerVendorID string `json:"buyer_vendor_id"`
}

func (h *Handler) handleMarkSold(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid listing id")
		return
	}
	var req markSoldRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	result, err := h.service.MarkSold(r.Context(), principal.ProfileID, id, req.BuyerVendorID)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func mapErr(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return httpx.ErrNotFound
	}
	return err
}
