package profiles

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

// Handler exposes profile endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountVendorRoutes registers vendor-scoped profile routes.
func (h *Handler) MountVendorRoutes(r chi.Router) {
	r.Get("/profile", h.handleGetVendorProfile)
	r.Put("/profile", h.handleUpdateVendorProfile)
}

// MountSupplierRoutes registers supplier-scoped profile routes.
func (h *Handler) MountSupplierRoutes(r chi.Router) {
	r.Get("/profile", h.handleGetSupplierProfile)
	r.Put("/profile", h.handleUpdateSupplierProfile)
	r.Get("/upstream", h.handleListUpstream)
	r.Post("/upstream", h.handleCreateUpstream)
}

// MountAdminRoutes registers the admin verification queue routes.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/suppliers", h.handleListSuppliers)
	r.Post("/suppliers/{id}/verify", h.handleVerifySupplier)
}

func (h *Handler) handleGetVendorProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	profile, err := h.service.VendorProfile(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

type vendorUpdateRequest struct {
	Name            string  `json:"name" validate:"required,max=255"`
	LocationPincode string  `json:"location_pincode" validate:"required,min=4,max=10"`
	LocationAddress *string `json:"location_address"`
	TypeOfFood      *string `json:"type_of_food" validate:"omitempty,max=100"`
}

func (h *Handler) handleUpdateVendorProfile(w http.ResponseWriter, r *http.Request) {
	var req vendorUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	err := h.service.UpdateVendorProfile(r.Context(), principal.ProfileID, VendorUpdate{
		Name:            req.Name,
		LocationPincode: req.LocationPincode,
		LocationAddress: req.LocationAddress,
		TypeOfFood:      req.TypeOfFood,
	})
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) handleGetSupplierProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	profile, err := h.service.SupplierProfile(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

type supplierUpdateRequest struct {
	BusinessName                string  `json:"business_name" validate:"required,max=255"`
	ContactPerson               string  `json:"contact_person" validate:"required,max=255"`
	PhoneNumber                 string  `json:"phone_number" validate:"required,min=7,max=15"`
	Email                       *string `json:"email" validate:"omitempty,email"`
	LocationPincode             string  `json:"location_pincode" validate:"required,min=4,max=10"`
	LocationAddress             string  `json:"location_address" validate:"required"`
	BusinessRegistrationDetails *string `json:"business_registration_details"`
	StorageCapacitySqft         *int    `json:"storage_capacity_sqft" validate:"omitempty,min=0"`
}

func (h *Handler) handleUpdateSupplierProfile(w http.ResponseWriter, r *http.Request) {
	var req supplierUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	err := h.service.UpdateSupplierProfile(r.Context(), principal.ProfileID, SupplierUpdate{
		BusinessName:                req.BusinessName,
		ContactPerson:               req.ContactPerson,
		PhoneNumber:                 req.PhoneNumber,
		Email:                       req.Email,
		LocationPincode:             req.LocationPincode,
		LocationAddress:             req.LocationAddress,
		BusinessRegistrationDetails: req.BusinessRegistrationDetails,
		StorageCapacitySqft:         req.StorageCapacitySqft,
	})
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) handleListUpstream(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	ups, err := h.service.UpstreamSuppliers(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"upstream_suppliers": ups})
}

type upstreamCreateRequest struct {
	Name          string  `json:"name" validate:"required,max=255"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	PhoneNumber   *string `json:"phone_number" validate:"omitempty,min=7,max=15"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Address       *string `json:"address"`
}

func (h *Handler) handleCreateUpstream(w http.ResponseWriter, r *http.Request) {
	var req upstreamCreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	id, err := h.service.AddUpstreamSupplier(r.Context(), principal.ProfileID, UpstreamSupplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
		Address:       req.Address,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	onlyUnverified := r.URL.Query().Get("verified") == "false"

	suppliers, pagination, err := h.service.ListSuppliers(r.Context(), onlyUnverified, page, 20)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"suppliers":  suppliers,
		"pagination": pagination,
	})
}

func (h *Handler) handleVerifySupplier(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid supplier id")
		return
	}
	if err := h.service.VerifySupplier(r.Context(), id, true); err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func mapErr(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return httpx.ErrNotFound
	}
	return err
}
