package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/manaswi-siripurapu/SpiceRoute/internal/auth"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/platform/httpx"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/profiles"
	"github.com/manaswi-siripurapu/SpiceRoute/internal/shared"
)

// Handler exposes catalog endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	profiles  *profiles.Service
	validator *validator.Validate
}

// NewHandler constructs a Handler. The profiles service resolves the
// vendor's pincode for the browse listing.
func NewHandler(logger *slog.Logger, service *Service, profileSvc *profiles.Service) *Handler {
	return &Handler{logger: logger, service: service, profiles: profileSvc, validator: validator.New()}
}

// MountSupplierRoutes registers the hub's product management routes.
func (h *Handler) MountSupplierRoutes(r chi.Router) {
	r.Get("/products", h.handleSupplierProducts)
	r.Post("/products", h.handleCreateProduct)
	r.Put("/products/{id}", h.handleUpdateProduct)
	r.Delete("/products/{id}", h.handleDeleteProduct)
}

// MountVendorRoutes registers the vendor-facing browse routes.
func (h *Handler) MountVendorRoutes(r chi.Router) {
	r.Get("/browse", h.handleBrowse)
	r.Get("/categories", h.handleCategories)
}

// MountAPIRoutes registers shared JSON resources.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/products/{id}", h.handleProductDetail)
	r.Post("/products/{id}/price", h.handleUpdatePrice)
}

type productRequest struct {
	Name              string   `json:"name" validate:"required,max=255"`
	Description       *string  `json:"description"`
	CategoryID        *int64   `json:"category_id"`
	UnitOfMeasure     string   `json:"unit_of_measure" validate:"required"`
	PricePerUnit      float64  `json:"current_price_per_unit" validate:"required,gt=0"`
	QuantityAvailable float64  `json:"quantity_available" validate:"gte=0"`
	QualityGrade      string   `json:"quality_grade"`
	IsOrganic         bool     `json:"is_organic"`
	SuggestedMinPrice *float64 `json:"suggested_min_price"`
	SuggestedMaxPrice *float64 `json:"suggested_max_price"`
}

func (req productRequest) toDomain() Product {
	grade := Grade(req.QualityGrade)
	if grade == "" {
		grade = GradeStandard
	}
	return Product{
		Name:                req.Name,
		Description:         req.Description,
		CategoryID:          req.CategoryID,
		UnitOfMeasure:       Unit(req.UnitOfMeasure),
		CurrentPricePerUnit: req.PricePerUnit,
		QuantityAvailable:   req.QuantityAvailable,
		QualityGrade:        grade,
		IsOrganic:           req.IsOrganic,
		SuggestedMinPrice:   req.SuggestedMinPrice,
		SuggestedMaxPrice:   req.SuggestedMaxPrice,
	}
}

func (h *Handler) handleSupplierProducts(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	products, err := h.service.SupplierProducts(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	id, err := h.service.AddProduct(r.Context(), principal.ProfileID, req.toDomain())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	product := req.toDomain()
	product.ID = id
	if err := h.service.UpdateProduct(r.Context(), principal.ProfileID, product); err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	principal, _ := auth.PrincipalFromContext(r.Context())
	if err := h.service.RemoveProduct(r.Context(), principal.ProfileID, id); err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleBrowse(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	vendor, err := h.profiles.VendorProfile(r.Context(), principal.ProfileID)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	categoryID, _ := strconv.ParseInt(q.Get("category"), 10, 64)

	products, pagination, err := h.service.Browse(r.Context(), BrowseFilter{
		Pincode:    vendor.LocationPincode,
		Search:     q.Get("q"),
		CategoryID: categoryID,
	}, page, 20)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"products":   products,
		"pagination": pagination,
	})
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.Categories(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (h *Handler) handleProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	product, err := h.service.Product(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	// Detail carries pricing insight fields; only the owning hub may read it.
	principal, _ := auth.PrincipalFromContext(r.Context())
	if !principal.IsSupplier() || product.SupplierID != principal.ProfileID {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

type priceUpdateRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

func (h *Handler) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	if !principal.IsSupplier() {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	var req priceUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.UpdatePrice(r.Context(), principal.ProfileID, id, req.Price); err != nil {
		httpx.RespondError(w, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "price updated", "price": req.Price})
}

func mapErr(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return httpx.ErrNotFound
	}
	return err
}
