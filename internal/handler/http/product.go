// Package http exposes the catalog over a chi-routed JSON API.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/dist-ecom/product-service/pkg/errors"
	"github.com/dist-ecom/product-service/pkg/httputil"
	"github.com/dist-ecom/product-service/pkg/validator"

	"github.com/dist-ecom/product-service/internal/auth"
	"github.com/dist-ecom/product-service/internal/domain"
	"github.com/dist-ecom/product-service/internal/service"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service  *service.CatalogService
	verifier auth.MerchantVerifier
	logger   *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.CatalogService, verifier auth.MerchantVerifier, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  svc,
		verifier: verifier,
		logger:   logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required,min=1,max=500"`
	Description string         `json:"description"`
	Price       float64        `json:"price" validate:"gte=0"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	Images      []string       `json:"images" validate:"omitempty,dive,url"`
	IsActive    *bool          `json:"is_active"`
	Stock       int            `json:"stock" validate:"gte=0"`
	Metadata    map[string]any `json:"metadata"`
}

// UpdateProductRequest is the JSON request body for partially updating a product.
type UpdateProductRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=500"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price" validate:"omitempty,gte=0"`
	Category    *string        `json:"category"`
	Tags        []string       `json:"tags"`
	Images      []string       `json:"images" validate:"omitempty,dive,url"`
	IsActive    *bool          `json:"is_active"`
	Stock       *int           `json:"stock" validate:"omitempty,gte=0"`
	Metadata    map[string]any `json:"metadata"`
}

// --- Handlers ---

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireVerifiedActor(w, r)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Tags:        req.Tags,
		Images:      req.Images,
		IsActive:    req.IsActive,
		Stock:       req.Stock,
		Metadata:    req.Metadata,
	}, actor)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// SearchProducts handles GET /api/v1/products/search?q=
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("query parameter q is required"), h.logger)
		return
	}

	docs, err := h.service.SearchProducts(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: docs})
}

// ListByCategory handles GET /api/v1/products/category/{category}
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.service.ListProductsByCategory(r.Context(), category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// ListByTags handles GET /api/v1/products/tags?tags=a,b
func (h *ProductHandler) ListByTags(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tags")
	if raw == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("query parameter tags is required"), h.logger)
		return
	}

	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("query parameter tags is required"), h.logger)
		return
	}

	products, err := h.service.ListProductsByTags(r.Context(), tags)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// ListByMerchant handles GET /api/v1/products/merchant/{merchantId}
func (h *ProductHandler) ListByMerchant(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchantId")

	products, err := h.service.ListProductsByMerchant(r.Context(), merchantID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// UpdateProduct handles PATCH /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireVerifiedActor(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, &service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Tags:        req.Tags,
		Images:      req.Images,
		IsActive:    req.IsActive,
		Stock:       req.Stock,
		Metadata:    req.Metadata,
	}, actor)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireVerifiedActor(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.DeleteProduct(r.Context(), id, actor); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id, "status": "deleted"}})
}

// requireVerifiedActor resolves the authenticated actor and, for merchants,
// checks the verification status against the user service. Admins bypass
// the verification check.
func (h *ProductHandler) requireVerifiedActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return domain.Actor{}, false
	}

	if actor.IsMerchant() {
		verified, err := h.verifier.IsVerified(r.Context(), actor.ID)
		if err != nil {
			// When the status cannot be determined, deny rather than fail open.
			h.logger.WarnContext(r.Context(), "merchant verification check failed",
				slog.String("user_id", actor.ID),
				slog.String("error", err.Error()),
			)
			httputil.WriteError(w, r, apperrors.Forbidden("failed to verify merchant status"), h.logger)
			return domain.Actor{}, false
		}
		if !verified {
			httputil.WriteError(w, r, apperrors.Forbidden("merchant account is not verified"), h.logger)
			return domain.Actor{}, false
		}
	}

	return actor, true
}
