package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/promotion-service/internal/display"
	"github.com/utafrali/promotion-service/internal/domain"
	"github.com/utafrali/promotion-service/internal/service"
	"github.com/utafrali/promotion-service/pkg/httputil"
	"github.com/utafrali/promotion-service/pkg/middleware"
	"github.com/utafrali/promotion-service/pkg/pagination"
	"github.com/utafrali/promotion-service/pkg/validator"
)

const maxBodyBytes = 1 << 20

// PromotionService is the subset of the promotion service the handlers use.
type PromotionService interface {
	ListPromotions(ctx context.Context, params pagination.Params) ([]domain.Promotion, int, error)
	GetPromotion(ctx context.Context, id string) (*domain.Promotion, error)
	PromotionStyles(ctx context.Context, id string) (*display.PromotionStyle, error)
	ProductDetailPromotions(ctx context.Context, productID int64, basketID, userID string) (*service.ProductDetail, error)
	ProductImages(ctx context.Context, productID int64, preferredType string) (*service.ProductImages, error)
	DistinctPrimaryImageTypes(ctx context.Context, productIDs []int64) ([]domain.AttributeValue, error)
	ActivePromotions(ctx context.Context, basketID, userID string) (*service.BasketPromotions, error)
	BasketQuantities(ctx context.Context, basketID, userID string) ([]service.ItemQuantity, error)
}

// PromotionHandler handles HTTP requests for promotion endpoints.
type PromotionHandler struct {
	service PromotionService
	logger  *slog.Logger
}

// NewPromotionHandler creates a new promotion HTTP handler.
func NewPromotionHandler(svc PromotionService, logger *slog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: svc,
		logger:  logger,
	}
}

// SortImagesRequest is the JSON request body for sorting images.
type SortImagesRequest struct {
	Images        []domain.ProductImage `json:"images" validate:"required,max=200,dive"`
	PreferredType string                `json:"preferred_type" validate:"max=100"`
}

// PrimaryImageTypesRequest is the JSON request body for collecting primary image types.
type PrimaryImageTypesRequest struct {
	ProductIDs []int64 `json:"product_ids" validate:"required,min=1,max=100,dive,gt=0"`
}

// ListPromotions handles GET /api/v1/promotions
func (h *PromotionHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	promotions, total, err := h.service.ListPromotions(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(promotions, total, params))
}

// GetPromotion handles GET /api/v1/promotions/{id}
func (h *PromotionHandler) GetPromotion(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPromotion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p})
}

// GetPromotionStyles handles GET /api/v1/promotions/{id}/styles
func (h *PromotionHandler) GetPromotionStyles(w http.ResponseWriter, r *http.Request) {
	styles, err := h.service.PromotionStyles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: styles})
}

// GetProductPromotions handles GET /api/v1/products/{productId}/promotions
// The basket_id query parameter is honored only for the basket's owner.
func (h *PromotionHandler) GetProductPromotions(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	ctx := r.Context()
	detail, err := h.service.ProductDetailPromotions(ctx, productID, r.URL.Query().Get("basket_id"), middleware.UserIDFromContext(ctx))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// GetProductImages handles GET /api/v1/products/{productId}/images
func (h *PromotionHandler) GetProductImages(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	images, err := h.service.ProductImages(r.Context(), productID, r.URL.Query().Get("preferred_type"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: images})
}

// SortImages handles POST /api/v1/images/sort
func (h *PromotionHandler) SortImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req SortImagesRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: service.SortImages(req.Images, req.PreferredType)})
}

// PrimaryImageTypes handles POST /api/v1/products/primary-image-types
func (h *PromotionHandler) PrimaryImageTypes(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req PrimaryImageTypesRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	types, err := h.service.DistinctPrimaryImageTypes(r.Context(), req.ProductIDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: types})
}

// GetActivePromotions handles GET /api/v1/baskets/{basketId}/active-promotions
func (h *PromotionHandler) GetActivePromotions(w http.ResponseWriter, r *http.Request) {
	active, err := h.service.ActivePromotions(r.Context(), chi.URLParam(r, "basketId"), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: active})
}

// GetBasketQuantities handles GET /api/v1/baskets/{basketId}/quantities
func (h *PromotionHandler) GetBasketQuantities(w http.ResponseWriter, r *http.Request) {
	quantities, err := h.service.BasketQuantities(r.Context(), chi.URLParam(r, "basketId"), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: quantities})
}
