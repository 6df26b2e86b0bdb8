package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/promotion-service/internal/display"
	"github.com/utafrali/promotion-service/internal/domain"
	"github.com/utafrali/promotion-service/internal/image"
	"github.com/utafrali/promotion-service/internal/promotion"
	"github.com/utafrali/promotion-service/internal/repository"
	apperrors "github.com/utafrali/promotion-service/pkg/errors"
	"github.com/utafrali/promotion-service/pkg/pagination"
	"github.com/utafrali/promotion-service/pkg/tracing"
)

// ProductCatalog reads product snapshots from the product service.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProducts(ctx context.Context, ids []int64) ([]domain.Product, error)
}

// CatalogPublisher announces catalog reloads.
type CatalogPublisher interface {
	PublishCatalogLoaded(ctx context.Context, promotions []domain.Promotion, loadedAt time.Time) error
}

// PromotionService implements the read side of storefront promotions.
type PromotionService struct {
	repo      repository.PromotionRepository
	cache     repository.CatalogCache
	baskets   repository.BasketRepository
	products  ProductCatalog
	publisher CatalogPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewPromotionService creates a new promotion service.
func NewPromotionService(
	repo repository.PromotionRepository,
	cache repository.CatalogCache,
	baskets repository.BasketRepository,
	products ProductCatalog,
	publisher CatalogPublisher,
	logger *slog.Logger,
) *PromotionService {
	return &PromotionService{
		repo:      repo,
		cache:     cache,
		baskets:   baskets,
		products:  products,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ProductDetail holds the promotions shown on a product detail page.
type ProductDetail struct {
	ProductID  int64              `json:"product_id"`
	Promotions []domain.Promotion `json:"promotions"`
	BuyXGetY   *domain.Promotion  `json:"buy_x_get_y,omitempty"`
	Tiered     []domain.Promotion `json:"tiered"`
}

// BasketPromotions is the active promotion view of a basket.
type BasketPromotions struct {
	BasketID string `json:"basket_id"`
	promotion.ActiveView
	Progress map[string]promotion.Progress `json:"progress"`
}

// ProductImages holds a product's images in display order.
type ProductImages struct {
	Images  []domain.ProductImage `json:"images"`
	Primary *domain.ProductImage  `json:"primary,omitempty"`
}

// ItemQuantity is the selectable quantity range of a basket line.
type ItemQuantity struct {
	ItemKey     string `json:"item_key"`
	Quantity    int    `json:"quantity"`
	MaxQuantity int    `json:"max_quantity"`
}

// catalog returns the current promotions in catalog order. The cache is
// consulted first; a miss or a cache failure reloads from the database. The
// cached snapshot holds every active promotion that has not ended, so windows
// opening after the load are picked up by the schedule filter at read time.
func (s *PromotionService) catalog(ctx context.Context) (promotions []domain.Promotion, err error) {
	ctx, span := tracing.Start(ctx, "service", "promotion.catalog")
	defer func() { tracing.End(span, err) }()

	now := s.now()

	cached, ok, cacheErr := s.cache.Get(ctx)
	if cacheErr != nil {
		s.logger.WarnContext(ctx, "promotion catalog cache read failed",
			slog.String("error", cacheErr.Error()),
		)
	}
	span.SetAttributes(attribute.Bool("cache.hit", ok))
	if ok {
		return current(cached, now), nil
	}

	active, err := s.repo.ListActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("load promotion catalog: %w", err)
	}

	if err := s.cache.Set(ctx, active); err != nil {
		s.logger.WarnContext(ctx, "promotion catalog cache write failed",
			slog.String("error", err.Error()),
		)
	}

	promotions = current(active, now)
	span.SetAttributes(attribute.Int("promotions", len(promotions)))

	if err := s.publisher.PublishCatalogLoaded(ctx, promotions, now); err != nil {
		s.logger.WarnContext(ctx, "failed to publish catalog_loaded event",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "promotion catalog loaded",
		slog.Int("active", len(active)),
		slog.Int("current", len(promotions)),
	)

	return promotions, nil
}

// current keeps the active promotions whose schedule contains now.
func current(promotions []domain.Promotion, now time.Time) []domain.Promotion {
	out := make([]domain.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.IsActive && p.Schedule.Contains(now) {
			out = append(out, p)
		}
	}
	return out
}

// CurrentPromotions returns the current promotions ranked by priority.
func (s *PromotionService) CurrentPromotions(ctx context.Context) ([]domain.Promotion, error) {
	promotions, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return promotion.Rank(promotions), nil
}

// ListPromotions returns one page of the ranked current promotions and the
// total count.
func (s *PromotionService) ListPromotions(ctx context.Context, params pagination.Params) ([]domain.Promotion, int, error) {
	ranked, err := s.CurrentPromotions(ctx)
	if err != nil {
		return nil, 0, err
	}

	return pagination.Slice(ranked, params), len(ranked), nil
}

// GetPromotion retrieves a current promotion by its ID. Inactive and out of
// window promotions are reported as not found.
func (s *PromotionService) GetPromotion(ctx context.Context, id string) (*domain.Promotion, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("promotion id is required")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get promotion %s: %w", id, err)
	}
	if !p.IsActive || !p.Schedule.Contains(s.now()) {
		return nil, apperrors.NotFound("promotion", id)
	}
	return p, nil
}

// PromotionStyles renders the display colors of a promotion.
func (s *PromotionService) PromotionStyles(ctx context.Context, id string) (*display.PromotionStyle, error) {
	p, err := s.GetPromotion(ctx, id)
	if err != nil {
		return nil, err
	}

	styles, err := display.PromotionStyles(*p)
	if err != nil {
		return nil, fmt.Errorf("render styles of promotion %s: %w", id, err)
	}
	return &styles, nil
}

// ProductDetailPromotions returns the promotions to show on a product's detail
// page. When basketID names a basket owned by userID, the promotions already
// applied to the product's basket line are merged in.
func (s *PromotionService) ProductDetailPromotions(ctx context.Context, productID int64, basketID, userID string) (_ *ProductDetail, err error) {
	ctx, span := tracing.Start(ctx, "service", "promotion.product_detail",
		attribute.Int64("product.id", productID),
		attribute.Bool("basket.present", basketID != ""),
	)
	defer func() { tracing.End(span, err) }()

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	basket, err := s.optionalBasket(ctx, basketID, userID)
	if err != nil {
		return nil, err
	}

	var applicable []domain.ApplicablePromotion
	if basket != nil {
		applicable = basket.ApplicablePromotions
	}

	promotions := promotion.PromotionsForProductDetailPage(product, catalog, basket.FindItemByProduct(productID))

	candidates := make([]*domain.Promotion, 0, len(promotions))
	tiered := make([]domain.Promotion, 0)
	for i := range promotions {
		candidates = append(candidates, &promotions[i])
		if promotion.IsTieredPromotion(&promotions[i]) {
			tiered = append(tiered, promotion.TieredPromotion(promotions[i]))
		}
	}

	detail := &ProductDetail{
		ProductID:  productID,
		Promotions: promotions,
		Tiered:     tiered,
	}
	if gift := promotion.BuyXGetYPromotionForProductDetailPage(candidates, applicable); gift != nil {
		g := *gift
		detail.BuyXGetY = &g
	}

	return detail, nil
}

// optionalBasket loads a basket owned by userID. An empty id, an anonymous
// caller, or a basket that is missing or owned by someone else all mean no
// basket.
func (s *PromotionService) optionalBasket(ctx context.Context, basketID, userID string) (*domain.Basket, error) {
	if basketID == "" || userID == "" {
		return nil, nil
	}

	basket, err := s.ownedBasket(ctx, basketID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.DebugContext(ctx, "basket unavailable, continuing without it",
				slog.String("basket_id", basketID),
			)
			return nil, nil
		}
		return nil, err
	}
	return basket, nil
}

// ownedBasket loads a basket and hides it from everyone but its owner.
func (s *PromotionService) ownedBasket(ctx context.Context, basketID, userID string) (*domain.Basket, error) {
	basket, err := s.baskets.Get(ctx, basketID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get basket %s: %w", basketID, err)
	}
	if !basket.OwnedBy(userID) {
		s.logger.WarnContext(ctx, "basket read by non-owner rejected",
			slog.String("basket_id", basketID),
			slog.String("user_id", userID),
		)
		return nil, apperrors.NotFound("basket", basketID)
	}
	return basket, nil
}

// ActivePromotions returns the tiered and combo deal promotions active in a
// basket owned by userID, with tier progress measured against the basket
// total.
func (s *PromotionService) ActivePromotions(ctx context.Context, basketID, userID string) (_ *BasketPromotions, err error) {
	ctx, span := tracing.Start(ctx, "service", "promotion.active")
	defer func() { tracing.End(span, err) }()

	basket, err := s.ownedBasket(ctx, basketID, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	view := promotion.ActivePromotions(basket, catalog)
	progress := make(map[string]promotion.Progress)
	for i := range view.Promotions {
		p := &view.Promotions[i]
		if promotion.IsTieredPromotion(p) {
			progress[p.ID] = promotion.TierProgress(*p, basket.Total)
		}
	}

	return &BasketPromotions{
		BasketID:   basket.ID,
		ActiveView: view,
		Progress:   progress,
	}, nil
}

// ProductImages returns a product's images sorted for display along with its
// primary image.
func (s *PromotionService) ProductImages(ctx context.Context, productID int64, preferredType string) (*ProductImages, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := SortImages(product.Images, preferredType)
	return &out, nil
}

// SortImages orders images for display and picks the primary image.
func SortImages(images []domain.ProductImage, preferredType string) ProductImages {
	out := ProductImages{Images: image.Sort(images, preferredType)}
	if primary, ok := image.PrimaryImage(images, preferredType); ok {
		out.Primary = &primary
	}
	return out
}

// DistinctPrimaryImageTypes returns the primary image types used by the given
// products, in first seen order.
func (s *PromotionService) DistinctPrimaryImageTypes(ctx context.Context, productIDs []int64) ([]domain.AttributeValue, error) {
	if len(productIDs) == 0 {
		return []domain.AttributeValue{}, nil
	}

	products, err := s.products.GetProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	return image.DistinctPrimaryImageTypes(products), nil
}

// BasketQuantities returns the selectable quantity range of every line of a
// basket owned by userID.
func (s *PromotionService) BasketQuantities(ctx context.Context, basketID, userID string) ([]ItemQuantity, error) {
	basket, err := s.ownedBasket(ctx, basketID, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ItemQuantity, 0, len(basket.Items))
	for _, item := range basket.Items {
		out = append(out, ItemQuantity{
			ItemKey:     item.Key,
			Quantity:    item.Quantity,
			MaxQuantity: domain.MaxQuantity(item.AvailableQuantity),
		})
	}
	return out, nil
}

// InvalidateCatalog drops the cached catalog.
func (s *PromotionService) InvalidateCatalog(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate promotion catalog: %w", err)
	}
	s.logger.InfoContext(ctx, "promotion catalog invalidated")
	return nil
}

// StoreBasket saves a basket snapshot.
func (s *PromotionService) StoreBasket(ctx context.Context, basket *domain.Basket) error {
	if basket.UpdatedAt.IsZero() {
		basket.UpdatedAt = s.now()
	}
	return s.baskets.Save(ctx, basket)
}

// ForgetBasket removes a basket snapshot.
func (s *PromotionService) ForgetBasket(ctx context.Context, basketID string) error {
	return s.baskets.Delete(ctx, basketID)
}
