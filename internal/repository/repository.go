package repository

import (
	"context"
	"time"

	"github.com/utafrali/promotion-service/internal/domain"
)

// PromotionRepository defines read access to the promotion catalog.
type PromotionRepository interface {
	// ListActive returns the active promotions that have not ended by at,
	// including those whose window opens later, in catalog order.
	ListActive(ctx context.Context, at time.Time) ([]domain.Promotion, error)

	// GetByID retrieves a promotion by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Promotion, error)
}

// CatalogCache holds a snapshot of the active promotion catalog.
type CatalogCache interface {
	// Get returns the cached catalog. The boolean is false on a cache miss.
	Get(ctx context.Context) ([]domain.Promotion, bool, error)

	// Set replaces the cached catalog.
	Set(ctx context.Context, promotions []domain.Promotion) error

	// Invalidate drops the cached catalog.
	Invalidate(ctx context.Context) error
}

// BasketRepository defines persistence of basket snapshots.
type BasketRepository interface {
	// Get retrieves a basket by its ID.
	Get(ctx context.Context, id string) (*domain.Basket, error)

	// Save stores a basket snapshot.
	Save(ctx context.Context, basket *domain.Basket) error

	// Delete removes a basket snapshot.
	Delete(ctx context.Context, id string) error
}
