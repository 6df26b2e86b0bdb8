package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/promotion-service/internal/domain"
)

// CatalogKey is the key holding the current promotion catalog snapshot.
const CatalogKey = "promotions:current"

// CatalogCache implements repository.CatalogCache using Redis.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a new Redis-backed catalog cache.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached catalog, reporting false on a miss.
func (c *CatalogCache) Get(ctx context.Context) ([]domain.Promotion, bool, error) {
	data, err := c.client.Get(ctx, CatalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get catalog: %w", err)
	}

	var promotions []domain.Promotion
	if err := json.Unmarshal(data, &promotions); err != nil {
		return nil, false, fmt.Errorf("unmarshal catalog: %w", err)
	}
	if promotions == nil {
		promotions = []domain.Promotion{}
	}

	return promotions, true, nil
}

// Set stores the catalog with the configured TTL.
func (c *CatalogCache) Set(ctx context.Context, promotions []domain.Promotion) error {
	if promotions == nil {
		promotions = []domain.Promotion{}
	}

	data, err := json.Marshal(promotions)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := c.client.Set(ctx, CatalogKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set catalog: %w", err)
	}

	return nil
}

// Invalidate removes the cached catalog.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, CatalogKey).Err(); err != nil {
		return fmt.Errorf("redis del catalog: %w", err)
	}

	return nil
}
