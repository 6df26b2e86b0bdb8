package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/promotion-service/internal/domain"
	apperrors "github.com/utafrali/promotion-service/pkg/errors"
)

const basketKeyPrefix = "basket:"

// BasketRepository implements repository.BasketRepository using Redis.
type BasketRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBasketRepository creates a new Redis-backed basket repository.
func NewBasketRepository(client *redis.Client, ttl time.Duration) *BasketRepository {
	return &BasketRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a basket snapshot by ID.
func (r *BasketRepository) Get(ctx context.Context, id string) (*domain.Basket, error) {
	data, err := r.client.Get(ctx, basketKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("basket", id)
		}
		return nil, fmt.Errorf("redis get basket: %w", err)
	}

	var basket domain.Basket
	if err := json.Unmarshal(data, &basket); err != nil {
		return nil, fmt.Errorf("unmarshal basket: %w", err)
	}

	return &basket, nil
}

// Save persists a basket snapshot with the configured TTL.
func (r *BasketRepository) Save(ctx context.Context, basket *domain.Basket) error {
	if basket == nil || basket.ID == "" {
		return apperrors.InvalidInput("basket id is required")
	}

	data, err := json.Marshal(basket)
	if err != nil {
		return fmt.Errorf("marshal basket: %w", err)
	}

	if err := r.client.Set(ctx, basketKeyPrefix+basket.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set basket: %w", err)
	}

	return nil
}

// Delete removes a basket snapshot by ID.
func (r *BasketRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, basketKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del basket: %w", err)
	}

	return nil
}
