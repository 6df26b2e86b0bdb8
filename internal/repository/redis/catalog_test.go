package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/promotion-service/internal/domain"
)

func setupTestRedis(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func sampleCatalog() []domain.Promotion {
	attributeID := int64(42)
	mov := int64(0)
	return []domain.Promotion{
		{
			ID:       "promo-1",
			Name:     "Two for 30",
			Priority: 2,
			IsActive: true,
			CustomData: &domain.PromotionCustomData{
				Product: &domain.PromotionProductRef{AttributeID: &attributeID},
			},
			Effect: domain.NewEffect(domain.ComboDealData{Quantity: 2, Price: 3000}),
		},
		{
			ID:         "promo-2",
			Priority:   1,
			CustomData: &domain.PromotionCustomData{MinimumOrderValue: &mov},
			Effect: domain.NewEffect(domain.BuyXGetYData{
				ApplicableItemSelectionType: domain.ItemSelectionVariantIDs,
				VariantIDs:                  []int64{1, 2},
				MaxCount:                    1,
			}),
		},
	}
}

// ---------------------------------------------------------------------------
// CatalogCache
// ---------------------------------------------------------------------------

func TestCatalogCache_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewCatalogCache(client, time.Minute)

	got, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCatalogCache_SetAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewCatalogCache(client, 5*time.Minute)

	require.NoError(t, cache.Set(context.Background(), sampleCatalog()))
	assert.True(t, mr.Exists(CatalogKey))
	assert.Equal(t, 5*time.Minute, mr.TTL(CatalogKey))

	got, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)

	assert.Equal(t, "promo-1", got[0].ID)
	attributeID, ok := got[0].AttributeID()
	require.True(t, ok)
	assert.Equal(t, int64(42), attributeID)
	assert.Equal(t, domain.ComboDealData{Quantity: 2, Price: 3000}, got[0].Effect.AdditionalData)

	data, ok := got[1].Effect.BuyXGetY()
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2}, data.VariantIDs)
	mov, ok := got[1].MinimumOrderValue()
	require.True(t, ok)
	assert.Equal(t, int64(0), mov)
}

func TestCatalogCache_EmptyCatalogIsAHit(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewCatalogCache(client, time.Minute)

	require.NoError(t, cache.Set(context.Background(), nil))

	got, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalogCache_Expires(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewCatalogCache(client, time.Minute)

	require.NoError(t, cache.Set(context.Background(), sampleCatalog()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogCache_Invalidate(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewCatalogCache(client, time.Minute)

	require.NoError(t, cache.Set(context.Background(), sampleCatalog()))
	require.NoError(t, cache.Invalidate(context.Background()))
	assert.False(t, mr.Exists(CatalogKey))

	// Invalidating an absent key is not an error.
	require.NoError(t, cache.Invalidate(context.Background()))
}

func TestCatalogCache_InvalidJSON(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewCatalogCache(client, time.Minute)

	require.NoError(t, mr.Set(CatalogKey, "{{broken"))

	_, ok, err := cache.Get(context.Background())
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "unmarshal catalog")
}

func TestCatalogCache_ConnectionError(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewCatalogCache(client, time.Minute)
	mr.Close()

	_, _, err := cache.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get catalog")
}
