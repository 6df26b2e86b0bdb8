package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/promotion-service/internal/domain"
	pkgkafka "github.com/utafrali/promotion-service/pkg/kafka"
	"github.com/utafrali/promotion-service/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------------------------------------------------------------------------
// mocks
// ---------------------------------------------------------------------------

type mockService struct {
	mock.Mock
}

func (m *mockService) InvalidateCatalog(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockService) StoreBasket(ctx context.Context, basket *domain.Basket) error {
	return m.Called(ctx, basket).Error(0)
}

func (m *mockService) ForgetBasket(ctx context.Context, basketID string) error {
	return m.Called(ctx, basketID).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	return m.Called(ctx, topic, event).Error(0)
}

func newEvent(t *testing.T, eventType, aggregateID string, data any) *pkgkafka.Event {
	t.Helper()
	e, err := pkgkafka.NewEvent(eventType, aggregateID, "test", "test", data)
	require.NoError(t, err)
	return e
}

// ---------------------------------------------------------------------------
// Consumer
// ---------------------------------------------------------------------------

func TestConsumer_HandleCampaignChanged(t *testing.T) {
	svc := new(mockService)
	svc.On("InvalidateCatalog", mock.Anything).Return(nil)
	c := NewConsumer(svc, testLogger())

	err := c.HandleCampaignChanged(context.Background(), newEvent(t, TopicCampaignUpdated, "camp-1", CampaignChangedData{ID: "camp-1"}))

	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestConsumer_HandleCampaignChanged_ServiceError(t *testing.T) {
	svc := new(mockService)
	svc.On("InvalidateCatalog", mock.Anything).Return(errors.New("redis down"))
	c := NewConsumer(svc, testLogger())

	err := c.HandleCampaignChanged(context.Background(), newEvent(t, TopicCampaignCreated, "camp-1", CampaignChangedData{ID: "camp-1"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "camp-1")
}

func TestConsumer_HandleCampaignChanged_BadPayload(t *testing.T) {
	svc := new(mockService)
	c := NewConsumer(svc, testLogger())

	event := &pkgkafka.Event{EventType: TopicCampaignUpdated, Data: json.RawMessage(`"nope"`)}
	err := c.HandleCampaignChanged(context.Background(), event)

	require.Error(t, err)
	svc.AssertNotCalled(t, "InvalidateCatalog", mock.Anything)
}

func TestConsumer_HandleBasketUpdated(t *testing.T) {
	svc := new(mockService)
	svc.On("StoreBasket", mock.Anything, mock.MatchedBy(func(b *domain.Basket) bool {
		return b.ID == "basket-1" && len(b.Items) == 1 && b.Items[0].Key == "item-1"
	})).Return(nil)
	c := NewConsumer(svc, testLogger())

	basket := domain.Basket{Items: []domain.BasketItem{{Key: "item-1", Status: domain.BasketItemStatusAvailable}}}
	err := c.HandleBasketUpdated(context.Background(), newEvent(t, TopicBasketUpdated, "basket-1", basket))

	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestConsumer_HandleBasketUpdated_Owner(t *testing.T) {
	t.Run("from payload", func(t *testing.T) {
		svc := new(mockService)
		svc.On("StoreBasket", mock.Anything, mock.MatchedBy(func(b *domain.Basket) bool {
			return b.UserID == "user-1"
		})).Return(nil)
		c := NewConsumer(svc, testLogger())

		e := newEvent(t, TopicBasketUpdated, "basket-1", domain.Basket{UserID: "user-1"})
		e.Metadata = map[string]string{MetadataUserID: "user-2"}
		require.NoError(t, c.HandleBasketUpdated(context.Background(), e))
		svc.AssertExpectations(t)
	})

	t.Run("from metadata", func(t *testing.T) {
		svc := new(mockService)
		svc.On("StoreBasket", mock.Anything, mock.MatchedBy(func(b *domain.Basket) bool {
			return b.UserID == "user-2"
		})).Return(nil)
		c := NewConsumer(svc, testLogger())

		e := newEvent(t, TopicBasketUpdated, "basket-1", domain.Basket{})
		e.Metadata = map[string]string{MetadataUserID: "user-2"}
		require.NoError(t, c.HandleBasketUpdated(context.Background(), e))
		svc.AssertExpectations(t)
	})
}

func TestConsumer_HandleBasketCleared(t *testing.T) {
	svc := new(mockService)
	svc.On("ForgetBasket", mock.Anything, "basket-9").Return(nil)
	c := NewConsumer(svc, testLogger())

	err := c.HandleBasketCleared(context.Background(), newEvent(t, TopicBasketCleared, "basket-9", BasketClearedData{}))

	require.NoError(t, err)
	svc.AssertExpectations(t)
}

// ---------------------------------------------------------------------------
// Producer
// ---------------------------------------------------------------------------

func TestProducer_PublishCatalogLoaded(t *testing.T) {
	pub := new(mockPublisher)
	loadedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	pub.On("Publish", mock.Anything, TopicCatalogLoaded, mock.MatchedBy(func(e *pkgkafka.Event) bool {
		data, err := pkgkafka.DecodeData[CatalogLoadedData](e)
		if err != nil {
			return false
		}
		return e.Source == SourcePromotionService &&
			data.Count == 2 &&
			assert.ObjectsAreEqual([]string{"a", "b"}, data.PromotionIDs) &&
			data.LoadedAt.Equal(loadedAt)
	})).Return(nil)

	p := &Producer{kafka: pub, logger: testLogger()}
	err := p.PublishCatalogLoaded(context.Background(), []domain.Promotion{{ID: "a"}, {ID: "b"}}, loadedAt)

	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestProducer_PublishCatalogLoaded_CorrelationID(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicCatalogLoaded, mock.MatchedBy(func(e *pkgkafka.Event) bool {
		return e.CorrelationID == "req-42"
	})).Return(nil)

	p := &Producer{kafka: pub, logger: testLogger()}
	ctx := logger.WithCorrelationID(context.Background(), "req-42")

	require.NoError(t, p.PublishCatalogLoaded(ctx, nil, time.Now()))
	pub.AssertExpectations(t)
}

func TestProducer_PublishCatalogLoaded_Error(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicCatalogLoaded, mock.Anything).Return(errors.New("broker down"))

	p := &Producer{kafka: pub, logger: testLogger()}
	err := p.PublishCatalogLoaded(context.Background(), nil, time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog_loaded")
}
