package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/promotion-service/internal/domain"
	pkgkafka "github.com/utafrali/promotion-service/pkg/kafka"
)

// Kafka topics consumed by the promotion service.
const (
	TopicCampaignCreated = "ecommerce.campaign.created"
	TopicCampaignUpdated = "ecommerce.campaign.updated"
	TopicBasketUpdated   = "ecommerce.basket.updated"
	TopicBasketCleared   = "ecommerce.basket.cleared"
)

// MetadataUserID is the event metadata key naming the basket owner when the
// payload does not carry one.
const MetadataUserID = "user_id"

// PromotionService defines the interface required by the event consumer.
type PromotionService interface {
	InvalidateCatalog(ctx context.Context) error
	StoreBasket(ctx context.Context, basket *domain.Basket) error
	ForgetBasket(ctx context.Context, basketID string) error
}

// CampaignChangedData is the part of a campaign.created or campaign.updated
// payload the promotion service reads.
type CampaignChangedData struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// BasketClearedData is the payload of a basket.cleared event.
type BasketClearedData struct {
	BasketID string `json:"basket_id"`
}

// Consumer processes incoming Kafka events for the promotion service.
type Consumer struct {
	logger  *slog.Logger
	service PromotionService
}

// NewConsumer creates a new event consumer for the promotion service.
func NewConsumer(service PromotionService, logger *slog.Logger) *Consumer {
	return &Consumer{
		service: service,
		logger:  logger,
	}
}

// HandleCampaignChanged drops the cached catalog so the next read reloads it.
func (c *Consumer) HandleCampaignChanged(ctx context.Context, event *pkgkafka.Event) error {
	data, err := pkgkafka.DecodeData[CampaignChangedData](event)
	if err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "campaign changed, invalidating promotion catalog",
		slog.String("event_type", event.EventType),
		slog.String("campaign_id", data.ID),
		slog.String("status", data.Status),
	)

	if err := c.service.InvalidateCatalog(ctx); err != nil {
		return fmt.Errorf("invalidate catalog for campaign %s: %w", data.ID, err)
	}

	return nil
}

// HandleBasketUpdated stores the basket snapshot carried by the event.
func (c *Consumer) HandleBasketUpdated(ctx context.Context, event *pkgkafka.Event) error {
	basket, err := pkgkafka.DecodeData[domain.Basket](event)
	if err != nil {
		return err
	}
	if basket.ID == "" {
		basket.ID = event.AggregateID
	}
	if basket.UserID == "" {
		basket.UserID = event.Metadata[MetadataUserID]
	}
	if basket.UserID == "" {
		c.logger.WarnContext(ctx, "basket event carries no owner, snapshot will not be served",
			slog.String("basket_id", basket.ID),
		)
	}

	if err := c.service.StoreBasket(ctx, &basket); err != nil {
		return fmt.Errorf("store basket %s: %w", basket.ID, err)
	}

	c.logger.DebugContext(ctx, "basket snapshot stored",
		slog.String("basket_id", basket.ID),
		slog.Int("items", len(basket.Items)),
	)

	return nil
}

// HandleBasketCleared removes the basket snapshot.
func (c *Consumer) HandleBasketCleared(ctx context.Context, event *pkgkafka.Event) error {
	data, err := pkgkafka.DecodeData[BasketClearedData](event)
	if err != nil {
		return err
	}
	if data.BasketID == "" {
		data.BasketID = event.AggregateID
	}

	if err := c.service.ForgetBasket(ctx, data.BasketID); err != nil {
		return fmt.Errorf("forget basket %s: %w", data.BasketID, err)
	}

	return nil
}
