package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/promotion-service/internal/domain"
	pkgkafka "github.com/utafrali/promotion-service/pkg/kafka"
	"github.com/utafrali/promotion-service/pkg/logger"
)

// Kafka topics published by the promotion service.
const (
	TopicCatalogLoaded = "ecommerce.promotion.catalog_loaded"
)

// Aggregate type constant.
const AggregateTypeCatalog = "promotion_catalog"

// SourcePromotionService identifies events originating from this service.
const SourcePromotionService = "promotion-service"

// CatalogLoadedData is the payload for a promotion.catalog_loaded event.
type CatalogLoadedData struct {
	PromotionIDs []string  `json:"promotion_ids"`
	Count        int       `json:"count"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// publisher is the subset of *pkgkafka.Producer used here.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes promotion domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the promotion service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCatalogLoaded announces that the current catalog was reloaded from
// the database.
func (p *Producer) PublishCatalogLoaded(ctx context.Context, promotions []domain.Promotion, loadedAt time.Time) error {
	ids := make([]string, 0, len(promotions))
	for _, promo := range promotions {
		ids = append(ids, promo.ID)
	}

	data := CatalogLoadedData{
		PromotionIDs: ids,
		Count:        len(ids),
		LoadedAt:     loadedAt.UTC(),
	}

	event, err := pkgkafka.NewEvent(TopicCatalogLoaded, "current", AggregateTypeCatalog, SourcePromotionService, data)
	if err != nil {
		return fmt.Errorf("create promotion.catalog_loaded event: %w", err)
	}

	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicCatalogLoaded, event); err != nil {
		return fmt.Errorf("publish promotion.catalog_loaded event: %w", err)
	}

	p.logger.DebugContext(ctx, "published promotion.catalog_loaded event",
		slog.Int("count", len(ids)),
	)

	return nil
}
