package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/promotion-service/internal/domain"
	"github.com/utafrali/promotion-service/pkg/database"
	apperrors "github.com/utafrali/promotion-service/pkg/errors"
)

const promotionColumns = `id, name, priority, is_active, starts_at, ends_at, custom_data, effect, tiers`

// PromotionRepository implements repository.PromotionRepository using PostgreSQL.
type PromotionRepository struct {
	pool database.DBTX
}

// NewPromotionRepository creates a new PostgreSQL-backed promotion repository.
func NewPromotionRepository(pool database.DBTX) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// ListActive returns active promotions that have not ended by at, ordered by
// catalog position. Promotions scheduled to start later are included.
func (r *PromotionRepository) ListActive(ctx context.Context, at time.Time) (promotions []domain.Promotion, err error) {
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		WHERE is_active = TRUE
		  AND (ends_at IS NULL OR ends_at >= $1)
		ORDER BY position, id`

	ctx, end := database.TraceQuery(ctx, "ListActivePromotions", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("list active promotions: %w", err)
	}
	defer rows.Close()

	promotions = []domain.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotion rows: %w", err)
	}

	return promotions, nil
}

// GetByID retrieves a promotion by its ID.
func (r *PromotionRepository) GetByID(ctx context.Context, id string) (p *domain.Promotion, err error) {
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetPromotion", query)
	defer func() { end(err) }()

	p, err = scanPromotion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("promotion", id)
		}
		return nil, err
	}
	return p, nil
}

// scanPromotion decodes one promotion row including its JSONB columns.
func scanPromotion(row pgx.Row) (*domain.Promotion, error) {
	var (
		p              domain.Promotion
		startsAt       *time.Time
		endsAt         *time.Time
		customDataJSON []byte
		effectJSON     []byte
		tiersJSON      []byte
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Priority,
		&p.IsActive,
		&startsAt,
		&endsAt,
		&customDataJSON,
		&effectJSON,
		&tiersJSON,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan promotion: %w", err)
	}

	if startsAt != nil {
		p.Schedule.From = startsAt.UTC()
	}
	if endsAt != nil {
		p.Schedule.To = endsAt.UTC()
	}

	if len(customDataJSON) > 0 && string(customDataJSON) != "null" {
		var data domain.PromotionCustomData
		if err := json.Unmarshal(customDataJSON, &data); err != nil {
			return nil, fmt.Errorf("unmarshal custom_data of promotion %s: %w", p.ID, err)
		}
		p.CustomData = &data
	}

	if len(effectJSON) > 0 {
		if err := json.Unmarshal(effectJSON, &p.Effect); err != nil {
			return nil, fmt.Errorf("unmarshal effect of promotion %s: %w", p.ID, err)
		}
	}

	if len(tiersJSON) > 0 {
		if err := json.Unmarshal(tiersJSON, &p.Tiers); err != nil {
			return nil, fmt.Errorf("unmarshal tiers of promotion %s: %w", p.ID, err)
		}
	}
	if p.Tiers == nil {
		p.Tiers = []domain.PromotionTier{}
	}

	return &p, nil
}
