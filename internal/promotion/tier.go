package promotion

import (
	"cmp"
	"slices"

	"github.com/utafrali/promotion-service/internal/domain"
)

// TieredPromotion returns the promotion with its tiers normalized: explicit
// tiers pass through, a minimum order value becomes a single "mov" tier, and
// anything else yields an empty tier list.
func TieredPromotion(p domain.Promotion) domain.Promotion {
	if len(p.Tiers) > 0 {
		return p
	}
	if mov, ok := p.MinimumOrderValue(); ok {
		p.Tiers = []domain.PromotionTier{{
			ID:     1,
			Name:   domain.MOVTierName,
			MOV:    mov,
			Effect: p.Effect,
		}}
		return p
	}
	p.Tiers = []domain.PromotionTier{}
	return p
}

// IsTieredPromotion reports whether the promotion has tiers or a minimum order value.
func IsTieredPromotion(p *domain.Promotion) bool {
	if p == nil {
		return false
	}
	return len(TieredPromotion(*p).Tiers) > 0
}

// Progress describes how far a basket value is along a promotion's tiers.
type Progress struct {
	Reached   *domain.PromotionTier `json:"reached,omitempty"`
	Next      *domain.PromotionTier `json:"next,omitempty"`
	Remaining int64                 `json:"remaining"`
	Percent   float64               `json:"percent"`
}

// TierProgress evaluates the basket total against the promotion's normalized
// tiers in MOV order.
func TierProgress(p domain.Promotion, total int64) Progress {
	tiers := slices.Clone(TieredPromotion(p).Tiers)
	if len(tiers) == 0 {
		return Progress{}
	}
	slices.SortStableFunc(tiers, func(a, b domain.PromotionTier) int {
		return cmp.Compare(a.MOV, b.MOV)
	})

	var progress Progress
	for i := range tiers {
		if tiers[i].MOV <= total {
			progress.Reached = &tiers[i]
			continue
		}
		progress.Next = &tiers[i]
		break
	}

	if progress.Next == nil {
		progress.Percent = 100
		return progress
	}

	progress.Remaining = progress.Next.MOV - total
	if total > 0 {
		progress.Percent = float64(total) * 100 / float64(progress.Next.MOV)
	}
	return progress
}
