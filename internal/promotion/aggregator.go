package promotion

import (
	"slices"

	"github.com/utafrali/promotion-service/internal/domain"
)

// IsComboDeal reports whether the promotion grants a bundle price.
func IsComboDeal(p *domain.Promotion) bool {
	return p != nil && p.Effect.Type == domain.EffectTypeComboDeal
}

// IsAutomaticDiscount reports whether the promotion is a plain automatic discount.
func IsAutomaticDiscount(p *domain.Promotion) bool {
	return p != nil && p.Effect.Type == domain.EffectTypeAutomaticDiscount
}

// IsBuyXGetY reports whether the promotion grants a gift on purchase.
func IsBuyXGetY(p *domain.Promotion) bool {
	return p != nil && p.Effect.Type == domain.EffectTypeBuyXGetY
}

// IsBuyXGetX reports whether the discounted item is the purchased item itself,
// i.e. the promotion names no gift variants.
func IsBuyXGetX(p *domain.Promotion) bool {
	if p == nil {
		return false
	}
	data, _ := p.Effect.BuyXGetY()
	return data.ApplicableItemSelectionType != domain.ItemSelectionVariantIDs && len(data.VariantIDs) == 0
}

// PromotionsForProductDetailPage returns the promotions to present on a
// product's detail page. Promotions already attached to the product's basket
// line come first and win over catalog copies with the same id; the result is
// ranked by priority.
func PromotionsForProductDetailPage(product *domain.Product, current []domain.Promotion, basketItem *domain.BasketItem) []domain.Promotion {
	if product == nil {
		return []domain.Promotion{}
	}

	productPromotions := PromotionsForProduct(product, current)
	if basketItem == nil {
		return productPromotions
	}

	combined := make([]domain.Promotion, 0, len(basketItem.Promotions)+len(productPromotions))
	if basketItem.IsAvailable() {
		for _, bp := range basketItem.Promotions {
			combined = append(combined, bp.Promotion)
		}
	}
	combined = append(combined, productPromotions...)

	return Rank(uniqueByID(combined))
}

// BuyXGetYPromotionForProductDetailPage picks the most important buy-X-get-Y
// promotion whose gift is currently applicable. Buy-X-get-X promotions and nil
// entries are skipped. It returns nil when nothing qualifies.
func BuyXGetYPromotionForProductDetailPage(promotions []*domain.Promotion, applicable []domain.ApplicablePromotion) *domain.Promotion {
	var best *domain.Promotion
	for _, p := range promotions {
		if p == nil || !IsBuyXGetY(p) || IsBuyXGetX(p) || !isApplicable(p, applicable) {
			continue
		}
		// strict comparison keeps the first of equal priorities
		if best == nil || p.Priority < best.Priority {
			best = p
		}
	}
	return best
}

// ActiveView is the set of promotions highlighted for a basket.
type ActiveView struct {
	Promotions []domain.Promotion `json:"promotions"`
	// ItemsByPromotion maps a promotion id to the keys of the available
	// basket lines it is configured for or applied to, in basket order.
	ItemsByPromotion map[string][]string `json:"itemsByPromotion"`
}

// ActivePromotions returns the catalog promotions that are configured for, or
// applied to, an available basket line and that are tiered, minimum order
// value or combo deal promotions. Catalog order is preserved.
func ActivePromotions(basket *domain.Basket, catalog []domain.Promotion) ActiveView {
	view := ActiveView{
		Promotions:       []domain.Promotion{},
		ItemsByPromotion: map[string][]string{},
	}
	if basket == nil {
		return view
	}

	for i := range catalog {
		p := &catalog[i]
		if !IsTieredPromotion(p) && !IsComboDeal(p) {
			continue
		}

		var keys []string
		for j := range basket.Items {
			item := &basket.Items[j]
			if !item.IsAvailable() {
				continue
			}
			if IsConfiguredForProduct(p, &item.Product) || isAppliedTo(p, item) {
				keys = append(keys, item.Key)
			}
		}
		if len(keys) == 0 {
			continue
		}

		view.Promotions = append(view.Promotions, *p)
		view.ItemsByPromotion[p.ID] = keys
	}
	return view
}

func isAppliedTo(p *domain.Promotion, item *domain.BasketItem) bool {
	return slices.ContainsFunc(item.Promotions, func(bp domain.BasketItemPromotion) bool {
		return bp.IsValid && bp.ID == p.ID
	})
}

func isApplicable(p *domain.Promotion, applicable []domain.ApplicablePromotion) bool {
	return slices.ContainsFunc(applicable, func(ap domain.ApplicablePromotion) bool {
		return ap.Promotion.ID == p.ID
	})
}

func uniqueByID(promotions []domain.Promotion) []domain.Promotion {
	seen := make(map[string]struct{}, len(promotions))
	out := make([]domain.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
