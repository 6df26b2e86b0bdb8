// Package promotion selects, ranks and classifies storefront promotions for
// products and baskets. Every function is pure: inputs are read-only
// snapshots and results are freshly allocated.
package promotion

import (
	"slices"

	"github.com/utafrali/promotion-service/internal/domain"
)

// PromotionsFromProductAttributes returns the product's promotion attribute values.
func PromotionsFromProductAttributes(product *domain.Product) []domain.AttributeValue {
	if product == nil {
		return []domain.AttributeValue{}
	}
	values := product.Attributes.Values(domain.AttributePromotion)
	if values == nil {
		return []domain.AttributeValue{}
	}
	return values
}

// IsConfiguredFor reports whether the promotion targets one of the given
// promotion attribute ids.
func IsConfiguredFor(p *domain.Promotion, attributeIDs []int64) bool {
	id, ok := p.AttributeID()
	if !ok {
		return false
	}
	return slices.Contains(attributeIDs, id)
}

// IsConfiguredForProduct reports whether the promotion targets the product.
func IsConfiguredForProduct(p *domain.Promotion, product *domain.Product) bool {
	return IsConfiguredFor(p, attributeIDs(product))
}

// PromotionsForProduct returns the promotions configured for the product,
// ranked by priority.
func PromotionsForProduct(product *domain.Product, promotions []domain.Promotion) []domain.Promotion {
	ids := attributeIDs(product)
	if len(ids) == 0 {
		return []domain.Promotion{}
	}

	matched := make([]domain.Promotion, 0, len(promotions))
	for i := range promotions {
		if IsConfiguredFor(&promotions[i], ids) {
			matched = append(matched, promotions[i])
		}
	}
	return Rank(matched)
}

func attributeIDs(product *domain.Product) []int64 {
	values := PromotionsFromProductAttributes(product)
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		ids = append(ids, v.ID)
	}
	return ids
}
