package promotion

import (
	"github.com/utafrali/promotion-service/internal/domain"
)

func int64Ptr(i int64) *int64 {
	return &i
}

func productWithPromotions(id int64, attributeIDs ...int64) *domain.Product {
	values := make([]domain.AttributeValue, 0, len(attributeIDs))
	for _, aid := range attributeIDs {
		values = append(values, domain.AttributeValue{ID: aid, Label: "promo", Value: "promo"})
	}
	return &domain.Product{
		ID: id,
		Attributes: domain.Attributes{
			domain.AttributePromotion: {Key: domain.AttributePromotion, MultiSelect: true, Values: values},
		},
	}
}

func configuredPromotion(id string, priority int, attributeID int64) domain.Promotion {
	return domain.Promotion{
		ID:       id,
		Priority: priority,
		CustomData: &domain.PromotionCustomData{
			Product: &domain.PromotionProductRef{AttributeID: int64Ptr(attributeID)},
		},
		Effect: domain.NewEffect(domain.AutomaticDiscountData{Type: "relative", Value: 10}),
	}
}

func ids(promotions []domain.Promotion) []string {
	out := make([]string, 0, len(promotions))
	for _, p := range promotions {
		out = append(out, p.ID)
	}
	return out
}
