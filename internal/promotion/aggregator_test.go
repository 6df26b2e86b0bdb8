package promotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/promotion-service/internal/domain"
)

// ============================================================================
// PromotionsForProductDetailPage
// ============================================================================

func TestPromotionsForProductDetailPage_NilProduct(t *testing.T) {
	got := PromotionsForProductDetailPage(nil, []domain.Promotion{configuredPromotion("a", 1, 10)}, nil)
	assert.Empty(t, got)
}

func TestPromotionsForProductDetailPage_WithoutBasketItem(t *testing.T) {
	product := productWithPromotions(1, 10)
	current := []domain.Promotion{
		configuredPromotion("b", 2, 10),
		configuredPromotion("a", 1, 10),
		configuredPromotion("x", 0, 99),
	}

	got := PromotionsForProductDetailPage(product, current, nil)

	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestPromotionsForProductDetailPage_BasketCopyWins(t *testing.T) {
	product := productWithPromotions(1, 10)
	catalogCopy := configuredPromotion("shared", 5, 10)
	catalogCopy.Name = "catalog"
	basketCopy := configuredPromotion("shared", 5, 10)
	basketCopy.Name = "basket"

	item := &domain.BasketItem{
		Key:     "item-1",
		Status:  domain.BasketItemStatusAvailable,
		Product: *product,
		Promotions: []domain.BasketItemPromotion{
			{Promotion: basketCopy, IsValid: true},
			{Promotion: domain.Promotion{ID: "basket-only", Priority: 1}, IsValid: true},
		},
	}

	got := PromotionsForProductDetailPage(product, []domain.Promotion{catalogCopy, configuredPromotion("catalog-only", 3, 10)}, item)

	require.Equal(t, []string{"basket-only", "catalog-only", "shared"}, ids(got))
	assert.Equal(t, "basket", got[2].Name)
}

func TestPromotionsForProductDetailPage_EmptyBasketPromotions(t *testing.T) {
	product := productWithPromotions(1, 10)
	item := &domain.BasketItem{Key: "item-1", Status: domain.BasketItemStatusAvailable, Product: *product}

	got := PromotionsForProductDetailPage(product, []domain.Promotion{configuredPromotion("a", 1, 10)}, item)

	assert.Equal(t, []string{"a"}, ids(got))
}

func TestPromotionsForProductDetailPage_UnavailableItemContributesNothing(t *testing.T) {
	product := productWithPromotions(1, 10)
	item := &domain.BasketItem{
		Key:        "item-1",
		Status:     domain.BasketItemStatusUnavailable,
		Product:    *product,
		Promotions: []domain.BasketItemPromotion{{Promotion: domain.Promotion{ID: "applied"}, IsValid: true}},
	}

	got := PromotionsForProductDetailPage(product, []domain.Promotion{configuredPromotion("a", 1, 10)}, item)

	assert.Equal(t, []string{"a"}, ids(got))
}

// ============================================================================
// Buy X Get Y
// ============================================================================

func buyXGetY(id string, priority int, data domain.BuyXGetYData) *domain.Promotion {
	return &domain.Promotion{ID: id, Priority: priority, Effect: domain.NewEffect(data)}
}

func giftData() domain.BuyXGetYData {
	return domain.BuyXGetYData{
		ApplicableItemSelectionType: domain.ItemSelectionVariantIDs,
		VariantIDs:                  []int64{1, 2, 3},
		MaxCount:                    1,
	}
}

func applicableFor(promotions ...*domain.Promotion) []domain.ApplicablePromotion {
	out := make([]domain.ApplicablePromotion, 0, len(promotions))
	for _, p := range promotions {
		out = append(out, domain.ApplicablePromotion{ItemID: "item-1", Promotion: *p})
	}
	return out
}

func TestIsBuyXGetX(t *testing.T) {
	sameItem := buyXGetY("x", 1, domain.BuyXGetYData{ApplicableItemSelectionType: "same_item"})
	assert.True(t, IsBuyXGetX(sameItem))

	noSelection := buyXGetY("y", 1, domain.BuyXGetYData{})
	assert.True(t, IsBuyXGetX(noSelection))

	gift := buyXGetY("z", 1, giftData())
	assert.False(t, IsBuyXGetX(gift))

	variantsOnly := buyXGetY("v", 1, domain.BuyXGetYData{VariantIDs: []int64{4}})
	assert.False(t, IsBuyXGetX(variantsOnly))

	assert.False(t, IsBuyXGetX(nil))
}

func TestBuyXGetYPromotionForProductDetailPage_LowestPriorityWins(t *testing.T) {
	low := buyXGetY("low", 20, giftData())
	high := buyXGetY("high", 5, giftData())

	got := BuyXGetYPromotionForProductDetailPage([]*domain.Promotion{low, high}, applicableFor(low, high))

	require.NotNil(t, got)
	assert.Equal(t, "high", got.ID)
}

func TestBuyXGetYPromotionForProductDetailPage_TieKeepsFirst(t *testing.T) {
	first := buyXGetY("first", 5, giftData())
	second := buyXGetY("second", 5, giftData())

	got := BuyXGetYPromotionForProductDetailPage([]*domain.Promotion{first, second}, applicableFor(second, first))

	require.NotNil(t, got)
	assert.Equal(t, "first", got.ID)
}

func TestBuyXGetYPromotionForProductDetailPage_Filters(t *testing.T) {
	notApplicable := buyXGetY("not-applicable", 1, giftData())
	buyXGetX := buyXGetY("bxgx", 2, domain.BuyXGetYData{})
	combo := &domain.Promotion{ID: "combo", Priority: 3, Effect: domain.NewEffect(domain.ComboDealData{Quantity: 2})}
	eligible := buyXGetY("eligible", 9, giftData())

	got := BuyXGetYPromotionForProductDetailPage(
		[]*domain.Promotion{nil, notApplicable, buyXGetX, combo, nil, eligible},
		applicableFor(buyXGetX, combo, eligible),
	)

	require.NotNil(t, got)
	assert.Equal(t, "eligible", got.ID)
}

func TestBuyXGetYPromotionForProductDetailPage_NoneQualify(t *testing.T) {
	p := buyXGetY("p", 1, giftData())

	assert.Nil(t, BuyXGetYPromotionForProductDetailPage(nil, nil))
	assert.Nil(t, BuyXGetYPromotionForProductDetailPage([]*domain.Promotion{p}, nil))
	assert.Nil(t, BuyXGetYPromotionForProductDetailPage([]*domain.Promotion{nil}, applicableFor(p)))
}

// ============================================================================
// ActivePromotions
// ============================================================================

func basketWith(items ...domain.BasketItem) *domain.Basket {
	return &domain.Basket{ID: "basket-1", Items: items}
}

func TestActivePromotions_ComboTieredAndMOV(t *testing.T) {
	combo := configuredPromotion("1", 0, 10)
	combo.Effect = domain.NewEffect(domain.ComboDealData{Quantity: 2, Price: 3000})

	tiered := configuredPromotion("2", 0, 11)
	tiered.Tiers = []domain.PromotionTier{{ID: 1, MOV: 10000}}

	mov := configuredPromotion("3", 0, 12)
	mov.CustomData.MinimumOrderValue = int64Ptr(10000)

	basket := basketWith(domain.BasketItem{
		Key:     "item-1",
		Status:  domain.BasketItemStatusAvailable,
		Product: *productWithPromotions(1, 10, 11, 12),
	})

	view := ActivePromotions(basket, []domain.Promotion{combo, tiered, mov})

	assert.Equal(t, []string{"1", "2", "3"}, ids(view.Promotions))
	assert.Equal(t, []string{"item-1"}, view.ItemsByPromotion["1"])
}

func TestActivePromotions_ExcludesPlainDiscounts(t *testing.T) {
	plain := configuredPromotion("plain", 0, 10)
	gift := configuredPromotion("gift", 0, 10)
	gift.Effect = domain.NewEffect(giftData())
	tieredGift := configuredPromotion("tiered-gift", 0, 10)
	tieredGift.Effect = domain.NewEffect(giftData())
	tieredGift.CustomData.MinimumOrderValue = int64Ptr(0)

	basket := basketWith(domain.BasketItem{
		Key:     "item-1",
		Status:  domain.BasketItemStatusAvailable,
		Product: *productWithPromotions(1, 10),
	})

	view := ActivePromotions(basket, []domain.Promotion{plain, gift, tieredGift})

	assert.Equal(t, []string{"tiered-gift"}, ids(view.Promotions))
}

func TestActivePromotions_AppliedPromotion(t *testing.T) {
	applied := domain.Promotion{ID: "applied", Effect: domain.NewEffect(domain.ComboDealData{Quantity: 3})}
	invalid := domain.Promotion{ID: "invalid", Effect: domain.NewEffect(domain.ComboDealData{Quantity: 3})}

	basket := basketWith(domain.BasketItem{
		Key:     "item-1",
		Status:  domain.BasketItemStatusAvailable,
		Product: domain.Product{ID: 1},
		Promotions: []domain.BasketItemPromotion{
			{Promotion: applied, IsValid: true},
			{Promotion: invalid, IsValid: false},
		},
	})

	view := ActivePromotions(basket, []domain.Promotion{invalid, applied})

	assert.Equal(t, []string{"applied"}, ids(view.Promotions))
}

func TestActivePromotions_UnavailableItemsIgnored(t *testing.T) {
	combo := configuredPromotion("combo", 0, 10)
	combo.Effect = domain.NewEffect(domain.ComboDealData{Quantity: 2})

	basket := basketWith(
		domain.BasketItem{
			Key:        "gone",
			Status:     domain.BasketItemStatusUnavailable,
			Product:    *productWithPromotions(1, 10),
			Promotions: []domain.BasketItemPromotion{{Promotion: combo, IsValid: true}},
		},
	)

	view := ActivePromotions(basket, []domain.Promotion{combo})

	assert.Empty(t, view.Promotions)
	assert.Empty(t, view.ItemsByPromotion)
}

func TestActivePromotions_RecordsEveryMatchingItem(t *testing.T) {
	combo := configuredPromotion("combo", 0, 10)
	combo.Effect = domain.NewEffect(domain.ComboDealData{Quantity: 2})

	basket := basketWith(
		domain.BasketItem{Key: "first", Status: domain.BasketItemStatusAvailable, Product: *productWithPromotions(1, 10)},
		domain.BasketItem{Key: "other", Status: domain.BasketItemStatusAvailable, Product: *productWithPromotions(2, 99)},
		domain.BasketItem{Key: "second", Status: domain.BasketItemStatusAvailable, Product: *productWithPromotions(3, 10)},
	)

	view := ActivePromotions(basket, []domain.Promotion{combo})

	assert.Equal(t, []string{"first", "second"}, view.ItemsByPromotion["combo"])
}

func TestActivePromotions_NilBasket(t *testing.T) {
	view := ActivePromotions(nil, []domain.Promotion{configuredPromotion("a", 0, 10)})

	assert.NotNil(t, view.Promotions)
	assert.Empty(t, view.Promotions)
}

func TestClassification(t *testing.T) {
	combo := &domain.Promotion{Effect: domain.NewEffect(domain.ComboDealData{})}
	discount := &domain.Promotion{Effect: domain.NewEffect(domain.AutomaticDiscountData{})}
	gift := &domain.Promotion{Effect: domain.NewEffect(domain.BuyXGetYData{})}

	assert.True(t, IsComboDeal(combo))
	assert.False(t, IsComboDeal(discount))
	assert.True(t, IsAutomaticDiscount(discount))
	assert.True(t, IsBuyXGetY(gift))
	assert.False(t, IsBuyXGetY(nil))
}
