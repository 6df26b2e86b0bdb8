package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EffectType identifies the kind of a promotion effect.
type EffectType string

// Promotion effect types.
const (
	EffectTypeComboDeal         EffectType = "combo_deal"
	EffectTypeAutomaticDiscount EffectType = "automatic_discount"
	EffectTypeBuyXGetY          EffectType = "buy_x_get_y"
)

// ItemSelectionVariantIDs is the buy-X-get-Y selection type that names the
// discounted variants explicitly.
const ItemSelectionVariantIDs = "variant_ids"

// MOVTierName is the name of the tier synthesized from a minimum order value.
const MOVTierName = "mov"

// ValidEffectTypes returns the set of valid effect types.
func ValidEffectTypes() []EffectType {
	return []EffectType{
		EffectTypeComboDeal,
		EffectTypeAutomaticDiscount,
		EffectTypeBuyXGetY,
	}
}

// IsValidEffectType checks whether the given type is a valid effect type.
func IsValidEffectType(t EffectType) bool {
	for _, v := range ValidEffectTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Promotion is a storefront promotion as configured in the promotion catalog.
type Promotion struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Priority   int                  `json:"priority"`
	IsActive   bool                 `json:"isActive"`
	Schedule   Schedule             `json:"schedule"`
	CustomData *PromotionCustomData `json:"customData,omitempty"`
	Effect     PromotionEffect      `json:"effect"`
	Tiers      []PromotionTier      `json:"tiers,omitempty"`
}

// Schedule is the validity window of a promotion.
type Schedule struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t lies inside the window. A zero bound is open.
func (s Schedule) Contains(t time.Time) bool {
	if !s.From.IsZero() && t.Before(s.From) {
		return false
	}
	if !s.To.IsZero() && t.After(s.To) {
		return false
	}
	return true
}

// PromotionCustomData holds the merchandising fields attached to a promotion.
type PromotionCustomData struct {
	Product           *PromotionProductRef `json:"product,omitempty"`
	MinimumOrderValue *int64               `json:"minimumOrderValue,omitempty"`
	Color             *PromotionColor      `json:"color,omitempty"`
	Headline          string               `json:"headline,omitempty"`
	SubHeadline       string               `json:"subHeadline,omitempty"`
	ConditionText     string               `json:"conditionText,omitempty"`
	Link              string               `json:"link,omitempty"`
}

// PromotionProductRef links a promotion to products through a promotion
// attribute value id.
type PromotionProductRef struct {
	AttributeID *int64 `json:"attributeId,omitempty"`
}

// PromotionColor holds the display colors of a promotion.
type PromotionColor struct {
	Background *string `json:"background,omitempty"`
	Text       *string `json:"text,omitempty"`
}

// PromotionTier is one step of a tiered promotion, unlocked at MOV.
type PromotionTier struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	MOV    int64           `json:"mov"`
	Effect PromotionEffect `json:"effect"`
}

// AttributeID returns the promotion attribute id the promotion is configured for.
func (p *Promotion) AttributeID() (int64, bool) {
	if p == nil || p.CustomData == nil || p.CustomData.Product == nil || p.CustomData.Product.AttributeID == nil {
		return 0, false
	}
	return *p.CustomData.Product.AttributeID, true
}

// MinimumOrderValue returns the promotion's minimum order value, if set.
func (p *Promotion) MinimumOrderValue() (int64, bool) {
	if p == nil || p.CustomData == nil || p.CustomData.MinimumOrderValue == nil {
		return 0, false
	}
	return *p.CustomData.MinimumOrderValue, true
}

// EffectData is the kind-specific payload of a promotion effect.
type EffectData interface {
	effectType() EffectType
}

// ComboDealData grants a fixed price for a bundle of Quantity items.
type ComboDealData struct {
	Quantity int   `json:"quantity"`
	Price    int64 `json:"price"`
}

func (ComboDealData) effectType() EffectType { return EffectTypeComboDeal }

// AutomaticDiscountData is a relative or absolute discount applied automatically.
type AutomaticDiscountData struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

func (AutomaticDiscountData) effectType() EffectType { return EffectTypeAutomaticDiscount }

// BuyXGetYData describes the gift granted by a buy-X-get-Y promotion.
type BuyXGetYData struct {
	VariantIDs                  []int64 `json:"variantIds,omitempty"`
	MaxCount                    int     `json:"maxCount"`
	ApplicableItemSelectionType string  `json:"applicableItemSelectionType,omitempty"`
	DiscountType                string  `json:"discountType,omitempty"`
	DiscountValue               int64   `json:"discountValue,omitempty"`
}

func (BuyXGetYData) effectType() EffectType { return EffectTypeBuyXGetY }

// PromotionEffect is a tagged effect: Type selects the AdditionalData variant.
type PromotionEffect struct {
	Type           EffectType `json:"type"`
	AdditionalData EffectData `json:"additionalData,omitempty"`
}

// NewEffect builds an effect whose type matches the given payload.
func NewEffect(data EffectData) PromotionEffect {
	if data == nil {
		return PromotionEffect{}
	}
	return PromotionEffect{Type: data.effectType(), AdditionalData: data}
}

// BuyXGetY returns the buy-X-get-Y payload when the effect is of that kind.
func (e PromotionEffect) BuyXGetY() (BuyXGetYData, bool) {
	switch d := e.AdditionalData.(type) {
	case BuyXGetYData:
		return d, true
	case *BuyXGetYData:
		if d != nil {
			return *d, true
		}
	}
	return BuyXGetYData{}, false
}

type effectJSON struct {
	Type           EffectType      `json:"type"`
	AdditionalData json.RawMessage `json:"additionalData,omitempty"`
}

// UnmarshalJSON dispatches the additional data on the effect type.
func (e *PromotionEffect) UnmarshalJSON(data []byte) error {
	var raw effectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode promotion effect: %w", err)
	}

	e.Type = raw.Type
	e.AdditionalData = nil

	payload := raw.AdditionalData
	if len(payload) == 0 || string(payload) == "null" {
		payload = []byte("{}")
	}

	var err error
	switch raw.Type {
	case EffectTypeComboDeal:
		var d ComboDealData
		err = json.Unmarshal(payload, &d)
		e.AdditionalData = d
	case EffectTypeAutomaticDiscount:
		var d AutomaticDiscountData
		err = json.Unmarshal(payload, &d)
		e.AdditionalData = d
	case EffectTypeBuyXGetY:
		var d BuyXGetYData
		err = json.Unmarshal(payload, &d)
		e.AdditionalData = d
	case "":
		return nil
	default:
		return fmt.Errorf("unknown promotion effect type %q", raw.Type)
	}
	if err != nil {
		return fmt.Errorf("decode %s effect data: %w", raw.Type, err)
	}
	return nil
}
