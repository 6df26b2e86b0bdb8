package domain

import "time"

// BasketItemStatus is the availability status of a basket line.
type BasketItemStatus string

// Basket item statuses.
const (
	BasketItemStatusAvailable   BasketItemStatus = "available"
	BasketItemStatusUnavailable BasketItemStatus = "unavailable"
)

// MaxItemQuantity caps the quantity selectable for a single basket line.
const MaxItemQuantity = 10

// Basket is a customer's basket snapshot. UserID is the owner; a basket
// without one belongs to nobody and is never served.
type Basket struct {
	ID                   string                `json:"id"`
	UserID               string                `json:"userId,omitempty"`
	Items                []BasketItem          `json:"items"`
	ApplicablePromotions []ApplicablePromotion `json:"applicablePromotions,omitempty"`
	Total                int64                 `json:"total"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// BasketItem is a single basket line.
type BasketItem struct {
	Key               string                `json:"key"`
	Product           Product               `json:"product"`
	Status            BasketItemStatus      `json:"status"`
	Quantity          int                   `json:"quantity"`
	AvailableQuantity *int                  `json:"availableQuantity,omitempty"`
	Promotions        []BasketItemPromotion `json:"promotions,omitempty"`
}

// IsAvailable reports whether the line can be ordered.
func (i *BasketItem) IsAvailable() bool {
	return i != nil && i.Status == BasketItemStatusAvailable
}

// BasketItemPromotion is a promotion attached to a basket line.
type BasketItemPromotion struct {
	Promotion
	IsValid          bool     `json:"isValid"`
	FailedConditions []string `json:"failedConditions,omitempty"`
}

// ApplicablePromotion pairs a basket line with a promotion whose conditions are
// currently satisfiable for it.
type ApplicablePromotion struct {
	ItemID    string    `json:"itemId"`
	Promotion Promotion `json:"promotion"`
}

// OwnedBy reports whether the basket belongs to userID.
func (b *Basket) OwnedBy(userID string) bool {
	return b != nil && userID != "" && b.UserID == userID
}

// FindItemByProduct returns the first line holding the given product.
func (b *Basket) FindItemByProduct(productID int64) *BasketItem {
	if b == nil {
		return nil
	}
	for i := range b.Items {
		if b.Items[i].Product.ID == productID {
			return &b.Items[i]
		}
	}
	return nil
}

// MaxQuantity returns the quantity a customer may select for a line given the
// available stock. Unknown stock allows one item.
func MaxQuantity(available *int) int {
	if available == nil {
		return 1
	}
	switch q := *available; {
	case q < 0:
		return 0
	case q > MaxItemQuantity:
		return MaxItemQuantity
	default:
		return q
	}
}
