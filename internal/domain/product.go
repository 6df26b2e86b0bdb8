package domain

// Product is a read-only catalog snapshot of a product as delivered by the
// product service.
type Product struct {
	ID         int64          `json:"id"`
	IsActive   bool           `json:"isActive"`
	IsSoldOut  bool           `json:"isSoldOut"`
	Attributes Attributes     `json:"attributes,omitempty"`
	Images     []ProductImage `json:"images"`
	Siblings   []Product      `json:"siblings,omitempty"`
}

// ProductImage is an image of a product, identified by its CDN hash.
type ProductImage struct {
	Hash       string     `json:"hash"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// IsPrimary reports whether the image carries the primaryImage flag.
func (i ProductImage) IsPrimary() bool {
	return i.Attributes.Flag(AttributePrimaryImage)
}

// PrimaryImageType returns the image's primaryImageType tag, if any.
func (i ProductImage) PrimaryImageType() (AttributeValue, bool) {
	return i.Attributes.First(AttributePrimaryImageType)
}
