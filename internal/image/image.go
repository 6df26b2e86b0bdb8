// Package image selects and orders product images for display.
package image

import (
	"github.com/utafrali/promotion-service/internal/domain"
)

// hasType reports whether the image is tagged with the given primary image type.
func hasType(img domain.ProductImage, preferredType string) bool {
	if preferredType == "" {
		return false
	}
	t, ok := img.PrimaryImageType()
	return ok && t.Value == preferredType
}

// PrimaryImage picks the image to show first. The first image tagged with
// preferredType wins, then the first image flagged as primary, then the first
// image. An empty preferredType requests no type. It returns false only when
// images is empty.
func PrimaryImage(images []domain.ProductImage, preferredType string) (domain.ProductImage, bool) {
	if len(images) == 0 {
		return domain.ProductImage{}, false
	}

	primary := -1
	for i, img := range images {
		if hasType(img, preferredType) {
			return img, true
		}
		if primary < 0 && img.IsPrimary() {
			primary = i
		}
	}
	if primary >= 0 {
		return images[primary], true
	}
	return images[0], true
}

// Sort returns a new slice holding images tagged with preferredType first,
// then images flagged as primary, then the rest. Order within each group is
// kept. Sorting a sorted slice again is a no-op.
func Sort(images []domain.ProductImage, preferredType string) []domain.ProductImage {
	preferred := make([]domain.ProductImage, 0, len(images))
	var primary, rest []domain.ProductImage

	for _, img := range images {
		switch {
		case hasType(img, preferredType):
			preferred = append(preferred, img)
		case img.IsPrimary():
			primary = append(primary, img)
		default:
			rest = append(rest, img)
		}
	}

	out := append(preferred, primary...)
	return append(out, rest...)
}

// DistinctPrimaryImageTypes collects the primary image types used across the
// images of products, deduplicated by value id in first seen order.
func DistinctPrimaryImageTypes(products []domain.Product) []domain.AttributeValue {
	seen := make(map[int64]struct{})
	out := []domain.AttributeValue{}

	for _, p := range products {
		for _, img := range p.Images {
			t, ok := img.PrimaryImageType()
			if !ok {
				continue
			}
			if _, dup := seen[t.ID]; dup {
				continue
			}
			seen[t.ID] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
