package display

import (
	"fmt"

	"github.com/utafrali/promotion-service/internal/domain"
	apperrors "github.com/utafrali/promotion-service/pkg/errors"
)

// Default colors used when a promotion carries none.
const (
	DefaultBackgroundColor = "#000000"
	DefaultTextColor       = "#ffffff"
)

// Style is a single CSS declaration.
type Style struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

func (s Style) String() string {
	return s.Property + ": " + s.Value
}

// BackgroundColorStyle returns the background-color declaration for color.
// A nil or empty color yields the default.
func BackgroundColorStyle(color *string) (Style, error) {
	return colorStyle("background-color", color, DefaultBackgroundColor)
}

// TextColorStyle returns the color declaration for color. A nil or empty
// color yields the default.
func TextColorStyle(color *string) (Style, error) {
	return colorStyle("color", color, DefaultTextColor)
}

func colorStyle(property string, color *string, fallback string) (Style, error) {
	if color == nil || *color == "" {
		return Style{Property: property, Value: fallback}, nil
	}

	c, err := ParseColor(*color)
	if err != nil {
		appErr := apperrors.InvalidInput(fmt.Sprintf("Unable to parse color from string: %s", *color))
		appErr.Err = fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
		return Style{}, appErr
	}
	return Style{Property: property, Value: c.Hex()}, nil
}

// PromotionStyle holds the rendered colors of a promotion.
type PromotionStyle struct {
	Background Style `json:"background"`
	Text       Style `json:"text"`
}

// PromotionStyles renders both colors of a promotion.
func PromotionStyles(p domain.Promotion) (PromotionStyle, error) {
	var background, text *string
	if p.CustomData != nil && p.CustomData.Color != nil {
		background = p.CustomData.Color.Background
		text = p.CustomData.Color.Text
	}

	bg, err := BackgroundColorStyle(background)
	if err != nil {
		return PromotionStyle{}, err
	}
	fg, err := TextColorStyle(text)
	if err != nil {
		return PromotionStyle{}, err
	}
	return PromotionStyle{Background: bg, Text: fg}, nil
}
