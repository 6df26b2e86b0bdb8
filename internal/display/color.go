// Package display renders the presentation attributes of promotions.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS color: #rgb, #rrggbb, rgb(r, g, b) or a named color.
func ParseColor(s string) (colorful.Color, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	switch {
	case in == "":
		return colorful.Color{}, fmt.Errorf("empty color")
	case strings.HasPrefix(in, "#"):
		return colorful.Hex(in)
	case strings.HasPrefix(in, "rgb(") && strings.HasSuffix(in, ")"):
		return parseRGB(strings.TrimSuffix(strings.TrimPrefix(in, "rgb("), ")"))
	}

	named, ok := colornames.Map[in]
	if !ok {
		return colorful.Color{}, fmt.Errorf("unknown color name %q", in)
	}
	c, _ := colorful.MakeColor(named)
	return c, nil
}

func parseRGB(args string) (colorful.Color, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return colorful.Color{}, fmt.Errorf("rgb() takes 3 components, got %d", len(parts))
	}

	var channels [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("rgb() component %d: %w", i+1, err)
		}
		channels[i] = uint8(v)
	}
	return colorful.Color{
		R: float64(channels[0]) / 255,
		G: float64(channels[1]) / 255,
		B: float64(channels[2]) / 255,
	}, nil
}
