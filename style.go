package fieldpdf

import (
	"fmt"
	"strconv"
)

// Color is an RGB color value.
type Color struct {
	R, G, B int
}

// Black is the default text and line color.
var Black = Color{0, 0, 0}

// ParseHexColor parses "#rgb" or "#rrggbb" notation. Malformed input falls
// back to black with ok=false; color typos in user content must not abort a
// render.
func ParseHexColor(s string) (c Color, ok bool) {
	if len(s) == 0 || s[0] != '#' {
		return Black, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Black, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Black, false
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, true
}

// Hex renders the color in "#rrggbb" notation.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R&0xff, c.G&0xff, c.B&0xff)
}

// FontSpec names a font face for the drawing surface to resolve. Style uses
// the conventional "", "B", "I", "BI" codes.
type FontSpec struct {
	Family string
	Style  string
}

// Font builds the FontSpec implied by a field's properties.
func (p Properties) Font() FontSpec {
	family := p.FontFamily
	if family == "" {
		family = "Helvetica"
	}
	style := ""
	if p.Bold {
		style += "B"
	}
	if p.Italic {
		style += "I"
	}
	return FontSpec{Family: family, Style: style}
}

// Padding defines spacing inside a field box.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}
