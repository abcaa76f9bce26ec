package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents a color value.
// Supports true color (RGB) and terminal palette colors.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	// G and B are ignored in indexed mode.
	Indexed bool
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack   = Color{R: 0, G: 0, B: 0}
	ColorWhite   = Color{R: 255, G: 255, B: 255}
	ColorRed     = Color{R: 255, G: 0, B: 0}
	ColorGreen   = Color{R: 0, G: 255, B: 0}
	ColorBlue    = Color{R: 0, G: 0, B: 255}
	ColorYellow  = Color{R: 255, G: 255, B: 0}
	ColorCyan    = Color{R: 0, G: 255, B: 255}
	ColorMagenta = Color{R: 255, G: 0, B: 255}
	ColorGray    = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromHex parses "#rrggbb" or "#rgb". The leading '#' is optional.
func ColorFromHex(hex string) (Color, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	r, g, b := c.RGB255()
	return ColorFromRGB(r, g, b), nil
}

// MustHex is like ColorFromHex but panics on malformed input.
// Intended for package-level color tables.
func MustHex(hex string) Color {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	switch {
	case c.Default || other.Default:
		return c.Default == other.Default
	case c.Indexed || other.Indexed:
		return c.Indexed == other.Indexed && c.R == other.R
	default:
		return c.R == other.R && c.G == other.G && c.B == other.B
	}
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.IsDefault() {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return c.toColorful().Hex()
}

func (c Color) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// Blend mixes c toward other by t in [0, 1] in RGB space.
// Palette and default colors cannot be mixed; the nearer endpoint wins.
func (c Color) Blend(other Color, t float64) Color {
	if c.Indexed || other.Indexed || c.Default || other.Default {
		if t < 0.5 {
			return c
		}
		return other
	}
	r, g, b := c.toColorful().BlendRgb(other.toColorful(), t).Clamped().RGB255()
	return ColorFromRGB(r, g, b)
}

// Gradient returns n colors evenly spaced from c to other, inclusive.
func (c Color) Gradient(other Color, n int) []Color {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []Color{c}
	}
	out := make([]Color, n)
	for i := range out {
		out[i] = c.Blend(other, float64(i)/float64(n-1))
	}
	return out
}
