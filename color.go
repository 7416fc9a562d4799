package quotecard

import (
	"fmt"
	"image/color"
	"regexp"
	"strings"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit color as entered in the form's color inputs.
type RGB struct {
	R, G, B uint8
}

var hexColorRE = regexp.MustCompile(`^#?([0-9a-f]{2}){3}$`)

// ParseHexColor parses "#RRGGBB" or "RRGGBB", in any letter case.
func ParseHexColor(s string) (RGB, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if !hexColorRE.MatchString(v) {
		return RGB{}, fmt.Errorf("quotecard: invalid hex color %q", s)
	}
	c, err := colorful.Hex("#" + strings.TrimPrefix(v, "#"))
	if err != nil {
		return RGB{}, fmt.Errorf("quotecard: invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return c.toColorful().Hex()
}

func (c RGB) String() string {
	return c.Hex()
}

// NRGBA returns the color with alpha a in [0, 1].
func (c RGB) NRGBA(a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp01(a)*255 + 0.5)}
}

func (c RGB) toColorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func (c RGB) ggColor(a float64) gg.RGBA {
	cf := c.toColorful()
	return gg.RGBA{R: cf.R, G: cf.G, B: cf.B, A: clamp01(a)}
}

// MarshalText implements encoding.TextMarshaler so colors read naturally
// in config files.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseHexColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
