package quotecard

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ---- Font loading ----

// Fonts is the parsed font set of a render. Parsed fonts are read-only and
// may be shared between renders; faces are created per render.
type Fonts struct {
	Regular *truetype.Font
	Bold    *truetype.Font
	// Emoji is optional. Without it emoji are drawn with Regular.
	Emoji *EmojiFont
}

// ParseFont parses TrueType font bytes.
func ParseFont(ttf []byte) (*truetype.Font, error) {
	ft, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("quotecard: parsing font: %w", err)
	}
	return ft, nil
}

// DefaultFonts returns the bundled Go Regular and Go Bold fonts with no
// emoji font.
func DefaultFonts() (*Fonts, error) {
	regular, err := ParseFont(goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := ParseFont(gobold.TTF)
	if err != nil {
		return nil, err
	}
	return &Fonts{Regular: regular, Bold: bold}, nil
}

type fontAndFace struct {
	font *truetype.Font
	face font.Face
}

// newFontAndFace sizes ft for drawing. DPI 72 keeps points equal to pixels.
func newFontAndFace(ft *truetype.Font, size float64) *fontAndFace {
	face := truetype.NewFace(ft, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	return &fontAndFace{font: ft, face: face}
}

func (f *fontAndFace) measure(s string) float64 {
	if f == nil || s == "" {
		return 0
	}
	d := font.Drawer{Face: f.face}
	return fixedToFloat(d.MeasureString(s))
}

func (f *fontAndFace) Close() error {
	return f.face.Close()
}
