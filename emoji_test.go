package quotecard

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

// Go Regular stands in for a color emoji font: it takes the same shaping
// and outline path, only with glyphs the font actually has.
func newEmojiTypesetter(t *testing.T, size float64) *Typesetter {
	t.Helper()
	fonts, err := DefaultFonts()
	require.NoError(t, err)
	fonts.Emoji, err = ParseEmojiFont(goregular.TTF)
	require.NoError(t, err)
	ts, err := NewTypesetter(fonts, size)
	require.NoError(t, err)
	require.NotNil(t, ts.emoji)
	t.Cleanup(func() { _ = ts.Close() })
	return ts
}

// paintedBounds returns the bounding box of pixels with non-zero alpha
// inside r.
func paintedBounds(img *image.RGBA, r image.Rectangle) image.Rectangle {
	var b image.Rectangle
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y).A != 0 {
				b = b.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return b
}

func TestParseEmojiFont(t *testing.T) {
	ef, err := ParseEmojiFont(goregular.TTF)
	require.NoError(t, err)
	assert.NotNil(t, ef.font)

	_, err = ParseEmojiFont([]byte("not a font"))
	assert.Error(t, err)
}

func TestEmojiFaceMeasure(t *testing.T) {
	ts := newEmojiTypesetter(t, 40)
	assert.Zero(t, ts.emoji.measure(""))

	w := ts.Measure("W", WeightRegular, true)
	assert.Greater(t, w, 0.0)
	assert.InDelta(t, ts.Measure("W", WeightRegular, false), w, 2)
}

func TestEmojiFaceDrawsOutlineGlyph(t *testing.T) {
	ts := newEmojiTypesetter(t, 40)
	dst := image.NewRGBA(image.Rect(0, 0, 100, 80))
	ts.emoji.draw(dst, "W", 10, 50, color.NRGBA{R: 0xff, A: 0xff})

	b := paintedBounds(dst, dst.Bounds())
	require.False(t, b.Empty(), "nothing drawn")
	assert.GreaterOrEqual(t, b.Min.X, 9)
	assert.LessOrEqual(t, float64(b.Max.X), 10+ts.Measure("W", WeightRegular, true)+2)
	assert.Less(t, b.Min.Y, 50)
	assert.LessOrEqual(t, b.Max.Y, 51)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := dst.RGBAAt(x, y)
			if c.G != 0 || c.B != 0 {
				t.Fatalf("outline glyph not filled with the run color at (%d,%d): %v", x, y, c)
			}
		}
	}
}

func TestDualParagraphEmojiPlaceholder(t *testing.T) {
	ts := newEmojiTypesetter(t, 40)
	lines := []Line{{
		{Text: "ab "},
		{Text: "W", IsEmoji: true},
		{Text: " cd"},
	}}
	d := BuildDualParagraph(lines, testBase(), black, 0)
	require.NoError(t, d.Layout(ts, 400))
	require.Equal(t, d.Foreground.TextLayout(), d.Shadow.TextLayout())

	var emoji *Fragment
	for i, f := range d.Foreground.TextLayout().Lines[0].Fragments {
		if d.Foreground.Spans[f.Span].Emoji {
			emoji = &d.Foreground.TextLayout().Lines[0].Fragments[i]
		}
	}
	require.NotNil(t, emoji)
	assert.Equal(t, ts.Measure("W", WeightRegular, true), emoji.Width)
	assert.True(t, d.Shadow.Spans[emoji.Span].Style.Paint.Transparent())

	box := image.Rect(int(emoji.X)+1, 0, int(emoji.X+emoji.Width)-1, int(ts.LineHeight()))

	fg := image.NewRGBA(image.Rect(0, 0, 400, 100))
	ts.DrawParagraph(fg, d.Foreground, 0, 0)
	assert.False(t, paintedBounds(fg, box).Empty(), "foreground emoji not drawn")

	shadow := image.NewRGBA(image.Rect(0, 0, 400, 100))
	ts.DrawParagraph(shadow, d.Shadow, 0, 0)
	assert.True(t, paintedBounds(shadow, box).Empty(), "shadow painted inside the emoji box")
	assert.False(t, paintedBounds(shadow, shadow.Bounds()).Empty(), "shadow text not drawn")
}
