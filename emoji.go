package quotecard

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// EmojiFont is a parsed color emoji font (CBDT/sbix bitmaps or plain
// outlines). It is read-only and may be shared between renders.
type EmojiFont struct {
	font *font.Font
}

// ParseEmojiFont parses OpenType or TrueType font bytes.
func ParseEmojiFont(b []byte) (*EmojiFont, error) {
	face, err := font.ParseTTF(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("quotecard: parsing emoji font: %w", err)
	}
	return &EmojiFont{font: face.Font}, nil
}

// emojiFace shapes and draws emoji at one size. font.Face caches glyph
// data and is not safe for concurrent use, so each render owns its own.
type emojiFace struct {
	face   *font.Face
	size   float64
	shaper shaping.HarfbuzzShaper
}

func (f *EmojiFont) newFace(size float64) *emojiFace {
	return &emojiFace{face: font.NewFace(f.font), size: size}
}

func (e *emojiFace) shape(s string) shaping.Output {
	runes := []rune(s)
	script := language.Common
	if len(runes) > 0 {
		script = language.LookupScript(runes[0])
	}
	return e.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      e.face,
		Size:      floatToFixed(e.size),
		Script:    script,
		Language:  language.NewLanguage("en"),
	})
}

func (e *emojiFace) measure(s string) float64 {
	if s == "" {
		return 0
	}
	return fixedToFloat(e.shape(s).Advance)
}

// draw paints s with its pen starting at (x, baseline). Color bitmaps
// keep their own colors; outline glyphs are filled with col.
func (e *emojiFace) draw(dst *image.RGBA, s string, x, baseline float64, col color.NRGBA) {
	out := e.shape(s)
	pen := x
	for _, g := range out.Glyphs {
		gx := pen + fixedToFloat(g.XOffset)
		gy := baseline - fixedToFloat(g.YOffset)
		if g.GlyphID == 0 {
			Logger().Warn("emoji glyph missing", "text", s, "size", e.size)
		} else {
			e.drawGlyph(dst, g, gx, gy, col)
		}
		pen += fixedToFloat(g.XAdvance)
	}
}

func (e *emojiFace) drawGlyph(dst *image.RGBA, g shaping.Glyph, x, y float64, col color.NRGBA) {
	box := image.Rect(
		int(math.Floor(x+fixedToFloat(g.XBearing))),
		int(math.Floor(y-fixedToFloat(g.YBearing))),
		int(math.Ceil(x+fixedToFloat(g.XBearing+g.Width))),
		int(math.Ceil(y-fixedToFloat(g.YBearing+g.Height))),
	)
	switch data := e.face.GlyphData(g.GlyphID).(type) {
	case font.GlyphBitmap:
		img, _, err := image.Decode(bytes.NewReader(data.Data))
		if err != nil {
			if data.Outline != nil {
				e.drawOutline(dst, *data.Outline, x, y, box, col)
				return
			}
			Logger().Warn("emoji bitmap undecodable", "glyph", g.GlyphID, "error", err)
			return
		}
		if box.Empty() {
			box = image.Rect(int(x), int(y-e.size), int(x+fixedToFloat(g.XAdvance)), int(y))
		}
		xdraw.CatmullRom.Scale(dst, box, img, img.Bounds(), xdraw.Over, nil)
	case font.GlyphOutline:
		e.drawOutline(dst, data, x, y, box, col)
	default:
		Logger().Warn("emoji glyph format unsupported", "glyph", g.GlyphID, "type", fmt.Sprintf("%T", data))
	}
}

func (e *emojiFace) drawOutline(dst *image.RGBA, outline font.GlyphOutline, x, y float64, box image.Rectangle, col color.NRGBA) {
	if len(outline.Segments) == 0 || box.Empty() {
		return
	}
	box = box.Inset(-1)
	scale := float32(e.size) / float32(e.face.Upem())
	ox := float32(x) - float32(box.Min.X)
	oy := float32(y) - float32(box.Min.Y)
	pt := func(p opentype.SegmentPoint) (float32, float32) {
		return p.X*scale + ox, -p.Y*scale + oy
	}
	r := vector.NewRasterizer(box.Dx(), box.Dy())
	started := false
	for _, s := range outline.Segments {
		switch s.Op {
		case opentype.SegmentOpMoveTo:
			if started {
				r.ClosePath()
			}
			r.MoveTo(pt(s.Args[0]))
			started = true
		case opentype.SegmentOpLineTo:
			r.LineTo(pt(s.Args[0]))
		case opentype.SegmentOpQuadTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case opentype.SegmentOpCubeTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			dx, dy := pt(s.Args[2])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if started {
		r.ClosePath()
	}
	r.DrawOp = draw.Over
	r.Draw(dst, box, image.NewUniform(col), image.Point{})
}
