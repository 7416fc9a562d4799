package quotecard

import (
	"image"
	"image/draw"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DrawParagraph draws a laid out paragraph onto dst with its top-left
// corner at (x, y). Spans whose paint has a blur are drawn on a separate
// layer per radius, blurred, then composited over dst.
func (t *Typesetter) DrawParagraph(dst *image.RGBA, p *Paragraph, x, y float64) {
	l := p.TextLayout()
	if l == nil || len(l.Lines) == 0 {
		return
	}
	layers := map[float64]*image.RGBA{}
	for _, ln := range l.Lines {
		for _, f := range ln.Fragments {
			s := p.Spans[f.Span]
			if s.Style.Paint.Transparent() || f.Text == "" {
				continue
			}
			target := dst
			if r := s.Style.Paint.Blur; r > 0 {
				if layers[r] == nil {
					layers[r] = image.NewRGBA(dst.Bounds())
				}
				target = layers[r]
			}
			t.drawFragment(target, s, f.Text, x+f.X, y+ln.Baseline)
		}
	}
	radii := make([]float64, 0, len(layers))
	for r := range layers {
		radii = append(radii, r)
	}
	sort.Float64s(radii)
	for _, r := range radii {
		blurred := blur.Gaussian(layers[r], r)
		draw.Draw(dst, dst.Bounds(), blurred, blurred.Bounds().Min, draw.Over)
	}
}

func (t *Typesetter) drawFragment(dst *image.RGBA, s Span, text string, x, baseline float64) {
	col := s.Style.Paint.Color
	if s.Emoji && t.emoji != nil {
		t.emoji.draw(dst, text, x, baseline, col)
		return
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: t.face(s.Style.Weight).face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(baseline)},
	}
	d.DrawString(text)
}
