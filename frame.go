package quotecard

import (
	"image"
	"math"

	"github.com/gogpu/gg"
)

// Frame is the geometry of one card: the surface and the border that is
// left showing the gradient around the background image.
type Frame struct {
	Width  int
	Height int
	Border int
}

// Inner is the clip rectangle inside the border.
func (f Frame) Inner() image.Rectangle {
	return image.Rect(f.Border, f.Border, f.Width-f.Border, f.Height-f.Border)
}

// TextWidth is the wrapping width of the paragraphs.
func (f Frame) TextWidth() float64 {
	return float64(f.Width - 2*f.Border)
}

// FitRect places an imgW×imgH image over the inner rectangle. The image's
// shorter side is the limiting dimension: it is scaled to exactly the inner
// rectangle's size on that axis and the other axis is centered, so any
// overflow or underflow is split evenly between both sides.
func (f Frame) FitRect(imgW, imgH int) (x, y, w, h float64) {
	inner := f.Inner()
	iw, ih := float64(inner.Dx()), float64(inner.Dy())
	x, y = float64(inner.Min.X), float64(inner.Min.Y)
	if imgW <= 0 || imgH <= 0 {
		return x, y, iw, ih
	}
	if imgW < imgH {
		scale := iw / float64(imgW)
		w = iw
		h = round5(float64(imgH) * scale)
		y = round5(y + (ih-h)/2)
	} else {
		scale := ih / float64(imgH)
		h = ih
		w = round5(float64(imgW) * scale)
		x = round5(x + (iw-w)/2)
	}
	return x, y, w, h
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// Gradient is the pair of colors washed over the card, running from the
// bottom-left corner (Start) to the top-left corner (End).
type Gradient struct {
	Start RGB
	End   RGB
}

// brush returns the gradient over a surface of height h with every stop at
// alpha a.
func (g Gradient) brush(h int, a float64) *gg.LinearGradientBrush {
	return gg.NewLinearGradientBrush(0, float64(h), 0, 0).
		AddColorStop(0, g.Start.ggColor(a)).
		AddColorStop(1, g.End.ggColor(a))
}
