package quotecard

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// scope owns the transient drawing objects of one render and releases
// them, newest first, when the render ends however it ends.
type scope struct {
	closers []io.Closer
}

func (s *scope) add(c io.Closer) {
	s.closers = append(s.closers, c)
}

func (s *scope) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Shadow placement relative to the foreground, in multiples of the
// configured shadow offset.
const (
	shadowDX = 0.8
	shadowDY = 1.5
)

// washAlpha is the alpha of the gradient drawn over the background image.
const washAlpha = 0.5

// card is the input of one compositing pass.
type card struct {
	frame    Frame
	gradient Gradient
	lines    []Line
	res      *Resources
	opts     Options
}

// draw composites the card. Every pass is fully painted before the next:
// gradient, blurred background, half-alpha gradient wash, then shadow and
// foreground text.
func (c *card) draw() (img *image.RGBA, err error) {
	sc := &scope{}
	defer func() {
		if cerr := sc.Close(); cerr != nil && err == nil {
			err = &RenderError{Op: "compose.release", Kind: KindCompose, Err: cerr}
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = &RenderError{Op: "compose", Kind: KindCompose, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	f := c.frame
	inner := f.Inner()
	if f.Width <= 0 || f.Height <= 0 || inner.Empty() {
		return nil, &RenderError{Op: "compose.frame", Kind: KindLayout,
			Err: fmt.Errorf("border %d leaves no room on a %dx%d surface", f.Border, f.Width, f.Height)}
	}

	ts, err := NewTypesetter(c.res.Fonts, c.opts.FontSize)
	if err != nil {
		return nil, &RenderError{Op: "layout.typesetter", Kind: KindLayout, Err: err}
	}
	sc.add(ts)

	base := ParagraphStyle{FontSize: c.opts.FontSize, Color: c.opts.TextColor.NRGBA(1), Align: AlignCenter}
	dual := BuildDualParagraph(c.lines, base, c.opts.ShadowColor.NRGBA(1), c.opts.ShadowBlur)
	if err := dual.Layout(ts, f.TextWidth()); err != nil {
		return nil, &RenderError{Op: "layout.paragraph", Kind: KindLayout, Err: err}
	}
	Logger().Debug("paragraphs laid out",
		"foreground_height", dual.Foreground.Height(),
		"shadow_height", dual.Shadow.Height(),
		"lines", len(dual.Foreground.TextLayout().Lines))

	bg := backgroundLayer(c.res.Image, f, c.opts.ImageBlur)
	text := textLayer(ts, dual, f, c.opts.ShadowOffset)

	dc := gg.NewContext(f.Width, f.Height)
	sc.add(dc)
	w, h := float64(f.Width), float64(f.Height)
	ix, iy := float64(inner.Min.X), float64(inner.Min.Y)
	iw, ih := float64(inner.Dx()), float64(inner.Dy())

	dc.SetFillBrush(c.gradient.brush(f.Height, 1))
	dc.DrawRectangle(0, 0, w, h)
	if err := dc.Fill(); err != nil {
		return nil, &RenderError{Op: "compose.gradient", Kind: KindCompose, Err: err}
	}

	dc.Push()
	dc.ClipRect(ix, iy, iw, ih)
	dc.DrawImage(gg.ImageBufFromImage(bg), ix, iy)
	dc.Pop()

	dc.Push()
	dc.ClipRect(ix, iy, iw, ih)
	dc.SetFillBrush(c.gradient.brush(f.Height, washAlpha))
	dc.DrawRectangle(ix, iy, iw, ih)
	err = dc.Fill()
	dc.Pop()
	if err != nil {
		return nil, &RenderError{Op: "compose.wash", Kind: KindCompose, Err: err}
	}

	dc.Push()
	dc.DrawImage(gg.ImageBufFromImage(text), 0, 0)
	dc.Pop()

	out := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return out, nil
}

// backgroundLayer scales the image to its aspect fit, blurs it and crops
// the result to the inner rectangle. The blur runs over the scaled image
// clipped to the inner rectangle grown by the blur reach, so edge pixels
// sample image content past the clip edge where there is any and repeat
// the image edge where there is not.
func backgroundLayer(src image.Image, f Frame, radius float64) *image.NRGBA {
	inner := f.Inner()
	out := image.NewNRGBA(image.Rect(0, 0, inner.Dx(), inner.Dy()))
	if src == nil {
		return out
	}
	pad := int(math.Ceil(3 * radius))
	x, y, w, h := f.FitRect(src.Bounds().Dx(), src.Bounds().Dy())
	dr := image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	)
	area := dr.Intersect(inner.Inset(-pad))
	if area.Empty() {
		return out
	}
	layer := image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy()))
	xdraw.CatmullRom.Scale(layer, dr.Sub(area.Min), src, src.Bounds(), xdraw.Src, nil)
	blurred := layer
	if radius > 0 {
		blurred = blur.Gaussian(layer, radius)
		if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
			forceOpaque(blurred)
		}
	}
	draw.Draw(out, out.Bounds(), blurred, inner.Min.Sub(area.Min), draw.Src)
	return out
}

// forceOpaque undoes the alpha lost to rounding in the blur kernel. The
// color channels stay valid premultiplied values since they never exceed
// the rounded alpha.
func forceOpaque(img *image.RGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}

// textLayer draws the shadow then the foreground paragraph onto a
// transparent surface-sized layer. The block is centered vertically on
// the foreground height.
func textLayer(ts *Typesetter, dual DualParagraph, f Frame, offset float64) *image.NRGBA {
	layer := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	vc := (float64(f.Height) - dual.Foreground.Height()) / 2
	left := float64(f.Border)
	ts.DrawParagraph(layer, dual.Shadow, left+offset*shadowDX, vc+offset*shadowDY)
	ts.DrawParagraph(layer, dual.Foreground, left, vc)
	return toNRGBA(layer)
}

// toNRGBA converts to straight alpha, which is what gg blends with.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}
