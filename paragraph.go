package quotecard

import (
	"image/color"
)

// Weight selects the regular or bold face for a span.
type Weight int

const (
	WeightRegular Weight = iota
	WeightBold
)

// Align is the horizontal alignment of laid out lines.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// Paint is how a span's glyphs are filled. A Blur above zero applies a
// gaussian mask blur of that radius to the glyph coverage.
type Paint struct {
	Color color.NRGBA
	Blur  float64
}

// Transparent reports whether the paint leaves no pixels behind.
func (p Paint) Transparent() bool {
	return p.Color.A == 0
}

// TextStyle is the per-run override applied on top of a ParagraphStyle.
type TextStyle struct {
	Weight Weight
	Paint  Paint
}

// ParagraphStyle is the base style shared by every span of a paragraph.
type ParagraphStyle struct {
	FontSize float64
	Color    color.NRGBA
	Align    Align
}

// Span is one styled piece of paragraph text.
type Span struct {
	Text  string
	Emoji bool
	Style TextStyle
}

// Paragraph is the styled text of a quote card, ready to be laid out.
type Paragraph struct {
	Style ParagraphStyle
	Spans []Span

	layout *TextLayout
}

const (
	breakSeparator = "\n"
	lineSeparator  = "\n\n"
)

var separatorStyle = TextStyle{Weight: WeightRegular}

// BuildParagraph folds lines into a paragraph. styleFn decides the style
// of every non-separator run; separators get a neutral transparent style.
// "\n\n" is placed between consecutive lines and never after the last.
func BuildParagraph(lines []Line, base ParagraphStyle, styleFn func(StyledRun) TextStyle) *Paragraph {
	p := &Paragraph{Style: base}
	for i, line := range lines {
		if i > 0 {
			p.Spans = append(p.Spans, Span{Text: lineSeparator, Style: separatorStyle})
		}
		for _, run := range line {
			if run.IsBreak {
				p.Spans = append(p.Spans, Span{Text: breakSeparator, Style: separatorStyle})
				continue
			}
			p.Spans = append(p.Spans, Span{Text: run.Text, Emoji: run.IsEmoji, Style: styleFn(run)})
		}
	}
	return p
}

// Text returns the concatenated span text.
func (p *Paragraph) Text() string {
	n := 0
	for _, s := range p.Spans {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range p.Spans {
		b = append(b, s.Text...)
	}
	return string(b)
}

func runWeight(r StyledRun) Weight {
	if r.IsBold && !r.IsEmoji {
		return WeightBold
	}
	return WeightRegular
}

// ForegroundStyle paints every run in the base color. Emoji keep the
// regular weight, other runs follow their bold flag.
func ForegroundStyle(base ParagraphStyle) func(StyledRun) TextStyle {
	return func(r StyledRun) TextStyle {
		return TextStyle{Weight: runWeight(r), Paint: Paint{Color: base.Color}}
	}
}

// ShadowStyle paints non-emoji runs with the blurred shadow color and
// emoji with a fully transparent paint, so emoji still occupy their
// advance without casting a second colored glyph.
func ShadowStyle(shadow color.NRGBA, blur float64) func(StyledRun) TextStyle {
	return func(r StyledRun) TextStyle {
		if r.IsEmoji {
			return TextStyle{Weight: runWeight(r)}
		}
		return TextStyle{Weight: runWeight(r), Paint: Paint{Color: shadow, Blur: blur}}
	}
}

// DualParagraph holds the foreground and shadow renditions of the same
// lines. Both carry identical text and weights and only differ in paint.
type DualParagraph struct {
	Foreground *Paragraph
	Shadow     *Paragraph
}

// BuildDualParagraph builds both paragraphs from the same lines.
func BuildDualParagraph(lines []Line, base ParagraphStyle, shadow color.NRGBA, blur float64) DualParagraph {
	return DualParagraph{
		Foreground: BuildParagraph(lines, base, ForegroundStyle(base)),
		Shadow:     BuildParagraph(lines, base, ShadowStyle(shadow, blur)),
	}
}

// Layout lays out both paragraphs to the same width.
func (d DualParagraph) Layout(ts *Typesetter, maxWidth float64) error {
	if err := d.Foreground.Layout(ts, maxWidth); err != nil {
		return err
	}
	return d.Shadow.Layout(ts, maxWidth)
}
