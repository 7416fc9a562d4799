package quotecard

import (
	"errors"
	"math"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/image/math/fixed"
)

// Typesetter measures spans with the faces of one render at one size.
// It is not safe for concurrent use.
type Typesetter struct {
	size    float64
	regular *fontAndFace
	bold    *fontAndFace
	emoji   *emojiFace

	ascent     float64
	lineHeight float64
}

// NewTypesetter creates faces for fonts at size pixels. Close releases them.
func NewTypesetter(fonts *Fonts, size float64) (*Typesetter, error) {
	if fonts == nil || fonts.Regular == nil {
		return nil, errors.New("quotecard: typesetter needs a regular font")
	}
	if size <= 0 {
		return nil, errors.New("quotecard: font size must be positive")
	}
	t := &Typesetter{size: size, regular: newFontAndFace(fonts.Regular, size)}
	if fonts.Bold != nil {
		t.bold = newFontAndFace(fonts.Bold, size)
	} else {
		t.bold = t.regular
	}
	if fonts.Emoji != nil {
		t.emoji = fonts.Emoji.newFace(size)
	}
	m := t.regular.face.Metrics()
	t.ascent = float64(m.Ascent.Ceil())
	t.lineHeight = float64((m.Ascent + m.Descent).Ceil())
	return t, nil
}

// Size is the font size in pixels.
func (t *Typesetter) Size() float64 { return t.size }

// LineHeight is the distance between consecutive baselines.
func (t *Typesetter) LineHeight() float64 { return t.lineHeight }

// Close releases the faces.
func (t *Typesetter) Close() error {
	var errs []error
	errs = append(errs, t.regular.Close())
	if t.bold != t.regular {
		errs = append(errs, t.bold.Close())
	}
	return errors.Join(errs...)
}

func (t *Typesetter) face(w Weight) *fontAndFace {
	if w == WeightBold {
		return t.bold
	}
	return t.regular
}

// Measure returns the advance width of s drawn with the span's face.
func (t *Typesetter) Measure(s string, w Weight, emoji bool) float64 {
	if emoji && t.emoji != nil {
		return t.emoji.measure(s)
	}
	return t.face(w).measure(s)
}

// ---- Laid out text ----

// Fragment is a piece of one span placed on one line. X is relative to
// the paragraph origin.
type Fragment struct {
	Text  string
	Span  int
	X     float64
	Width float64
}

// TextLine is one laid out line. Baseline is relative to the paragraph top.
type TextLine struct {
	Fragments []Fragment
	Width     float64
	Baseline  float64
}

// TextLayout is a paragraph broken into lines.
type TextLayout struct {
	Lines      []TextLine
	Width      float64
	Height     float64
	LineHeight float64
}

// Layout breaks the paragraph into lines no wider than maxWidth. Every "\n"
// starts a new line; other breaks happen between words, or between
// graphemes when a single word is wider than maxWidth. A maxWidth of zero
// or less disables wrapping.
func (p *Paragraph) Layout(ts *Typesetter, maxWidth float64) error {
	if ts == nil {
		return errors.New("quotecard: layout needs a typesetter")
	}
	l := &TextLayout{LineHeight: ts.lineHeight}
	if len(p.Spans) > 0 {
		w := &wrapper{ts: ts, spans: p.Spans, maxWidth: maxWidth}
		for _, hard := range splitHardLines(p.Spans) {
			w.wrap(hard)
		}
		lines := w.lines
		width := maxWidth
		if width <= 0 {
			for _, ln := range lines {
				width = math.Max(width, ln.Width)
			}
		}
		for i := range lines {
			var dx float64
			switch p.Style.Align {
			case AlignCenter:
				dx = (width - lines[i].Width) / 2
			case AlignRight:
				dx = width - lines[i].Width
			}
			for j := range lines[i].Fragments {
				lines[i].Fragments[j].X += dx
			}
			lines[i].Baseline = float64(i)*ts.lineHeight + ts.ascent
		}
		l.Lines = lines
		l.Width = width
		l.Height = float64(len(lines)) * ts.lineHeight
	}
	p.layout = l
	return nil
}

// TextLayout returns the result of the last Layout call, or nil.
func (p *Paragraph) TextLayout() *TextLayout {
	return p.layout
}

// Height is the laid out height, zero before Layout or for empty text.
func (p *Paragraph) Height() float64 {
	if p.layout == nil {
		return 0
	}
	return p.layout.Height
}

// piece is a run of spaces or non-spaces inside one span.
type piece struct {
	text  string
	span  int
	space bool
}

// splitHardLines cuts the span sequence at every "\n".
func splitHardLines(spans []Span) [][]piece {
	lines := [][]piece{nil}
	for i, s := range spans {
		parts := strings.Split(s.Text, "\n")
		for j, part := range parts {
			if j > 0 {
				lines = append(lines, nil)
			}
			for _, tok := range splitTextPreserveSpaces(part) {
				cur := &lines[len(lines)-1]
				*cur = append(*cur, piece{text: tok, span: i, space: unicode.IsSpace([]rune(tok)[0])})
			}
		}
	}
	return lines
}

func splitTextPreserveSpaces(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	var current strings.Builder
	lastType := 0 // 0 unknown, 1 space, 2 non-space
	for _, r := range s {
		typ := 2
		if unicode.IsSpace(r) {
			typ = 1
		}
		if lastType != 0 && typ != lastType {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteRune(r)
		lastType = typ
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

type wrapper struct {
	ts       *Typesetter
	spans    []Span
	maxWidth float64

	lines   []TextLine
	line    []Fragment
	width   float64
	pending []Fragment // spaces waiting for the next word
}

func (w *wrapper) fragment(text string, span int) Fragment {
	s := w.spans[span]
	return Fragment{Text: text, Span: span, Width: w.ts.Measure(text, s.Style.Weight, s.Emoji)}
}

func (w *wrapper) flush() {
	w.lines = append(w.lines, TextLine{Fragments: w.line, Width: w.width})
	w.line = nil
	w.width = 0
	w.pending = nil
}

func (w *wrapper) place(f Fragment) {
	f.X = w.width
	w.line = append(w.line, f)
	w.width += f.Width
}

func (w *wrapper) wrap(pieces []piece) {
	for i := 0; i < len(pieces); {
		if pieces[i].space {
			if len(w.line) > 0 {
				w.pending = append(w.pending, w.fragment(pieces[i].text, pieces[i].span))
			}
			i++
			continue
		}
		j := i
		var word []Fragment
		var wordWidth float64
		for ; j < len(pieces) && !pieces[j].space; j++ {
			f := w.fragment(pieces[j].text, pieces[j].span)
			word = append(word, f)
			wordWidth += f.Width
		}
		i = j

		var gap float64
		for _, f := range w.pending {
			gap += f.Width
		}
		if w.maxWidth > 0 && len(w.line) > 0 && w.width+gap+wordWidth > w.maxWidth {
			w.flush()
		}
		if w.maxWidth > 0 && wordWidth > w.maxWidth {
			if len(w.line) > 0 {
				w.flush()
			}
			w.breakWord(word)
			continue
		}
		for _, f := range w.pending {
			w.place(f)
		}
		w.pending = nil
		for _, f := range word {
			w.place(f)
		}
	}
	w.flush()
}

// breakWord fills lines with the graphemes of a word that cannot fit on a
// line of its own. The last partial line stays open for following words.
func (w *wrapper) breakWord(word []Fragment) {
	for _, f := range word {
		var cur strings.Builder
		var curWidth float64
		emit := func() {
			if cur.Len() == 0 {
				return
			}
			w.place(Fragment{Text: cur.String(), Span: f.Span, Width: curWidth})
			cur.Reset()
			curWidth = 0
		}
		gr := uniseg.NewGraphemes(f.Text)
		for gr.Next() {
			cluster := gr.Str()
			cw := w.fragment(cluster, f.Span).Width
			if w.width+curWidth+cw > w.maxWidth && (len(w.line) > 0 || cur.Len() > 0) {
				emit()
				w.flush()
			}
			cur.WriteString(cluster)
			curWidth += cw
		}
		emit()
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
