package quotecard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTypesetter(t *testing.T, size float64) *Typesetter {
	t.Helper()
	fonts, err := DefaultFonts()
	require.NoError(t, err)
	ts, err := NewTypesetter(fonts, size)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ts.Close() })
	return ts
}

func lineText(l TextLine) string {
	var b strings.Builder
	for _, f := range l.Fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}

func layoutMarkup(t *testing.T, ts *Typesetter, markup string, width float64) *Paragraph {
	t.Helper()
	p := BuildParagraph(mustLines(t, markup), testBase(), ForegroundStyle(testBase()))
	require.NoError(t, p.Layout(ts, width))
	return p
}

func TestLayoutPreservesInnerSpacesAndBreaksLongWords(t *testing.T) {
	ts := newTestTypesetter(t, 14)

	p := layoutMarkup(t, ts, "<line>spaced  out</line>", 1000)
	require.Len(t, p.TextLayout().Lines, 1)
	if got := lineText(p.TextLayout().Lines[0]); got != "spaced  out" {
		t.Fatalf("expected double spaces inside the line to be preserved, got %q", got)
	}

	p = layoutMarkup(t, ts, "<line>averyverylongtokenwithoutspaces</line>", 80)
	lines := p.TextLayout().Lines
	if len(lines) < 2 {
		t.Fatalf("expected long token to wrap across multiple lines, got %d", len(lines))
	}
	var joined strings.Builder
	for _, l := range lines {
		assert.LessOrEqual(t, l.Width, 80.0)
		joined.WriteString(lineText(l))
	}
	assert.Equal(t, "averyverylongtokenwithoutspaces", joined.String())
}

func TestLayoutWrapsOnWords(t *testing.T) {
	ts := newTestTypesetter(t, 20)
	word := ts.Measure("word", WeightRegular, false)
	space := ts.Measure(" ", WeightRegular, false)

	p := layoutMarkup(t, ts, "<line>word word word word</line>", 2*word+space+1)
	lines := p.TextLayout().Lines
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, "word word", lineText(l))
		assert.InDelta(t, 2*word+space, l.Width, 1e-9)
	}
}

func TestLayoutWordsCrossSpans(t *testing.T) {
	ts := newTestTypesetter(t, 20)
	ab := ts.Measure("ab", WeightRegular, false) + ts.Measure("cd", WeightBold, false)

	// "ab<bold>cd</bold>" is one word and must not be split between lines.
	p := layoutMarkup(t, ts, "<line>xx ab<bold>cd</bold></line>", ab+1)
	lines := p.TextLayout().Lines
	require.Len(t, lines, 2)
	assert.Equal(t, "xx", lineText(lines[0]))
	assert.Equal(t, "abcd", lineText(lines[1]))
	require.Len(t, lines[1].Fragments, 2)
	assert.Equal(t, 0, lines[1].Fragments[0].Span)
	assert.Equal(t, 1, lines[1].Fragments[1].Span)
}

func TestLayoutLinesAndHeight(t *testing.T) {
	ts := newTestTypesetter(t, 30)

	empty := layoutMarkup(t, ts, "", 500)
	assert.Zero(t, empty.Height())
	assert.Empty(t, empty.TextLayout().Lines)

	p := layoutMarkup(t, ts, "<line>X</line><line>Y</line>", 500)
	lines := p.TextLayout().Lines
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"X", "", "Y"}, []string{lineText(lines[0]), lineText(lines[1]), lineText(lines[2])})
	assert.Equal(t, 3*ts.LineHeight(), p.Height())
	assert.Less(t, lines[0].Baseline, lines[1].Baseline)

	p = layoutMarkup(t, ts, "<line>A<br>B</line>", 500)
	assert.Len(t, p.TextLayout().Lines, 2)

	p = layoutMarkup(t, ts, "<line></line>", 500)
	assert.Zero(t, p.Height())
}

func TestLayoutCentersLines(t *testing.T) {
	ts := newTestTypesetter(t, 30)
	p := layoutMarkup(t, ts, "<line>hi</line>", 400)
	l := p.TextLayout().Lines[0]
	require.NotEmpty(t, l.Fragments)
	assert.InDelta(t, (400-l.Width)/2, l.Fragments[0].X, 1e-9)
}

func TestLayoutDropsSpacesAtWrap(t *testing.T) {
	ts := newTestTypesetter(t, 20)
	word := ts.Measure("word", WeightRegular, false)
	p := layoutMarkup(t, ts, "<line>   word      word</line>", word+1)
	for _, l := range p.TextLayout().Lines {
		assert.Equal(t, "word", lineText(l))
	}
}

func TestDualParagraphSameGeometry(t *testing.T) {
	ts := newTestTypesetter(t, 40)
	inputs := []string{
		"<line>Hello <bold>World</bold></line>",
		"<line>Hi 😀 there, a slightly longer <bold>quote</bold> that wraps</line><line>and more</line>",
		"<line>A<br>B</line>",
	}
	for _, in := range inputs {
		d := BuildDualParagraph(mustLines(t, in), testBase(), black, 5)
		require.NoError(t, d.Layout(ts, 300))
		assert.Equal(t, d.Foreground.TextLayout(), d.Shadow.TextLayout(), in)
	}
}
