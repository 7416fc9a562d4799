package quotecard

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.NRGBA{A: 0xff}
)

func testBase() ParagraphStyle {
	return ParagraphStyle{FontSize: 40, Color: white, Align: AlignCenter}
}

func mustLines(t *testing.T, markup string) []Line {
	t.Helper()
	lines, err := ParseLines(markup)
	require.NoError(t, err)
	return lines
}

func TestBuildParagraphSeparators(t *testing.T) {
	p := BuildParagraph(mustLines(t, "<line>X</line><line>Y</line>"), testBase(), ForegroundStyle(testBase()))
	require.Len(t, p.Spans, 3)
	assert.Equal(t, "X\n\nY", p.Text())
	assert.Equal(t, lineSeparator, p.Spans[1].Text)
	assert.True(t, p.Spans[1].Style.Paint.Transparent())

	p = BuildParagraph(mustLines(t, "<line>A<br>B</line>"), testBase(), ForegroundStyle(testBase()))
	assert.Equal(t, "A\nB", p.Text())

	p = BuildParagraph(nil, testBase(), ForegroundStyle(testBase()))
	assert.Empty(t, p.Spans)
}

func TestDualParagraphSameTextAndWeights(t *testing.T) {
	inputs := []string{
		"<line>Hello <bold>World</bold></line>",
		"<line>A<br>B</line><line><bold>C 😀 D</bold></line>",
		"<line>😀😀</line><line></line><line>x</line>",
		"",
	}
	for _, in := range inputs {
		d := BuildDualParagraph(mustLines(t, in), testBase(), black, 5)
		require.Len(t, d.Shadow.Spans, len(d.Foreground.Spans), in)
		assert.Equal(t, d.Foreground.Text(), d.Shadow.Text(), in)
		for i := range d.Foreground.Spans {
			fg, sh := d.Foreground.Spans[i], d.Shadow.Spans[i]
			assert.Equal(t, fg.Text, sh.Text)
			assert.Equal(t, fg.Emoji, sh.Emoji)
			assert.Equal(t, fg.Style.Weight, sh.Style.Weight, "span %d of %q", i, in)
		}
	}
}

func TestDualParagraphPaints(t *testing.T) {
	d := BuildDualParagraph(mustLines(t, "<line><bold>Hi</bold> 😀</line>"), testBase(), black, 5)
	require.Len(t, d.Foreground.Spans, 3)

	bold, plain, smile := d.Foreground.Spans[0], d.Foreground.Spans[1], d.Foreground.Spans[2]
	assert.Equal(t, TextStyle{Weight: WeightBold, Paint: Paint{Color: white}}, bold.Style)
	assert.Equal(t, TextStyle{Weight: WeightRegular, Paint: Paint{Color: white}}, plain.Style)
	assert.Equal(t, TextStyle{Weight: WeightRegular, Paint: Paint{Color: white}}, smile.Style)

	sbold, splain, ssmile := d.Shadow.Spans[0], d.Shadow.Spans[1], d.Shadow.Spans[2]
	assert.Equal(t, Paint{Color: black, Blur: 5}, sbold.Style.Paint)
	assert.Equal(t, Paint{Color: black, Blur: 5}, splain.Style.Paint)
	assert.True(t, ssmile.Style.Paint.Transparent())
	assert.True(t, ssmile.Emoji)
}
