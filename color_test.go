package quotecard

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	valid := map[string]RGB{
		"#ff0080":   {R: 0xff, G: 0x00, B: 0x80},
		"FF0080":    {R: 0xff, G: 0x00, B: 0x80},
		"#AbCdEf":   {R: 0xab, G: 0xcd, B: 0xef},
		"000000":    {},
		" #ffffff ": {R: 0xff, G: 0xff, B: 0xff},
	}
	for in, want := range valid {
		got, err := ParseHexColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"#ff008", "ggg000", "", "#", "#ff00800", "ff 080", "#fff"} {
		_, err := ParseHexColor(in)
		assert.Error(t, err, in)
	}
}

func TestRGBFormats(t *testing.T) {
	c := RGB{R: 0x12, G: 0xab, B: 0xff}
	assert.Equal(t, "#12abff", c.Hex())
	assert.Equal(t, "#12abff", c.String())
	assert.Equal(t, color.NRGBA{R: 0x12, G: 0xab, B: 0xff, A: 0xff}, c.NRGBA(1))
	assert.Equal(t, uint8(0x80), c.NRGBA(0.5).A)

	g := c.ggColor(0.5)
	assert.InDelta(t, 0x12/255.0, g.R, 1e-9)
	assert.InDelta(t, 0.5, g.A, 1e-9)

	var back RGB
	b, err := c.MarshalText()
	require.NoError(t, err)
	require.NoError(t, back.UnmarshalText(b))
	assert.Equal(t, c, back)
}
