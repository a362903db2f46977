package telnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mdanger\033[0m", Colorize(Red, "danger"))
}

func TestColorf(t *testing.T) {
	assert.Equal(t, "\033[32mscore: 42\033[0m", Colorf(Green, "score: %d", 42))
}

func TestPalette(t *testing.T) {
	on := Palette{Enabled: true}
	off := Palette{}
	assert.Equal(t, Colorize(Cyan, "x"), on.Paint(Cyan, "x"))
	assert.Equal(t, "x", off.Paint(Cyan, "x"))
	assert.Equal(t, "rolls: 2", off.Paintf(Cyan, "rolls: %d", 2))
}

func TestStripANSI(t *testing.T) {
	input := "\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m"
	assert.Equal(t, "red normal bold green", StripANSI(input))
}

func TestStripANSI_NoEscapes(t *testing.T) {
	assert.Equal(t, "plain text", StripANSI("plain text"))
	assert.Equal(t, "", StripANSI(""))
}

// Property: StripANSI(Paint(color, text)) == text regardless of whether the palette is enabled.
func TestPropertyStripANSIInversesPaint(t *testing.T) {
	colors := []string{Red, Green, Yellow, Cyan, Magenta, White, Bold, Dim}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 ]{0,50}`).Draw(t, "text")
		color := rapid.SampledFrom(colors).Draw(t, "color")
		p := Palette{Enabled: rapid.Bool().Draw(t, "enabled")}
		assert.Equal(t, text, StripANSI(p.Paint(color, text)))
	})
}

// Property: StripANSI output length <= input length.
func TestPropertyStripANSIOutputShorterOrEqual(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		assert.LessOrEqual(t, len(StripANSI(text)), len(text))
	})
}
