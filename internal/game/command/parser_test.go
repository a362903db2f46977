package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("   ")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Args)
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("roll")
	assert.Equal(t, "roll", result.Command)
	assert.Nil(t, result.Args)
	assert.Equal(t, "", result.RawArgs)
}

func TestParse_Lowercase(t *testing.T) {
	assert.Equal(t, "board", Parse("BOARD").Command)
}

func TestParse_WithArgs(t *testing.T) {
	result := Parse("hold 1 3 5")
	assert.Equal(t, "hold", result.Command)
	assert.Equal(t, []string{"1", "3", "5"}, result.Args)
	assert.Equal(t, "1 3 5", result.RawArgs)
}

func TestParse_MultiWordCategoryKeepsRawArgs(t *testing.T) {
	result := Parse("  score   Full   House  ")
	assert.Equal(t, "score", result.Command)
	assert.Equal(t, []string{"Full", "House"}, result.Args)
	assert.Equal(t, "Full   House", result.RawArgs)
}

func TestParseDieIndices(t *testing.T) {
	tests := []struct {
		args []string
		want []int
	}{
		{[]string{"1"}, []int{0}},
		{[]string{"5", "1", "3"}, []int{0, 2, 4}},
		{[]string{"1,2", "2"}, []int{0, 1}},
		{[]string{"135"}, []int{0, 2, 4}},
		{[]string{"ALL"}, []int{0, 1, 2, 3, 4}},
	}
	for _, tt := range tests {
		got, err := ParseDieIndices(tt.args)
		assert.NoError(t, err, "%v", tt.args)
		assert.Equal(t, tt.want, got, "%v", tt.args)
	}
}

func TestParseDieIndices_Errors(t *testing.T) {
	for _, args := range [][]string{nil, {"0"}, {"6"}, {"x"}, {"1", "all"}, {","}} {
		_, err := ParseDieIndices(args)
		assert.ErrorIs(t, err, ErrBadDieIndex, "%v", args)
	}
}

func TestPropertyParseAlwaysLowercasesCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z]{1,20}`).Draw(t, "word")
		result := Parse(word)
		for _, c := range result.Command {
			if c >= 'A' && c <= 'Z' {
				t.Fatalf("command %q contains uppercase char in Parse result %q", word, result.Command)
			}
		}
	})
}

// Property: any non-empty list of valid positions parses to sorted distinct indices.
func TestPropertyParseDieIndicesSortedDistinct(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		positions := rapid.SliceOfN(rapid.SampledFrom([]string{"1", "2", "3", "4", "5"}), 1, 10).Draw(t, "positions")
		got, err := ParseDieIndices(positions)
		if err != nil {
			t.Fatalf("ParseDieIndices(%v): %v", positions, err)
		}
		for i := 1; i < len(got); i++ {
			if got[i] <= got[i-1] {
				t.Fatalf("indices not strictly ascending: %v", got)
			}
		}
		for _, idx := range got {
			if idx < 0 || idx > 4 {
				t.Fatalf("index %d out of range", idx)
			}
		}
	})
}
