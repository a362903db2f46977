// Package combination defines the Yahtzee scoring categories and the pure
// scoring rules evaluated over five die values.
package combination

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/yahtzee/internal/game/dice"
)

// Fixed scores for the pattern categories.
const (
	FullHouseScore     = 25
	SmallStraightScore = 30
	LargeStraightScore = 40
	YahtzeeScore       = 50
)

// Section partitions the catalog into the upper and lower halves of the card.
type Section int

const (
	// Upper holds the six single-number categories.
	Upper Section = iota
	// Lower holds Chance, the N-of-a-kinds, Full House, the straights, and Yahtzee.
	Lower
)

// String returns "upper" or "lower".
func (s Section) String() string {
	if s == Upper {
		return "upper"
	}
	return "lower"
}

// Category identifies one scoring box. The zero value is Aces.
type Category int

// Catalog order: upper section first, then lower.
const (
	Aces Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	Chance
	ThreeOfAKind
	FourOfAKind
	FullHouse
	SmallStraight
	LargeStraight
	Yahtzee

	numCategories
)

// ErrUnknownCategory is returned for names or values outside the catalog.
var ErrUnknownCategory = errors.New("unknown category")

var names = [numCategories]string{
	Aces:          "Aces",
	Twos:          "Twos",
	Threes:        "Threes",
	Fours:         "Fours",
	Fives:         "Fives",
	Sixes:         "Sixes",
	Chance:        "Chance",
	ThreeOfAKind:  "Three of a Kind",
	FourOfAKind:   "Four of a Kind",
	FullHouse:     "Full House",
	SmallStraight: "Small Straight",
	LargeStraight: "Large Straight",
	Yahtzee:       "Yahtzee",
}

// aliases are the short forms accepted by ParseCategory, keyed lowercase.
var aliases = map[string]Category{
	"ones":   Aces,
	"1s":     Aces,
	"2s":     Twos,
	"3s":     Threes,
	"4s":     Fours,
	"5s":     Fives,
	"6s":     Sixes,
	"ch":     Chance,
	"3k":     ThreeOfAKind,
	"tk":     ThreeOfAKind,
	"4k":     FourOfAKind,
	"fk":     FourOfAKind,
	"fh":     FullHouse,
	"ss":     SmallStraight,
	"ls":     LargeStraight,
	"y":      Yahtzee,
	"yatzee": Yahtzee,
}

// Valid reports whether c is part of the catalog.
func (c Category) Valid() bool {
	return c >= Aces && c < numCategories
}

// Name returns the display name, e.g. "Full House".
func (c Category) Name() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return names[c]
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return c.Name()
}

// Section reports which half of the card c belongs to.
func (c Category) Section() Section {
	if c <= Sixes {
		return Upper
	}
	return Lower
}

// Face returns the die face an upper category counts, or 0 for lower categories.
func (c Category) Face() int {
	if c.Section() != Upper {
		return 0
	}
	return int(c-Aces) + 1
}

// All returns the full catalog in card order.
func All() []Category {
	out := make([]Category, 0, numCategories)
	for c := Aces; c < numCategories; c++ {
		out = append(out, c)
	}
	return out
}

// UpperCategories returns Aces through Sixes.
func UpperCategories() []Category {
	return All()[:Chance]
}

// LowerCategories returns Chance through Yahtzee.
func LowerCategories() []Category {
	return All()[Chance:]
}

// Count returns the number of categories in the catalog.
func Count() int {
	return int(numCategories)
}

// UpperFor returns the upper category counting face.
//
// Precondition: face is in [1, 6].
func UpperFor(face int) (Category, error) {
	if face < 1 || face > dice.Faces {
		return 0, fmt.Errorf("face %d: %w", face, ErrUnknownCategory)
	}
	return Aces + Category(face-1), nil
}

// ParseCategory resolves a display name or alias, case-insensitively and
// ignoring spaces, hyphens and underscores.
func ParseCategory(name string) (Category, error) {
	key := normalize(name)
	if key == "" {
		return 0, fmt.Errorf("empty name: %w", ErrUnknownCategory)
	}
	for c := Aces; c < numCategories; c++ {
		if normalize(names[c]) == key {
			return c, nil
		}
	}
	if c, ok := aliases[key]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownCategory)
}

func normalize(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// Score evaluates c against values. joker forces the maximum for Full House
// and both straights; it has no effect on other categories.
//
// Postcondition: the result is non-negative and depends only on the arguments.
func Score(c Category, values [dice.Count]int, joker bool) int {
	switch c {
	case Aces, Twos, Threes, Fours, Fives, Sixes:
		face := c.Face()
		return countOf(values, face) * face
	case Chance:
		return sum(values)
	case ThreeOfAKind:
		if maxCount(values) >= 3 {
			return sum(values)
		}
		return 0
	case FourOfAKind:
		if maxCount(values) >= 4 {
			return sum(values)
		}
		return 0
	case FullHouse:
		if joker || isFullHouse(values) {
			return FullHouseScore
		}
		return 0
	case SmallStraight:
		if joker || LongestRun(values) >= 4 {
			return SmallStraightScore
		}
		return 0
	case LargeStraight:
		if joker || LongestRun(values) == dice.Count {
			return LargeStraightScore
		}
		return 0
	case Yahtzee:
		if IsYahtzee(values) {
			return YahtzeeScore
		}
		return 0
	}
	return 0
}

// IsYahtzee reports whether all five values are equal.
func IsYahtzee(values [dice.Count]int) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// LongestRun returns the length of the longest run of consecutive distinct
// values. Duplicates neither extend nor break a run.
func LongestRun(values [dice.Count]int) int {
	sorted := values[:]
	sort.Ints(sorted)

	length, longest := 1, 1
	for i := 1; i < len(sorted); i++ {
		cur, last := sorted[i], sorted[i-1]
		switch {
		case cur == last+1:
			length++
			if length > longest {
				longest = length
			}
		case cur != last:
			length = 1
		}
	}
	return longest
}

func counts(values [dice.Count]int) map[int]int {
	out := make(map[int]int, dice.Faces)
	for _, v := range values {
		out[v]++
	}
	return out
}

func countOf(values [dice.Count]int, face int) int {
	n := 0
	for _, v := range values {
		if v == face {
			n++
		}
	}
	return n
}

func maxCount(values [dice.Count]int) int {
	best := 0
	for _, n := range counts(values) {
		if n > best {
			best = n
		}
	}
	return best
}

// isFullHouse reports whether the set of counts is exactly {2, 3}.
func isFullHouse(values [dice.Count]int) bool {
	seen := map[int]bool{}
	for _, n := range counts(values) {
		seen[n] = true
	}
	return len(seen) == 2 && seen[2] && seen[3]
}

func sum(values [dice.Count]int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
