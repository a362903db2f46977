package yahtzee

import (
	"fmt"

	"github.com/cory-johannsen/yahtzee/internal/game/combination"
)

// Player is a seat at the table. Identity is the seat's position in the
// game's player list; Name is a mutable label.
type Player struct {
	Name string
}

// NewPlayers builds a player list from names, substituting "Player N" for
// blank names.
func NewPlayers(names ...string) []Player {
	out := make([]Player, len(names))
	for i, n := range names {
		if n == "" {
			n = fmt.Sprintf("Player %d", i+1)
		}
		out[i] = Player{Name: n}
	}
	return out
}

// String returns the player's name.
func (p Player) String() string {
	return p.Name
}

// scorecard is the per-player move record and its running aggregates.
type scorecard struct {
	moves        map[combination.Category]int
	upperTotal   int
	lowerTotal   int
	bonusYahtzee int
}

func newScorecard() *scorecard {
	return &scorecard{moves: make(map[combination.Category]int)}
}
