package yahtzee

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/yahtzee/internal/game/combination"
	"github.com/cory-johannsen/yahtzee/internal/game/dice"
)

// Players returns a copy of the player list in seat order.
func (g *Game) Players() []Player {
	return append([]Player(nil), g.players...)
}

// WhoseTurn returns the seat index of the current player.
func (g *Game) WhoseTurn() int {
	return g.whoseTurn
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() Player {
	return g.players[g.whoseTurn]
}

// RollsRemaining returns how many rerolls the current player has left.
func (g *Game) RollsRemaining() int {
	return g.rollsRemaining
}

// Dice returns a read-only snapshot of the dice.
func (g *Game) Dice() dice.View {
	return g.dice.View()
}

// IsYahtzee reports whether the current dice are five of a kind.
func (g *Game) IsYahtzee() bool {
	return combination.IsYahtzee(g.dice.Values())
}

// JokerActive reports whether the Joker rule applies to the current player
// with the current dice.
func (g *Game) JokerActive() bool {
	return g.jokerFor(g.cards[g.whoseTurn], g.dice.Values())
}

// Potential returns what the current player would score in c with the current
// dice, and whether c is still open for them.
func (g *Game) Potential(c combination.Category) (score int, open bool, err error) {
	if !c.Valid() {
		return 0, false, fmt.Errorf("%v: %w", c, combination.ErrUnknownCategory)
	}
	card := g.cards[g.whoseTurn]
	_, played := card.moves[c]
	values := g.dice.Values()
	return combination.Score(c, values, g.jokerFor(card, values)), !played, nil
}

// PlayerMoves returns a copy of player p's recorded moves.
func (g *Game) PlayerMoves(p int) (map[combination.Category]int, error) {
	if err := g.checkPlayer(p); err != nil {
		return nil, err
	}
	out := make(map[combination.Category]int, len(g.cards[p].moves))
	for c, s := range g.cards[p].moves {
		out[c] = s
	}
	return out, nil
}

// UpperSectionScore returns player p's upper-section total without the bonus.
func (g *Game) UpperSectionScore(p int) (int, error) {
	if err := g.checkPlayer(p); err != nil {
		return 0, err
	}
	return g.cards[p].upperTotal, nil
}

// UpperSectionBonus returns UpperBonus if player p's upper total reached the
// threshold, else 0.
func (g *Game) UpperSectionBonus(p int) (int, error) {
	upper, err := g.UpperSectionScore(p)
	if err != nil {
		return 0, err
	}
	return upperBonus(upper), nil
}

// LowerSectionScore returns player p's lower-section total.
func (g *Game) LowerSectionScore(p int) (int, error) {
	if err := g.checkPlayer(p); err != nil {
		return 0, err
	}
	return g.cards[p].lowerTotal, nil
}

// BonusYahtzeeCount returns how many bonus Yahtzees player p has rolled.
func (g *Game) BonusYahtzeeCount(p int) (int, error) {
	if err := g.checkPlayer(p); err != nil {
		return 0, err
	}
	return g.cards[p].bonusYahtzee, nil
}

// BonusYahtzeeScore returns the points player p has earned from bonus Yahtzees.
func (g *Game) BonusYahtzeeScore(p int) (int, error) {
	n, err := g.BonusYahtzeeCount(p)
	if err != nil {
		return 0, err
	}
	return n * BonusYahtzeeScore, nil
}

// PlayerScore returns player p's grand total: upper total, upper bonus, lower
// total, and bonus Yahtzees.
func (g *Game) PlayerScore(p int) (int, error) {
	if err := g.checkPlayer(p); err != nil {
		return 0, err
	}
	return g.cards[p].total(), nil
}

// IsGameOver reports whether every player has filled every category.
func (g *Game) IsGameOver() bool {
	n := combination.Count()
	for _, card := range g.cards {
		if len(card.moves) != n {
			return false
		}
	}
	return true
}

// Standing is one row of the final (or provisional) results.
type Standing struct {
	Seat  int
	Name  string
	Score int
	// Rank is 1-based; tied scores share a rank.
	Rank int
}

// Standings returns players ordered by score, highest first, ties broken by
// seat order. It may be called at any point in the game.
func (g *Game) Standings() []Standing {
	out := make([]Standing, len(g.players))
	for i, p := range g.players {
		out[i] = Standing{Seat: i, Name: p.Name, Score: g.cards[i].total()}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}

func (c *scorecard) total() int {
	return c.upperTotal + upperBonus(c.upperTotal) + c.lowerTotal + c.bonusYahtzee*BonusYahtzeeScore
}

func upperBonus(upper int) int {
	if upper >= UpperBonusThreshold {
		return UpperBonus
	}
	return 0
}
