// Package yahtzee implements the Yahtzee game engine: turn sequencing, the
// roll/hold/score mutation API, the Joker and bonus-Yahtzee rules, and the
// derived score queries.
//
// A Game is not safe for concurrent use. Callers sharing a Game across
// goroutines must serialize access themselves.
package yahtzee

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/yahtzee/internal/game/combination"
	"github.com/cory-johannsen/yahtzee/internal/game/dice"
	"github.com/cory-johannsen/yahtzee/internal/game/notify"
)

const (
	// RollsPerTurn is the number of rerolls allowed after the opening roll.
	RollsPerTurn = 2
	// UpperBonusThreshold is the upper-section total that earns UpperBonus.
	UpperBonusThreshold = 63
	// UpperBonus is added to the score when the upper total reaches the threshold.
	UpperBonus = 35
	// BonusYahtzeeScore is awarded for each additional real Yahtzee.
	BonusYahtzeeScore = 100
)

var (
	// ErrInvalidPlayerCount is returned when a game is created with no players.
	ErrInvalidPlayerCount = errors.New("a game needs at least one player")
	// ErrOutOfRolls is returned when rolling with no rolls remaining.
	ErrOutOfRolls = errors.New("no rolls remaining this turn")
	// ErrAlreadyPlayed is returned when a category is scored twice by one player.
	ErrAlreadyPlayed = errors.New("category already played")
	// ErrGameOver is returned for roll and move attempts once every card is full.
	ErrGameOver = errors.New("game is over")
	// ErrInvalidPlayer is returned for a player index outside the player list.
	ErrInvalidPlayer = errors.New("invalid player index")
)

// Option configures a Game.
type Option func(*Game)

// WithSource sets the randomness source used for every roll.
func WithSource(src dice.Source) Option {
	return func(g *Game) { g.src = src }
}

// WithLogger sets the logger for rolls and moves.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// Game is one Yahtzee session.
//
// Invariant: 0 <= whoseTurn < len(players).
// Invariant: 0 <= rollsRemaining <= RollsPerTurn.
type Game struct {
	players        []Player
	cards          []*scorecard
	whoseTurn      int
	rollsRemaining int

	src    dice.Source
	dice   *dice.Set
	roller *dice.Roller
	hub    *notify.Hub
	logger *zap.Logger
}

// NewGame starts a game for players with freshly rolled dice.
//
// Postcondition: returns ErrInvalidPlayerCount if players is empty; otherwise
// it is the first player's turn with RollsPerTurn rolls remaining.
func NewGame(players []Player, opts ...Option) (*Game, error) {
	if len(players) == 0 {
		return nil, ErrInvalidPlayerCount
	}
	g := &Game{
		players:        append([]Player(nil), players...),
		cards:          make([]*scorecard, len(players)),
		rollsRemaining: RollsPerTurn,
		hub:            notify.NewHub(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = dice.NewCryptoSource()
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	for i := range g.cards {
		g.cards[i] = newScorecard()
	}
	g.dice = dice.NewSet(g.src)
	g.roller = dice.NewLoggedRoller(g.dice, g.logger)
	return g, nil
}

// Subscribe registers fn to run after every state change.
func (g *Game) Subscribe(fn notify.Observer) notify.Handle {
	return g.hub.Subscribe(fn)
}

// Unsubscribe cancels a subscription made with Subscribe.
func (g *Game) Unsubscribe(h notify.Handle) bool {
	return g.hub.Unsubscribe(h)
}

// RollDice rerolls the unheld dice for the current player.
func (g *Game) RollDice() error {
	if g.IsGameOver() {
		return ErrGameOver
	}
	if g.rollsRemaining == 0 {
		return fmt.Errorf("%s: %w", g.players[g.whoseTurn].Name, ErrOutOfRolls)
	}
	g.roller.Roll()
	g.rollsRemaining--
	g.hub.Publish()
	return nil
}

// SetDieHeld holds or releases die i. It is accepted at any point in a turn.
func (g *Game) SetDieHeld(i int, held bool) error {
	if err := g.dice.SetHeld(i, held); err != nil {
		return err
	}
	g.hub.Publish()
	return nil
}

// MakeMove records c for the current player with the current dice and passes
// the turn to the next player.
//
// Postcondition: on error no state has changed.
func (g *Game) MakeMove(c combination.Category) error {
	if g.IsGameOver() {
		return ErrGameOver
	}
	if !c.Valid() {
		return fmt.Errorf("%v: %w", c, combination.ErrUnknownCategory)
	}
	player := g.players[g.whoseTurn]
	card := g.cards[g.whoseTurn]
	if _, played := card.moves[c]; played {
		return fmt.Errorf("%s has already played %s: %w", player.Name, c.Name(), ErrAlreadyPlayed)
	}

	values := g.dice.Values()
	score := combination.Score(c, values, g.jokerFor(card, values))

	if combination.IsYahtzee(values) && card.moves[combination.Yahtzee] != 0 {
		card.bonusYahtzee++
	}
	card.moves[c] = score
	if c.Section() == combination.Upper {
		card.upperTotal += score
	} else {
		card.lowerTotal += score
	}

	g.logger.Debug("move made",
		zap.String("player", player.Name),
		zap.String("category", c.Name()),
		zap.Ints("dice", values[:]),
		zap.Int("score", score),
		zap.Int("bonus_yahtzees", card.bonusYahtzee),
	)

	g.whoseTurn = (g.whoseTurn + 1) % len(g.players)
	g.dice.ClearHeld()
	g.roller.Roll()
	g.rollsRemaining = RollsPerTurn

	if g.IsGameOver() {
		g.logger.Info("game over", zap.Int("players", len(g.players)))
	}
	g.hub.Publish()
	return nil
}

// SetDice forces the current die values, leaving held flags untouched. It
// exists so tests and tooling can pin exact scoring scenarios.
func (g *Game) SetDice(values []int) error {
	if err := g.dice.SetValues(values); err != nil {
		return err
	}
	g.hub.Publish()
	return nil
}

// SetPlayerName relabels player p.
func (g *Game) SetPlayerName(p int, name string) error {
	if err := g.checkPlayer(p); err != nil {
		return err
	}
	g.players[p].Name = name
	g.hub.Publish()
	return nil
}

// jokerFor reports whether the Joker rule applies to card with values: the
// dice are a Yahtzee, the matching upper box is filled, and a non-zero
// Yahtzee is on record.
func (g *Game) jokerFor(card *scorecard, values [dice.Count]int) bool {
	if !combination.IsYahtzee(values) {
		return false
	}
	upper, err := combination.UpperFor(values[0])
	if err != nil {
		return false
	}
	if _, played := card.moves[upper]; !played {
		return false
	}
	return card.moves[combination.Yahtzee] != 0
}

func (g *Game) checkPlayer(p int) error {
	if p < 0 || p >= len(g.players) {
		return fmt.Errorf("player %d: %w", p, ErrInvalidPlayer)
	}
	return nil
}
