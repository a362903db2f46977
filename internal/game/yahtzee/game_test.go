package yahtzee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/yahtzee/internal/game/combination"
	"github.com/cory-johannsen/yahtzee/internal/game/dice"
	"github.com/cory-johannsen/yahtzee/internal/game/yahtzee"
)

func newGame(t *testing.T, names ...string) *yahtzee.Game {
	t.Helper()
	g, err := yahtzee.NewGame(yahtzee.NewPlayers(names...), yahtzee.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return g
}

// play forces the dice to values and scores c for the current player.
func play(t *testing.T, g *yahtzee.Game, c combination.Category, values ...int) {
	t.Helper()
	require.NoError(t, g.SetDice(values))
	require.NoError(t, g.MakeMove(c))
}

func score(t *testing.T, g *yahtzee.Game, p int) int {
	t.Helper()
	s, err := g.PlayerScore(p)
	require.NoError(t, err)
	return s
}

func potential(t *testing.T, g *yahtzee.Game, c combination.Category) int {
	t.Helper()
	s, _, err := g.Potential(c)
	require.NoError(t, err)
	return s
}

func TestNewGame_NoPlayers(t *testing.T) {
	_, err := yahtzee.NewGame(nil)
	assert.ErrorIs(t, err, yahtzee.ErrInvalidPlayerCount)
}

func TestNewGame_InitialState(t *testing.T) {
	g := newGame(t, "Patrick", "James")
	assert.Len(t, g.Players(), 2)
	assert.Equal(t, 0, g.WhoseTurn())
	assert.Equal(t, "Patrick", g.CurrentPlayer().Name)
	assert.Equal(t, yahtzee.RollsPerTurn, g.RollsRemaining())
	assert.Equal(t, 0, score(t, g, 0))
	assert.Equal(t, 0, score(t, g, 1))
	assert.False(t, g.IsGameOver())
	for _, v := range g.Dice().Values {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
	}
}

func TestNewPlayers_BlankNames(t *testing.T) {
	ps := yahtzee.NewPlayers("Ann", "", "Cy")
	assert.Equal(t, "Player 2", ps[1].Name)
	assert.Equal(t, "Cy", ps[2].String())
}

func TestNewGame_CopiesPlayers(t *testing.T) {
	ps := yahtzee.NewPlayers("Ann")
	g, err := yahtzee.NewGame(ps)
	require.NoError(t, err)
	ps[0].Name = "changed"
	assert.Equal(t, "Ann", g.CurrentPlayer().Name)
}

func TestRollDice(t *testing.T) {
	g := newGame(t, "Patrick", "James")

	require.NoError(t, g.RollDice())
	assert.Equal(t, 1, g.RollsRemaining())
	require.NoError(t, g.RollDice())
	assert.Equal(t, 0, g.RollsRemaining())

	assert.ErrorIs(t, g.RollDice(), yahtzee.ErrOutOfRolls)
	assert.Equal(t, 0, g.RollsRemaining())

	expected := g.Dice().Sum()
	assert.Equal(t, expected, potential(t, g, combination.Chance))
	require.NoError(t, g.SetDieHeld(1, true))

	require.NoError(t, g.MakeMove(combination.Chance))

	assert.Equal(t, expected, score(t, g, 0))
	assert.Equal(t, 1, g.WhoseTurn())
	assert.Equal(t, [dice.Count]bool{}, g.Dice().Held)
	assert.Equal(t, yahtzee.RollsPerTurn, g.RollsRemaining())
}

func TestRollDice_KeepsHeldDice(t *testing.T) {
	g, err := yahtzee.NewGame(yahtzee.NewPlayers("Ann"),
		yahtzee.WithSource(dice.NewSequenceSource(1, 2, 3, 4, 5, 6)))
	require.NoError(t, err)
	require.NoError(t, g.SetDieHeld(0, true))

	require.NoError(t, g.RollDice())

	assert.Equal(t, [dice.Count]int{1, 6, 1, 2, 3}, g.Dice().Values)
}

func TestSetDieHeld_AllowedWithNoRollsRemaining(t *testing.T) {
	g := newGame(t, "Ann")
	require.NoError(t, g.RollDice())
	require.NoError(t, g.RollDice())
	require.NoError(t, g.SetDieHeld(4, true))
	assert.True(t, g.Dice().Held[4])
}

func TestSetDieHeld_IndexOutOfRange(t *testing.T) {
	g := newGame(t, "Ann")
	notified := 0
	g.Subscribe(func() { notified++ })

	assert.ErrorIs(t, g.SetDieHeld(5, true), dice.ErrIndexOutOfRange)
	assert.ErrorIs(t, g.SetDieHeld(-1, true), dice.ErrIndexOutOfRange)
	assert.Zero(t, notified)
}

func TestMakeMove_AlreadyPlayedLeavesStateUnchanged(t *testing.T) {
	g := newGame(t, "Ann")
	play(t, g, combination.Chance, 1, 2, 3, 4, 6)
	require.NoError(t, g.RollDice())
	require.NoError(t, g.SetDieHeld(2, true))

	before := g.Dice()
	beforeScore := score(t, g, 0)
	notified := 0
	g.Subscribe(func() { notified++ })

	err := g.MakeMove(combination.Chance)

	assert.ErrorIs(t, err, yahtzee.ErrAlreadyPlayed)
	assert.Equal(t, before, g.Dice())
	assert.Equal(t, 1, g.RollsRemaining())
	assert.Equal(t, 0, g.WhoseTurn())
	assert.Equal(t, beforeScore, score(t, g, 0))
	moves, err := g.PlayerMoves(0)
	require.NoError(t, err)
	assert.Len(t, moves, 1)
	assert.Zero(t, notified)
}

func TestMakeMove_AlreadyPlayedIsPerPlayer(t *testing.T) {
	g := newGame(t, "Ann", "Bob")
	play(t, g, combination.Chance, 1, 2, 3, 4, 6)
	play(t, g, combination.Chance, 6, 6, 6, 5, 5)
	assert.Equal(t, 16, score(t, g, 0))
	assert.Equal(t, 28, score(t, g, 1))
	assert.ErrorIs(t, g.MakeMove(combination.Chance), yahtzee.ErrAlreadyPlayed)
}

func TestMakeMove_UnknownCategory(t *testing.T) {
	g := newGame(t, "Ann")
	assert.ErrorIs(t, g.MakeMove(combination.Category(42)), combination.ErrUnknownCategory)
	_, _, err := g.Potential(combination.Category(42))
	assert.ErrorIs(t, err, combination.ErrUnknownCategory)
}

func TestFullHouse(t *testing.T) {
	g := newGame(t, "Patrick", "James")

	require.NoError(t, g.SetDice([]int{2, 1, 1, 2, 2}))
	assert.Equal(t, 25, potential(t, g, combination.FullHouse))
	require.NoError(t, g.SetDice([]int{1, 1, 2, 1, 2}))
	assert.Equal(t, 25, potential(t, g, combination.FullHouse))
	require.NoError(t, g.SetDice([]int{3, 1, 1, 2, 2}))
	assert.Equal(t, 0, potential(t, g, combination.FullHouse))
	require.NoError(t, g.SetDice([]int{1, 1, 1, 1, 1}))
	assert.Equal(t, 0, potential(t, g, combination.FullHouse))
}

func TestSmallStraight(t *testing.T) {
	g := newGame(t, "Ann")
	require.NoError(t, g.SetDice([]int{1, 2, 3, 4, 2}))
	assert.Equal(t, 30, potential(t, g, combination.SmallStraight))
	require.NoError(t, g.SetDice([]int{2, 3, 1, 5, 4}))
	assert.Equal(t, 30, potential(t, g, combination.SmallStraight))
}

func TestJoker_SecondYahtzeeAfterUpperPlayed(t *testing.T) {
	g := newGame(t, "Patrick")

	play(t, g, combination.Yahtzee, 6, 6, 6, 6, 6)
	assert.Equal(t, 50, score(t, g, 0))

	play(t, g, combination.Fives, 1, 2, 3, 4, 6)

	require.NoError(t, g.SetDice([]int{5, 5, 5, 5, 5}))
	assert.True(t, g.IsYahtzee())
	assert.True(t, g.JokerActive())
	assert.Equal(t, 25, potential(t, g, combination.FullHouse))
	assert.Equal(t, 30, potential(t, g, combination.SmallStraight))
	assert.Equal(t, 40, potential(t, g, combination.LargeStraight))

	require.NoError(t, g.MakeMove(combination.FullHouse))

	bonus, err := g.BonusYahtzeeCount(0)
	require.NoError(t, err)
	assert.Equal(t, 1, bonus)
	assert.Equal(t, 175, score(t, g, 0))
}

func TestJoker_NotBeforeUpperPlayed(t *testing.T) {
	g := newGame(t, "Patrick")

	play(t, g, combination.Yahtzee, 6, 6, 6, 6, 6)

	require.NoError(t, g.SetDice([]int{5, 5, 5, 5, 5}))
	assert.False(t, g.JokerActive())
	assert.Equal(t, 0, potential(t, g, combination.FullHouse))
	assert.Equal(t, 0, potential(t, g, combination.SmallStraight))
	assert.Equal(t, 0, potential(t, g, combination.LargeStraight))

	// Scoring Fives with a real second Yahtzee earns the bonus too.
	require.NoError(t, g.MakeMove(combination.Fives))

	play(t, g, combination.FullHouse, 5, 5, 5, 5, 5)

	bonus, err := g.BonusYahtzeeScore(0)
	require.NoError(t, err)
	assert.Equal(t, 200, bonus)
	// 50 Yahtzee + 25 Fives + 25 Full House + 200 bonus.
	assert.Equal(t, 300, score(t, g, 0))
}

func TestJoker_NotAllowedAfterZeroedYahtzee(t *testing.T) {
	g := newGame(t, "Patrick")

	play(t, g, combination.Yahtzee, 1, 3, 5, 6, 6)
	bonus, err := g.BonusYahtzeeCount(0)
	require.NoError(t, err)
	assert.Equal(t, 0, bonus)
	assert.Equal(t, 0, score(t, g, 0))

	play(t, g, combination.Twos, 2, 2, 2, 2, 2)
	assert.Equal(t, 10, score(t, g, 0))

	require.NoError(t, g.SetDice([]int{2, 2, 2, 2, 2}))
	assert.False(t, g.JokerActive())
	assert.Equal(t, 0, potential(t, g, combination.FullHouse))
	assert.Equal(t, 0, potential(t, g, combination.SmallStraight))
	assert.Equal(t, 0, potential(t, g, combination.LargeStraight))

	require.NoError(t, g.MakeMove(combination.FourOfAKind))

	bonus, err = g.BonusYahtzeeCount(0)
	require.NoError(t, err)
	assert.Equal(t, 0, bonus)
	assert.Equal(t, 20, score(t, g, 0))
}

func TestJoker_NeverWhenYahtzeeUnplayed(t *testing.T) {
	g := newGame(t, "Ann")
	play(t, g, combination.Fours, 4, 4, 4, 4, 4)
	require.NoError(t, g.SetDice([]int{4, 4, 4, 4, 4}))
	assert.False(t, g.JokerActive())
	assert.Equal(t, 0, potential(t, g, combination.LargeStraight))
}

func TestUpperSectionBonus(t *testing.T) {
	g := newGame(t, "Ann")
	play(t, g, combination.Aces, 1, 1, 1, 2, 3)
	play(t, g, combination.Twos, 2, 2, 2, 1, 3)
	play(t, g, combination.Threes, 3, 3, 3, 1, 2)
	play(t, g, combination.Fours, 4, 4, 4, 1, 2)
	play(t, g, combination.Fives, 5, 5, 5, 1, 2)

	bonus, err := g.UpperSectionBonus(0)
	require.NoError(t, err)
	assert.Equal(t, 0, bonus)

	play(t, g, combination.Sixes, 6, 6, 6, 1, 2)

	upper, err := g.UpperSectionScore(0)
	require.NoError(t, err)
	assert.Equal(t, 63, upper)
	bonus, err = g.UpperSectionBonus(0)
	require.NoError(t, err)
	assert.Equal(t, yahtzee.UpperBonus, bonus)
	assert.Equal(t, 98, score(t, g, 0))

	moves, err := g.PlayerMoves(0)
	require.NoError(t, err)
	assert.Len(t, moves, 6, "bonus is derived, not recorded")
	lower, err := g.LowerSectionScore(0)
	require.NoError(t, err)
	assert.Zero(t, lower)
}

func TestGameOver(t *testing.T) {
	g := newGame(t, "Ann", "Bob")
	for _, c := range combination.All() {
		assert.False(t, g.IsGameOver())
		play(t, g, c, 1, 2, 3, 4, 6)
		assert.False(t, g.IsGameOver(), "second player has not played %s", c)
		play(t, g, c, 1, 2, 3, 4, 6)
	}
	assert.True(t, g.IsGameOver())
	assert.ErrorIs(t, g.MakeMove(combination.Chance), yahtzee.ErrGameOver)
	assert.ErrorIs(t, g.RollDice(), yahtzee.ErrGameOver)
	assert.NoError(t, g.SetDieHeld(0, true))
}

func TestStandings(t *testing.T) {
	g := newGame(t, "Ann", "Bob", "Cy")
	play(t, g, combination.Chance, 1, 1, 1, 1, 2)
	play(t, g, combination.Chance, 6, 6, 6, 6, 5)
	play(t, g, combination.Chance, 6, 6, 6, 5, 6)

	st := g.Standings()
	require.Len(t, st, 3)
	assert.Equal(t, yahtzee.Standing{Seat: 1, Name: "Bob", Score: 29, Rank: 1}, st[0])
	assert.Equal(t, yahtzee.Standing{Seat: 2, Name: "Cy", Score: 29, Rank: 1}, st[1])
	assert.Equal(t, yahtzee.Standing{Seat: 0, Name: "Ann", Score: 6, Rank: 3}, st[2])
}

func TestInvalidPlayerIndex(t *testing.T) {
	g := newGame(t, "Ann")
	_, err := g.PlayerScore(1)
	assert.ErrorIs(t, err, yahtzee.ErrInvalidPlayer)
	_, err = g.PlayerMoves(-1)
	assert.ErrorIs(t, err, yahtzee.ErrInvalidPlayer)
	_, err = g.UpperSectionBonus(3)
	assert.ErrorIs(t, err, yahtzee.ErrInvalidPlayer)
	assert.ErrorIs(t, g.SetPlayerName(2, "x"), yahtzee.ErrInvalidPlayer)
}

func TestSetPlayerName(t *testing.T) {
	g := newGame(t, "Ann")
	require.NoError(t, g.SetPlayerName(0, "Annie"))
	assert.Equal(t, "Annie", g.CurrentPlayer().Name)
}

func TestPlayerMoves_ReturnsCopy(t *testing.T) {
	g := newGame(t, "Ann")
	play(t, g, combination.Chance, 1, 2, 3, 4, 6)
	moves, err := g.PlayerMoves(0)
	require.NoError(t, err)
	moves[combination.Yahtzee] = 50
	again, err := g.PlayerMoves(0)
	require.NoError(t, err)
	assert.NotContains(t, again, combination.Yahtzee)
}

func TestNotifications(t *testing.T) {
	g := newGame(t, "Ann", "Bob")
	var calls []string
	h := g.Subscribe(func() {
		calls = append(calls, g.CurrentPlayer().Name)
	})

	require.NoError(t, g.RollDice())
	require.NoError(t, g.SetDieHeld(0, true))
	require.NoError(t, g.MakeMove(combination.Chance))
	assert.Equal(t, []string{"Ann", "Ann", "Bob"}, calls, "observers see post-mutation state")

	require.NoError(t, g.RollDice())
	require.NoError(t, g.RollDice())
	assert.Error(t, g.RollDice())
	assert.Len(t, calls, 5, "failed operations do not notify")

	require.True(t, g.Unsubscribe(h))
	require.NoError(t, g.SetDieHeld(1, true))
	assert.Len(t, calls, 5)
}

// TestMakeMove_Property plays random open categories and checks turn
// cycling, roll reset, and held clearing after every move.
func TestMakeMove_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 4).Draw(rt, "players")
		names := make([]string, n)
		g, err := yahtzee.NewGame(yahtzee.NewPlayers(names...))
		require.NoError(rt, err)

		moves := rapid.IntRange(1, 13*n).Draw(rt, "moves")
		for i := 0; i < moves; i++ {
			turn := g.WhoseTurn()
			played, err := g.PlayerMoves(turn)
			require.NoError(rt, err)
			var open []combination.Category
			for _, c := range combination.All() {
				if _, ok := played[c]; !ok {
					open = append(open, c)
				}
			}
			c := rapid.SampledFrom(open).Draw(rt, "category")
			for d := 0; d < dice.Count; d++ {
				require.NoError(rt, g.SetDieHeld(d, rapid.Bool().Draw(rt, "held")))
			}

			require.NoError(rt, g.MakeMove(c))

			assert.Equal(rt, (turn+1)%n, g.WhoseTurn())
			assert.Equal(rt, yahtzee.RollsPerTurn, g.RollsRemaining())
			assert.Equal(rt, [dice.Count]bool{}, g.Dice().Held)
		}
		assert.Equal(rt, moves == 13*n, g.IsGameOver())
	})
}
