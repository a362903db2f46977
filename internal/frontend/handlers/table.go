// Package handlers provides the Telnet session handler that runs a hot-seat
// Yahtzee table for one connected client.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cory-johannsen/yahtzee/internal/config"
	"github.com/cory-johannsen/yahtzee/internal/frontend/telnet"
	"github.com/cory-johannsen/yahtzee/internal/game/combination"
	"github.com/cory-johannsen/yahtzee/internal/game/command"
	"github.com/cory-johannsen/yahtzee/internal/game/dice"
	"github.com/cory-johannsen/yahtzee/internal/game/notify"
	"github.com/cory-johannsen/yahtzee/internal/game/session"
	"github.com/cory-johannsen/yahtzee/internal/game/yahtzee"
	"github.com/cory-johannsen/yahtzee/internal/storage/postgres"
)

// MaxNameLength is the longest player name accepted at setup or rename.
const MaxNameLength = 64

// topScoresLimit is how many rows the top command shows.
const topScoresLimit = 10

// nameQuit is the only quit word accepted at a name prompt. Quit aliases
// typed there are taken as names.
const nameQuit = "quit"

// errQuit ends the session cleanly from inside setup or the command loop.
var errQuit = errors.New("player quit")

// ResultStore defines the results ledger operations required by TableHandler.
type ResultStore interface {
	Save(ctx context.Context, r postgres.Result) (postgres.Result, error)
	TopScores(ctx context.Context, limit int) ([]postgres.HighScore, error)
}

const welcomeBanner = `
` + telnet.Bold + telnet.BrightYellow + `  __   __    _     _
  \ \ / /_ _| |__ | |_ _______  ___
   \ V / _' | '_ \| __|_  / _ \/ _ \
    | | (_| | | | | |_ / /  __/  __/
    |_|\__,_|_| |_|\__/___\___|\___|` + telnet.Reset + `

  Five dice, thirteen boxes, three rolls a turn.
  Type ` + telnet.Green + `help` + telnet.Reset + ` at the table for commands, or ` + telnet.Green + `quit` + telnet.Reset + ` to leave.
`

// TableHandler implements telnet.SessionHandler. Each session sets up a
// hot-seat game, registers it with the session manager, and runs the
// command loop until the game ends or the client leaves.
type TableHandler struct {
	tables   *session.Manager
	results  ResultStore
	registry *command.Registry
	renderer Renderer
	cfg      config.Config
	logger   *zap.Logger
	opts     []yahtzee.Option
}

// NewTableHandler creates a TableHandler.
//
// Precondition: tables and logger must be non-nil. results may be nil, in
// which case finished games are not recorded.
// Postcondition: Returns a TableHandler ready to handle sessions. opts are
// applied to every game it opens.
func NewTableHandler(
	tables *session.Manager,
	results ResultStore,
	cfg config.Config,
	logger *zap.Logger,
	opts ...yahtzee.Option,
) *TableHandler {
	return &TableHandler{
		tables:   tables,
		results:  results,
		registry: command.DefaultRegistry(),
		renderer: Renderer{Palette: telnet.Palette{Enabled: cfg.Game.Color}},
		cfg:      cfg,
		logger:   logger,
		opts:     opts,
	}
}

// HandleSession implements telnet.SessionHandler.
//
// Postcondition: Returns nil when the player quits or the game finishes, or
// an error if the session ended abnormally. The table is closed on return.
func (h *TableHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	addr := conn.RemoteAddr().String()

	if err := conn.WriteBlock(h.paintBanner()); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	players, err := h.setup(ctx, conn)
	if errors.Is(err, errQuit) {
		_ = conn.WriteLine(h.renderer.Palette.Paint(telnet.Cyan, "Goodbye!"))
		return nil
	}
	if err != nil {
		return err
	}

	table, err := h.tables.Open(addr, players, h.opts...)
	if err != nil {
		return fmt.Errorf("opening table: %w", err)
	}
	defer func() {
		if err := h.tables.Close(table.ID); err != nil {
			h.logger.Warn("closing table", zap.String("table_id", table.ID), zap.Error(err))
		}
	}()
	logger := table.Logger
	logger.Info("table opened", zap.String("remote_addr", addr), zap.Strings("players", names(players)))

	err = h.play(ctx, conn, table, logger)
	switch {
	case errors.Is(err, errQuit):
		_ = conn.WriteLine(h.renderer.Palette.Paint(telnet.Cyan, "Goodbye!"))
		logger.Info("table abandoned", zap.Duration("session_duration", time.Since(start)))
		return nil
	case err != nil:
		return err
	}
	logger.Info("table finished", zap.Duration("session_duration", time.Since(start)))
	return nil
}

func (h *TableHandler) paintBanner() string {
	if h.renderer.Palette.Enabled {
		return welcomeBanner
	}
	return telnet.StripANSI(welcomeBanner)
}

// setup prompts for the player count and each player's name.
func (h *TableHandler) setup(ctx context.Context, conn *telnet.Conn) ([]yahtzee.Player, error) {
	maxPlayers := h.cfg.Game.MaxPlayers
	var count int
	for {
		line, err := h.prompt(ctx, conn, fmt.Sprintf("How many players (1-%d)? ", maxPlayers))
		if err != nil {
			return nil, err
		}
		if cmd, ok := h.registry.Resolve(line); ok && cmd.Handler == command.HandlerQuit {
			return nil, errQuit
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= maxPlayers {
			count = n
			break
		}
		_ = conn.WriteLine(h.renderer.Palette.Paintf(telnet.Red, "Please enter a number from 1 to %d.", maxPlayers))
	}

	namesIn := make([]string, count)
	for i := range namesIn {
		for {
			line, err := h.prompt(ctx, conn, fmt.Sprintf("Name for player %d [Player %d]: ", i+1, i+1))
			if err != nil {
				return nil, err
			}
			if line == nameQuit {
				return nil, errQuit
			}
			if err := checkName(line); err != nil {
				_ = h.fail(conn, err)
				continue
			}
			namesIn[i] = line
			break
		}
	}
	return yahtzee.NewPlayers(namesIn...), nil
}

// prompt writes p and returns the trimmed reply.
func (h *TableHandler) prompt(ctx context.Context, conn *telnet.Conn, p string) (string, error) {
	select {
	case <-ctx.Done():
		_ = conn.WriteLine(h.renderer.Palette.Paint(telnet.Yellow, "Server shutting down. Goodbye!"))
		return "", ctx.Err()
	default:
	}
	if err := conn.WritePrompt(h.renderer.Palette.Paint(telnet.BrightWhite, p)); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}
	line, err := conn.ReadLine()
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// play runs the command loop for table until the game ends.
func (h *TableHandler) play(ctx context.Context, conn *telnet.Conn, table *session.Table, logger *zap.Logger) error {
	// Every engine change marks the view stale; the loop re-renders the turn
	// after the command that caused it.
	var (
		stale  atomic.Bool
		handle notify.Handle
	)
	_ = table.Do(func(g *yahtzee.Game) error {
		handle = g.Subscribe(func() { stale.Store(true) })
		return nil
	})
	defer func() {
		_ = table.Do(func(g *yahtzee.Game) error {
			g.Unsubscribe(handle)
			return nil
		})
	}()

	if err := h.show(conn, table, h.renderer.RenderBoard); err != nil {
		return err
	}
	if err := h.show(conn, table, h.renderer.RenderTurn); err != nil {
		return err
	}

	for {
		line, err := h.prompt(ctx, conn, h.promptText(table))
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		stale.Store(false)
		over, err := h.dispatch(ctx, conn, table, logger, command.Parse(line))
		if err != nil {
			return err
		}
		if over {
			return h.finish(ctx, conn, table, logger)
		}
		if stale.Load() {
			if err := h.show(conn, table, h.renderer.RenderTurn); err != nil {
				return err
			}
		}
	}
}

// dispatch executes one parsed command. It reports whether the game is over
// after the command. Game rule violations are written to the client and are
// not returned.
func (h *TableHandler) dispatch(
	ctx context.Context,
	conn *telnet.Conn,
	table *session.Table,
	logger *zap.Logger,
	parsed command.ParseResult,
) (bool, error) {
	cmd, ok := h.registry.Resolve(parsed.Command)
	if !ok {
		return false, h.fail(conn, fmt.Errorf("unknown command %q, type help for a list", parsed.Command))
	}

	switch cmd.Handler {
	case command.HandlerRoll:
		return false, h.fail(conn, table.Do(func(g *yahtzee.Game) error { return g.RollDice() }))

	case command.HandlerHold, command.HandlerRelease:
		held := cmd.Handler == command.HandlerHold
		idx, err := command.ParseDieIndices(parsed.Args)
		if err != nil {
			return false, h.fail(conn, err)
		}
		return false, h.fail(conn, table.Do(func(g *yahtzee.Game) error {
			for _, i := range idx {
				if err := g.SetDieHeld(i, held); err != nil {
					return err
				}
			}
			return nil
		}))

	case command.HandlerScore:
		return h.score(conn, table, logger, parsed.RawArgs)

	case command.HandlerBoard:
		return false, h.show(conn, table, h.renderer.RenderBoard)

	case command.HandlerOptions:
		return false, h.show(conn, table, h.renderer.RenderOptions)

	case command.HandlerTop:
		return false, h.top(ctx, conn)

	case command.HandlerRename:
		return false, h.rename(conn, table, parsed)

	case command.HandlerHelp:
		return false, conn.WriteBlock(h.renderer.RenderHelp(h.registry))

	case command.HandlerQuit:
		return false, errQuit
	}
	return false, h.fail(conn, fmt.Errorf("command %q is not available at the table", cmd.Name))
}

func (h *TableHandler) score(conn *telnet.Conn, table *session.Table, logger *zap.Logger, arg string) (bool, error) {
	if arg == "" {
		return false, h.fail(conn, errors.New("score what? Try options to see open categories"))
	}
	c, err := combination.ParseCategory(arg)
	if err != nil {
		return false, h.fail(conn, err)
	}

	var (
		msg  string
		over bool
	)
	err = table.Do(func(g *yahtzee.Game) error {
		player := g.CurrentPlayer()
		points, _, err := g.Potential(c)
		if err != nil {
			return err
		}
		bonusBefore, _ := g.BonusYahtzeeCount(g.WhoseTurn())
		seat := g.WhoseTurn()
		if err := g.MakeMove(c); err != nil {
			return err
		}
		bonusAfter, _ := g.BonusYahtzeeCount(seat)

		msg = fmt.Sprintf("%s scores %d in %s.", player.Name, points, c.Name())
		if bonusAfter > bonusBefore {
			msg += fmt.Sprintf(" Bonus Yahtzee! +%d", yahtzee.BonusYahtzeeScore)
		}
		over = g.IsGameOver()
		return nil
	})
	if err != nil {
		return false, h.fail(conn, err)
	}
	logger.Debug("scored", zap.String("category", c.Name()))
	return over, conn.WriteLine(h.renderer.Palette.Paint(telnet.BrightGreen, msg))
}

func (h *TableHandler) rename(conn *telnet.Conn, table *session.Table, parsed command.ParseResult) error {
	if len(parsed.Args) < 2 {
		return h.fail(conn, errors.New("usage: rename <seat> <name>"))
	}
	seat, err := strconv.Atoi(parsed.Args[0])
	if err != nil {
		return h.fail(conn, fmt.Errorf("seat %q is not a number", parsed.Args[0]))
	}
	_, name, _ := strings.Cut(parsed.RawArgs, " ")
	name = strings.TrimSpace(name)
	if err := checkName(name); err != nil {
		return h.fail(conn, err)
	}
	return h.fail(conn, table.Do(func(g *yahtzee.Game) error {
		return g.SetPlayerName(seat-1, name)
	}))
}

func (h *TableHandler) top(ctx context.Context, conn *telnet.Conn) error {
	if h.results == nil {
		return conn.WriteLine(h.renderer.Palette.Paint(telnet.Dim, "Results are not being recorded on this server."))
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	scores, err := h.results.TopScores(ctx, topScoresLimit)
	if err != nil {
		h.logger.Error("loading top scores", zap.Error(err))
		return h.fail(conn, errors.New("the leaderboard is unavailable right now"))
	}
	return conn.WriteBlock(h.renderer.RenderTopScores(scores))
}

// finish shows the final board and standings and records the result.
func (h *TableHandler) finish(ctx context.Context, conn *telnet.Conn, table *session.Table, logger *zap.Logger) error {
	var standings []yahtzee.Standing
	_ = table.Do(func(g *yahtzee.Game) error {
		standings = g.Standings()
		return nil
	})
	if err := h.show(conn, table, h.renderer.RenderBoard); err != nil {
		return err
	}
	if err := conn.WriteBlock(h.renderer.RenderStandings(standings)); err != nil {
		return err
	}
	h.record(ctx, table, standings, logger)
	return conn.WriteLine(h.renderer.Palette.Paint(telnet.Cyan, "Game over. Thanks for playing!"))
}

// record saves a finished game when a ResultStore is configured. Failures
// are logged and do not end the session.
func (h *TableHandler) record(ctx context.Context, table *session.Table, standings []yahtzee.Standing, logger *zap.Logger) {
	if h.results == nil || !h.cfg.Game.RecordResults {
		return
	}
	res := postgres.Result{
		TableID: table.ID,
		Server:  h.cfg.Server.Name,
		Players: make([]postgres.ResultPlayer, len(standings)),
	}
	for i, s := range standings {
		res.Players[i] = postgres.ResultPlayer{Seat: s.Seat, Name: s.Name, Score: s.Score, Rank: s.Rank}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	saved, err := h.results.Save(ctx, res)
	if err != nil {
		logger.Error("recording result", zap.Error(err))
		return
	}
	logger.Info("result recorded", zap.String("result_id", saved.ID.String()))
}

// show renders table state with fn under the table lock and writes it.
func (h *TableHandler) show(conn *telnet.Conn, table *session.Table, fn func(*yahtzee.Game) string) error {
	var text string
	_ = table.Do(func(g *yahtzee.Game) error {
		text = fn(g)
		return nil
	})
	return conn.WriteBlock(text)
}

func (h *TableHandler) promptText(table *session.Table) string {
	var p string
	_ = table.Do(func(g *yahtzee.Game) error {
		p = fmt.Sprintf("[%s r:%d]> ", g.CurrentPlayer().Name, g.RollsRemaining())
		return nil
	})
	return p
}

// fail writes a rule violation to the client in red. It returns only
// transport errors, so callers can pass its result straight up.
func (h *TableHandler) fail(conn *telnet.Conn, err error) error {
	if err == nil {
		return nil
	}
	return conn.WriteLine(h.renderer.Palette.Paint(telnet.Red, describe(err)))
}

// describe turns engine errors into player-facing text.
func describe(err error) string {
	switch {
	case errors.Is(err, yahtzee.ErrOutOfRolls):
		return "No rolls left this turn. Pick a category to score."
	case errors.Is(err, yahtzee.ErrAlreadyPlayed):
		return "That category is already filled. Try options to see what is open."
	case errors.Is(err, yahtzee.ErrGameOver):
		return "The game is over."
	case errors.Is(err, yahtzee.ErrInvalidPlayer):
		return "There is no player in that seat."
	case errors.Is(err, combination.ErrUnknownCategory):
		return "Unknown category. Categories: " + categoryList()
	case errors.Is(err, command.ErrBadDieIndex), errors.Is(err, dice.ErrIndexOutOfRange):
		return "Die positions are 1 to 5, e.g. hold 1 3 5."
	}
	msg := err.Error()
	if msg == "" {
		return "Something went wrong."
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// checkName rejects names the results ledger cannot store.
func checkName(name string) error {
	if !utf8.ValidString(name) {
		return errors.New("names must be plain text")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("names are at most %d characters", MaxNameLength)
	}
	return nil
}

func names(players []yahtzee.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}
