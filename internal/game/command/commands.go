// Package command provides the table command registry, parser, and built-in
// command definitions used by the Telnet front end.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/yahtzee/internal/game/dice"
)

// Categories for organizing commands in help output.
const (
	CategoryPlay   = "play"
	CategoryInfo   = "info"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to table actions.
const (
	HandlerRoll    = "roll"
	HandlerHold    = "hold"
	HandlerRelease = "release"
	HandlerScore   = "score"
	HandlerBoard   = "board"
	HandlerOptions = "options"
	HandlerTop     = "top"
	HandlerRename  = "rename"
	HandlerHelp    = "help"
	HandlerQuit    = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "hold <1-5>...".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler maps to the table action.
	Handler string
}

// BuiltinCommands returns all built-in table commands in help order.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "roll", Aliases: []string{"r"}, Usage: "roll", Help: "Reroll every die you are not holding", Category: CategoryPlay, Handler: HandlerRoll},
		{Name: "hold", Aliases: []string{"h", "keep"}, Usage: "hold <1-5>... | all", Help: "Hold dice by position so they are not rerolled", Category: CategoryPlay, Handler: HandlerHold},
		{Name: "release", Aliases: []string{"rel", "unhold"}, Usage: "release <1-5>... | all", Help: "Release held dice", Category: CategoryPlay, Handler: HandlerRelease},
		{Name: "score", Aliases: []string{"s", "play"}, Usage: "score <category>", Help: "Score the dice in a category and end your turn", Category: CategoryPlay, Handler: HandlerScore},

		{Name: "board", Aliases: []string{"b", "look", "l"}, Usage: "board", Help: "Show the scoreboard and dice", Category: CategoryInfo, Handler: HandlerBoard},
		{Name: "options", Aliases: []string{"o", "opts"}, Usage: "options", Help: "Show what each open category would score now", Category: CategoryInfo, Handler: HandlerOptions},
		{Name: "top", Aliases: []string{"leaders", "hiscores"}, Usage: "top", Help: "Show the best recorded scores", Category: CategoryInfo, Handler: HandlerTop},

		{Name: "rename", Aliases: nil, Usage: "rename <seat> <name>", Help: "Change a player's name", Category: CategorySystem, Handler: HandlerRename},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Leave the table", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// ErrBadDieIndex is returned when a die position argument is not in 1..5.
var ErrBadDieIndex = errors.New("die positions are 1 to 5")

// ParseDieIndices converts 1-based die positions into 0-based indices.
// The single argument "all" selects every die. Positions may be separated
// by spaces or commas, and a run of digits such as "135" names each digit.
//
// Postcondition: Returns distinct indices in ascending order, or an error.
func ParseDieIndices(args []string) ([]int, error) {
	if len(args) == 1 && strings.EqualFold(args[0], "all") {
		out := make([]int, dice.Count)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}

	var seen [dice.Count]bool
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part == "" {
				continue
			}
			for _, r := range part {
				n, err := strconv.Atoi(string(r))
				if err != nil || n < 1 || n > dice.Count {
					return nil, fmt.Errorf("%q: %w", part, ErrBadDieIndex)
				}
				seen[n-1] = true
			}
		}
	}

	var out []int
	for i, ok := range seen {
		if ok {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no positions given: %w", ErrBadDieIndex)
	}
	return out, nil
}
