package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/yahtzee/internal/frontend/telnet"
	"github.com/cory-johannsen/yahtzee/internal/game/combination"
	"github.com/cory-johannsen/yahtzee/internal/game/command"
	"github.com/cory-johannsen/yahtzee/internal/game/dice"
	"github.com/cory-johannsen/yahtzee/internal/game/yahtzee"
	"github.com/cory-johannsen/yahtzee/internal/storage/postgres"
)

const (
	labelWidth  = 16
	columnWidth = 10
)

// Renderer formats game state as Telnet text.
type Renderer struct {
	Palette telnet.Palette
}

// RenderDice formats the dice under their 1-based positions. Held dice are
// bracketed.
func (r Renderer) RenderDice(v dice.View) string {
	pos := make([]string, dice.Count)
	faces := make([]string, dice.Count)
	for i, val := range v.Values {
		pos[i] = fmt.Sprintf(" %d ", i+1)
		if v.Held[i] {
			faces[i] = r.Palette.Paintf(telnet.BrightYellow, "[%d]", val)
		} else {
			faces[i] = r.Palette.Paintf(telnet.BrightWhite, " %d ", val)
		}
	}
	return "  " + r.Palette.Paint(telnet.Dim, strings.Join(pos, " ")) + "\r\n" +
		"  " + strings.Join(faces, " ")
}

// RenderTurn formats whose turn it is, the dice, and the rolls left.
//
// Precondition: g must not be mutated concurrently.
func (r Renderer) RenderTurn(g *yahtzee.Game) string {
	var b strings.Builder
	b.WriteString(r.Palette.Paintf(telnet.BrightCyan, "%s to play", g.CurrentPlayer().Name))
	b.WriteString(r.Palette.Paintf(telnet.Dim, "  (rolls left: %d)", g.RollsRemaining()))
	b.WriteString("\r\n")
	b.WriteString(r.RenderDice(g.Dice()))
	if g.IsYahtzee() {
		b.WriteString("\r\n")
		b.WriteString(r.Palette.Paint(telnet.Bold+telnet.BrightGreen, "  YAHTZEE!"))
	}
	return b.String()
}

// RenderBoard formats every player's scorecard side by side, with section
// subtotals, bonuses and grand totals. The current player's column header
// is highlighted.
//
// Precondition: g must not be mutated concurrently.
func (r Renderer) RenderBoard(g *yahtzee.Game) string {
	players := g.Players()
	moves := make([]map[combination.Category]int, len(players))
	for i := range players {
		// Seats come from g.Players so the index is always valid.
		moves[i], _ = g.PlayerMoves(i)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-*s", labelWidth, ""))
	for i, p := range players {
		cell := fmt.Sprintf("%*s", columnWidth, truncate(p.Name, columnWidth-1))
		if i == g.WhoseTurn() && !g.IsGameOver() {
			cell = r.Palette.Paint(telnet.BrightCyan, cell)
		}
		b.WriteString(cell)
	}
	b.WriteString("\r\n")
	b.WriteString(r.Palette.Paint(telnet.Dim, strings.Repeat("-", labelWidth+columnWidth*len(players))))
	b.WriteString("\r\n")

	writeCats := func(cats []combination.Category) {
		for _, c := range cats {
			b.WriteString(fmt.Sprintf("%-*s", labelWidth, c.Name()))
			for i := range players {
				if s, ok := moves[i][c]; ok {
					b.WriteString(fmt.Sprintf("%*d", columnWidth, s))
				} else {
					b.WriteString(r.Palette.Paint(telnet.Dim, fmt.Sprintf("%*s", columnWidth, "-")))
				}
			}
			b.WriteString("\r\n")
		}
	}
	writeRow := func(label, color string, value func(p int) (int, error)) {
		b.WriteString(r.Palette.Paint(color, fmt.Sprintf("%-*s", labelWidth, label)))
		for i := range players {
			v, _ := value(i)
			b.WriteString(r.Palette.Paint(color, fmt.Sprintf("%*d", columnWidth, v)))
		}
		b.WriteString("\r\n")
	}

	writeCats(combination.UpperCategories())
	writeRow("Upper subtotal", telnet.Cyan, g.UpperSectionScore)
	writeRow("Upper bonus", telnet.Cyan, g.UpperSectionBonus)
	writeCats(combination.LowerCategories())
	writeRow("Lower subtotal", telnet.Cyan, g.LowerSectionScore)
	writeRow("Yahtzee bonus", telnet.Cyan, g.BonusYahtzeeScore)
	writeRow("Total", telnet.BrightWhite, g.PlayerScore)
	return strings.TrimSuffix(b.String(), "\r\n")
}

// RenderOptions lists what each open category would score for the current
// player with the current dice.
//
// Precondition: g must not be mutated concurrently.
func (r Renderer) RenderOptions(g *yahtzee.Game) string {
	var b strings.Builder
	b.WriteString(r.Palette.Paintf(telnet.BrightWhite, "Options for %s:", g.CurrentPlayer().Name))
	if g.JokerActive() {
		b.WriteString(r.Palette.Paint(telnet.BrightGreen, " (Joker rules apply)"))
	}
	b.WriteString("\r\n")
	for _, c := range combination.All() {
		score, open, err := g.Potential(c)
		if err != nil || !open {
			continue
		}
		color := telnet.White
		if score == 0 {
			color = telnet.Dim
		}
		b.WriteString(r.Palette.Paintf(color, "  %-*s %3d", labelWidth, c.Name(), score))
		b.WriteString("\r\n")
	}
	return strings.TrimSuffix(b.String(), "\r\n")
}

// RenderStandings formats the ranked results.
func (r Renderer) RenderStandings(standings []yahtzee.Standing) string {
	var b strings.Builder
	b.WriteString(r.Palette.Paint(telnet.Bold+telnet.BrightYellow, "=== Final Standings ==="))
	for _, s := range standings {
		b.WriteString("\r\n")
		line := fmt.Sprintf("  %d. %-*s %5d", s.Rank, columnWidth*2, s.Name, s.Score)
		if s.Rank == 1 {
			line = r.Palette.Paint(telnet.BrightGreen, line)
		}
		b.WriteString(line)
	}
	return b.String()
}

// RenderTopScores formats the recorded leaderboard.
func (r Renderer) RenderTopScores(scores []postgres.HighScore) string {
	if len(scores) == 0 {
		return r.Palette.Paint(telnet.Dim, "No games have been recorded yet.")
	}
	var b strings.Builder
	b.WriteString(r.Palette.Paint(telnet.BrightWhite, "=== Best Scores ==="))
	for i, s := range scores {
		b.WriteString("\r\n")
		b.WriteString(fmt.Sprintf("  %2d. %-*s %5d  %s", i+1, columnWidth*2, s.Name, s.Score,
			r.Palette.Paint(telnet.Dim, s.FinishedAt.Format("2006-01-02"))))
	}
	return b.String()
}

// RenderHelp formats the command list grouped by category.
func (r Renderer) RenderHelp(reg *command.Registry) string {
	var b strings.Builder
	b.WriteString(r.Palette.Paint(telnet.BrightWhite, "Commands:"))
	byCat := reg.CommandsByCategory()
	for _, cat := range []string{command.CategoryPlay, command.CategoryInfo, command.CategorySystem} {
		cmds := byCat[cat]
		if len(cmds) == 0 {
			continue
		}
		b.WriteString("\r\n")
		b.WriteString(r.Palette.Paintf(telnet.Cyan, "  %s", cat))
		for _, cmd := range cmds {
			b.WriteString("\r\n")
			usage := fmt.Sprintf("    %-24s", cmd.Usage)
			b.WriteString(r.Palette.Paint(telnet.Green, usage))
			b.WriteString(cmd.Help)
			if len(cmd.Aliases) > 0 {
				b.WriteString(r.Palette.Paintf(telnet.Dim, " (%s)", strings.Join(cmd.Aliases, ", ")))
			}
		}
	}
	b.WriteString("\r\n")
	b.WriteString(r.Palette.Paint(telnet.Dim, "  Categories: "+categoryList()))
	return b.String()
}

func categoryList() string {
	cats := combination.All()
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = c.Name()
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
