package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"minesweeper-backend/internal/game"
)

const cellWidth = 3

const (
	symbolHidden = "#"
	symbolFlag   = "!"
	symbolMine   = "*"
	symbolBlank  = " "
)

// Renderer draws boards and round summaries for a terminal. Colours are
// dropped when the output is not a colour terminal.
type Renderer struct {
	axis    lipgloss.Style
	hidden  lipgloss.Style
	flag    lipgloss.Style
	mine    lipgloss.Style
	numbers [8]lipgloss.Style
	lost    lipgloss.Style
	won     lipgloss.Style
	warning lipgloss.Style
}

func NewRenderer(w io.Writer) *Renderer {
	lr := lipgloss.NewRenderer(w)
	cell := lr.NewStyle().Width(cellWidth).Align(lipgloss.Center)

	r := &Renderer{
		axis:    lr.NewStyle().Foreground(lipgloss.Color("6")),
		hidden:  cell.Foreground(lipgloss.Color("7")),
		flag:    cell.Foreground(lipgloss.Color("3")).Bold(true),
		mine:    cell.Foreground(lipgloss.Color("1")).Bold(true),
		lost:    lr.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		won:     lr.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		warning: lr.NewStyle().Foreground(lipgloss.Color("3")),
	}
	for i, color := range []string{"4", "2", "1", "5", "6", "9", "10", "12"} {
		r.numbers[i] = cell.Foreground(lipgloss.Color(color))
	}
	return r
}

func (r *Renderer) Board(view [][]game.CellView) string {
	if len(view) == 0 {
		return ""
	}

	var b strings.Builder
	header := make([]string, len(view[0]))
	for c := range header {
		header[c] = lipgloss.PlaceHorizontal(cellWidth, lipgloss.Center, strconv.Itoa(c))
	}
	b.WriteString(r.axis.Render("    " + strings.Join(header, "")))
	b.WriteByte('\n')

	for row, cells := range view {
		b.WriteString(r.axis.Render(fmt.Sprintf("%2d  ", row)))
		for _, cell := range cells {
			b.WriteString(r.cell(cell))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Renderer) cell(v game.CellView) string {
	switch v.Kind {
	case game.Flagged:
		return r.flag.Render(symbolFlag)
	case game.RevealedMine:
		return r.mine.Render(symbolMine)
	case game.RevealedNumber:
		if v.Count >= 1 && v.Count <= len(r.numbers) {
			return r.numbers[v.Count-1].Render(strconv.Itoa(v.Count))
		}
		return r.hidden.Render(strconv.Itoa(v.Count))
	case game.RevealedBlank:
		return r.hidden.Render(symbolBlank)
	default:
		return r.hidden.Render(symbolHidden)
	}
}

func (r *Renderer) Status(s *game.Session) string {
	p := s.Profile()
	return r.axis.Render(fmt.Sprintf("%s | mines %d | flags %d | %ds",
		p.Name, p.Mines, s.FlagsPlaced(), int(s.Elapsed().Seconds())))
}

func (r *Renderer) Summary(result *game.Result) string {
	var headline string
	if result.Outcome == game.Victory {
		headline = r.won.Render("Congratulations! You won!")
	} else {
		headline = r.lost.Render("You lost! You opened a mine.")
	}
	return fmt.Sprintf("%s\nTotal time: %d seconds.\nScore: %d\n",
		headline, result.ElapsedSeconds, result.Score)
}

func (r *Renderer) Warning(text string) string {
	return r.warning.Render(text)
}
