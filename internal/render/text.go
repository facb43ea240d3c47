package render

import (
	"errors"
	"fmt"
	"strings"

	"minesweeper-backend/internal/game"
)

const Tutorial = `=== WELCOME TO BUSCAMINAS ===

Rules:
1. Open every cell that does not hide a mine.
2. Opening a mine ends the round.
3. A number tells how many mines touch that cell.
4. Flag cells you believe hide a mine.

How to play:
- To open a cell, type 'row col'. Example: '3 5'.
- To flag or unflag a cell, type 'm row col'. Example: 'm 3 5'.
- Rows and columns start at 0.
- Good luck!
`

const Prompt = "Your move ('row col' to open, 'm row col' to flag): "

func DifficultyMenu(profiles []game.Profile) string {
	var b strings.Builder
	b.WriteString("Choose a difficulty:\n")
	for i, p := range profiles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return b.String()
}

// RejectionMessage explains why a line of input was not applied.
func RejectionMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCommand):
		return "Invalid input. Please try again."
	case errors.Is(err, game.ErrOutOfBounds):
		return "Coordinates out of bounds. Please try again."
	case errors.Is(err, game.ErrInvalidTarget):
		return fmt.Sprintf("That cell cannot be played (%v).", err)
	case errors.Is(err, game.ErrRoundOver):
		return "The round is already over."
	default:
		return err.Error()
	}
}
