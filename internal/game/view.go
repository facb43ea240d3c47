package game

import "fmt"

type ViewKind int

const (
	Hidden ViewKind = iota
	Flagged
	RevealedBlank
	RevealedNumber
	RevealedMine
)

var viewKindNames = map[ViewKind]string{
	Hidden:         "hidden",
	Flagged:        "flagged",
	RevealedBlank:  "blank",
	RevealedNumber: "number",
	RevealedMine:   "mine",
}

func (k ViewKind) String() string {
	if name, ok := viewKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ViewKind(%d)", int(k))
}

func (k ViewKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ViewKind) UnmarshalText(text []byte) error {
	for kind, name := range viewKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown cell view %q", text)
}

// CellView is what a renderer may know about a cell. Count is set only for
// RevealedNumber.
type CellView struct {
	Kind  ViewKind `json:"kind"`
	Count int      `json:"count,omitempty"`
}

// ViewOf derives the render view of a cell. revealAll exposes unrevealed mines
// and is meant for end-of-round display.
func ViewOf(c Cell, revealAll bool) CellView {
	if c.Revealed || (revealAll && c.HasMine) {
		switch {
		case c.HasMine:
			return CellView{Kind: RevealedMine}
		case c.AdjacentMines > 0:
			return CellView{Kind: RevealedNumber, Count: c.AdjacentMines}
		default:
			return CellView{Kind: RevealedBlank}
		}
	}
	if c.Flagged {
		return CellView{Kind: Flagged}
	}
	return CellView{Kind: Hidden}
}

func (b *Board) View(revealAll bool) [][]CellView {
	grid := make([][]CellView, b.rows)
	for row := range b.rows {
		grid[row] = make([]CellView, b.cols)
		for col := range b.cols {
			grid[row][col] = ViewOf(b.cells[b.index(row, col)], revealAll)
		}
	}
	return grid
}
