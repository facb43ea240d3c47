package game

import "fmt"

// Board owns a rows x cols grid stored row-major. Mines are placed lazily on the
// first reveal, so a fresh board starts ungenerated with no mines at all.
type Board struct {
	rows       int
	cols       int
	totalMines int
	cells      []Cell
	generated  bool
	revealed   int
	flagged    int
}

func NewBoard(rows, cols, mines int) (*Board, error) {
	if err := validateDimensions(rows, cols, mines); err != nil {
		return nil, err
	}

	return &Board{
		rows:       rows,
		cols:       cols,
		totalMines: mines,
		cells:      make([]Cell, rows*cols),
	}, nil
}

func validateDimensions(rows, cols, mines int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrConfiguration, rows, cols)
	}
	if mines <= 0 {
		return fmt.Errorf("%w: mine count must be positive, got %d", ErrConfiguration, mines)
	}
	if mines >= rows*cols {
		return fmt.Errorf("%w: %d mines do not fit a %dx%d grid", ErrConfiguration, mines, rows, cols)
	}
	return nil
}

func (b *Board) Rows() int       { return b.rows }
func (b *Board) Cols() int       { return b.cols }
func (b *Board) TotalMines() int { return b.totalMines }
func (b *Board) TotalCells() int { return b.rows * b.cols }

// Generated reports whether mines have been placed.
func (b *Board) Generated() bool { return b.generated }

func (b *Board) RevealedCount() int { return b.revealed }
func (b *Board) FlagCount() int     { return b.flagged }

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

func (b *Board) index(row, col int) int {
	return row*b.cols + col
}

func (b *Board) coord(index int) Coord {
	return Coord{Row: index / b.cols, Col: index % b.cols}
}

func (b *Board) CellAt(row, col int) (Cell, error) {
	if !b.InBounds(row, col) {
		return Cell{}, fmt.Errorf("%w: %s on %dx%d board", ErrOutOfBounds, Coord{row, col}, b.rows, b.cols)
	}
	return b.cells[b.index(row, col)], nil
}

// Neighbors returns the up-to-8 cells at Chebyshev distance 1, clipped at the
// grid edges.
func (b *Board) Neighbors(row, col int) []Coord {
	out := make([]Coord, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := row+dr, col+dc
			if b.InBounds(nr, nc) {
				out = append(out, Coord{Row: nr, Col: nc})
			}
		}
	}
	return out
}

// MinePositions lists mined cells in row-major order.
func (b *Board) MinePositions() []Coord {
	positions := make([]Coord, 0, b.totalMines)
	for i, c := range b.cells {
		if c.HasMine {
			positions = append(positions, b.coord(i))
		}
	}
	return positions
}

func (b *Board) setMine(row, col int) {
	if !b.InBounds(row, col) {
		return
	}
	b.cells[b.index(row, col)].HasMine = true
}

func (b *Board) setAdjacency(row, col, count int) {
	if !b.InBounds(row, col) {
		return
	}
	b.cells[b.index(row, col)].AdjacentMines = count
}

// reveal marks a cell revealed and reports whether it changed. Flagged cells
// are left alone.
func (b *Board) reveal(row, col int) bool {
	if !b.InBounds(row, col) {
		return false
	}
	cell := &b.cells[b.index(row, col)]
	if cell.Revealed || cell.Flagged {
		return false
	}
	cell.Revealed = true
	b.revealed++
	return true
}

func (b *Board) toggleFlag(row, col int) (bool, error) {
	if !b.InBounds(row, col) {
		return false, fmt.Errorf("%w: %s", ErrOutOfBounds, Coord{row, col})
	}
	cell := &b.cells[b.index(row, col)]
	if cell.Revealed {
		return false, fmt.Errorf("%w: cannot flag revealed cell %s", ErrInvalidTarget, Coord{row, col})
	}
	cell.Flagged = !cell.Flagged
	if cell.Flagged {
		b.flagged++
	} else {
		b.flagged--
	}
	return cell.Flagged, nil
}
