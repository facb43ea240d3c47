package game

import "testing"

// scriptedRand replays picks, reduced modulo n.
type scriptedRand struct {
	picks []int
	next  int
}

func (r *scriptedRand) IntN(n int) int {
	if r.next >= len(r.picks) {
		return 0
	}
	v := r.picks[r.next] % n
	r.next++
	return v
}

// boardWithMines builds a generated board with mines exactly at the given cells.
func boardWithMines(t *testing.T, rows, cols int, mines ...Coord) *Board {
	t.Helper()
	b, err := NewBoard(rows, cols, len(mines))
	if err != nil {
		t.Fatalf("NewBoard(%d, %d, %d): %v", rows, cols, len(mines), err)
	}
	for _, m := range mines {
		b.setMine(m.Row, m.Col)
	}
	b.generated = true
	ComputeAdjacency(b)
	return b
}

func mustCell(t *testing.T, b *Board, row, col int) Cell {
	t.Helper()
	c, err := b.CellAt(row, col)
	if err != nil {
		t.Fatalf("CellAt(%d, %d): %v", row, col, err)
	}
	return c
}
