package game

import "testing"

func TestWonTracksRevealedCount(t *testing.T) {
	b := boardWithMines(t, 2, 3, Coord{0, 0}, Coord{1, 2})
	safe := []Coord{{0, 1}, {0, 2}, {1, 0}, {1, 1}}

	for i, c := range safe {
		if Won(b) {
			t.Fatalf("won after only %d reveals", i)
		}
		b.reveal(c.Row, c.Col)
	}

	if !Won(b) {
		t.Errorf("expected win with %d of %d cells revealed", b.RevealedCount(), b.TotalCells())
	}
}

func TestWonIgnoresFlags(t *testing.T) {
	b := boardWithMines(t, 2, 2, Coord{0, 0})
	b.toggleFlag(0, 0)
	b.reveal(0, 1)
	b.reveal(1, 0)

	if Won(b) {
		t.Error("flags must not count towards winning")
	}
	b.reveal(1, 1)
	if !Won(b) {
		t.Error("expected win")
	}
}
