package game

// Won reports whether every safe cell has been revealed.
func Won(b *Board) bool {
	return b.RevealedCount() == b.TotalCells()-b.TotalMines()
}
