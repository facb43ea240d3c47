package game

// ComputeAdjacency sets AdjacentMines on every non-mine cell.
func ComputeAdjacency(b *Board) {
	for row := range b.rows {
		for col := range b.cols {
			if b.cells[b.index(row, col)].HasMine {
				continue
			}
			count := 0
			for _, n := range b.Neighbors(row, col) {
				if b.cells[b.index(n.Row, n.Col)].HasMine {
					count++
				}
			}
			b.setAdjacency(row, col, count)
		}
	}
}
