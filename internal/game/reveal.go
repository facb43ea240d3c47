package game

import "github.com/gammazero/deque"

// Reveal opens start and, when start has no adjacent mines, cascades through the
// connected zero region and its numbered border. The caller guarantees start is
// in bounds, unmined, unflagged and unrevealed. Opened cells are returned in the
// order they were revealed.
func Reveal(b *Board, start Coord) []Coord {
	first := b.cells[b.index(start.Row, start.Col)]
	if first.AdjacentMines > 0 {
		if b.reveal(start.Row, start.Col) {
			return []Coord{start}
		}
		return nil
	}

	var opened []Coord
	queued := make([]bool, len(b.cells))

	var queue deque.Deque[int]
	queue.PushBack(b.index(start.Row, start.Col))
	queued[b.index(start.Row, start.Col)] = true

	for queue.Len() > 0 {
		pos := b.coord(queue.PopFront())
		cell := b.cells[b.index(pos.Row, pos.Col)]
		if cell.Revealed || cell.Flagged {
			continue
		}

		b.reveal(pos.Row, pos.Col)
		opened = append(opened, pos)

		if cell.AdjacentMines != 0 {
			continue
		}
		for _, n := range b.Neighbors(pos.Row, pos.Col) {
			i := b.index(n.Row, n.Col)
			if queued[i] {
				continue
			}
			next := b.cells[i]
			if next.Revealed || next.Flagged {
				continue
			}
			queued[i] = true
			queue.PushBack(i)
		}
	}

	return opened
}
