package game

import (
	"fmt"
	"math/rand/v2"
)

// Rand is the randomness used for mine placement. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewSeededRand returns a deterministic source for the given seed.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// PlaceMines picks TotalMines distinct cells uniformly at random from every
// cell except safe and marks them as mines.
func PlaceMines(b *Board, safe Coord, rng Rand) error {
	if b.generated {
		return ErrAlreadyGenerated
	}
	if !b.InBounds(safe.Row, safe.Col) {
		return fmt.Errorf("%w: safe cell %s", ErrOutOfBounds, safe)
	}
	if err := validateDimensions(b.rows, b.cols, b.totalMines); err != nil {
		return err
	}

	safeIndex := b.index(safe.Row, safe.Col)
	candidates := make([]int, 0, b.TotalCells()-1)
	for i := range b.TotalCells() {
		if i != safeIndex {
			candidates = append(candidates, i)
		}
	}

	// partial Fisher-Yates: each pick is swapped out of the live range
	k := len(candidates)
	for range b.totalMines {
		i := rng.IntN(k)
		pos := b.coord(candidates[i])
		b.setMine(pos.Row, pos.Col)
		k--
		candidates[i] = candidates[k]
	}

	b.generated = true
	return nil
}
