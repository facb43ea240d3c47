package game

import "fmt"

// Cell is the state of one grid position. AdjacentMines is only read when
// HasMine is false.
type Cell struct {
	HasMine       bool
	AdjacentMines int
	Revealed      bool
	Flagged       bool
}

type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}
