package game

import "errors"

var (
	ErrOutOfBounds      = errors.New("coordinate out of bounds")
	ErrInvalidTarget    = errors.New("invalid target cell")
	ErrConfiguration    = errors.New("invalid board configuration")
	ErrRoundOver        = errors.New("round is over")
	ErrAlreadyGenerated = errors.New("mines already placed")
)
