package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidCommand = errors.New("invalid command")

// Command is one line of player input: "row col" reveals, "m row col" toggles a
// flag. Coordinates are 0-based.
type Command struct {
	Flag bool
	Row  int
	Col  int
}

func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)

	var cmd Command
	switch {
	case len(fields) == 2:
	case len(fields) == 3 && strings.EqualFold(fields[0], "m"):
		cmd.Flag = true
		fields = fields[1:]
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, line)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return Command{}, fmt.Errorf("%w: row %q is not a number", ErrInvalidCommand, fields[0])
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return Command{}, fmt.Errorf("%w: column %q is not a number", ErrInvalidCommand, fields[1])
	}

	cmd.Row, cmd.Col = row, col
	return cmd, nil
}
