package models

import (
	"time"

	"minesweeper-backend/internal/game"
)

// GameSnapshot is the client view of one round.
type GameSnapshot struct {
	ID             string            `json:"id"`
	PlayerName     string            `json:"player_name"`
	Difficulty     string            `json:"difficulty"`
	State          game.State        `json:"state"`
	Rows           int               `json:"rows"`
	Cols           int               `json:"cols"`
	Mines          int               `json:"mines"`
	Flags          int               `json:"flags"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
	StartedAt      time.Time         `json:"started_at"`
	Cells          [][]game.CellView `json:"cells"`
	Result         *GameResult       `json:"result,omitempty"`
}

// MoveResponse is returned for reveal and flag commands.
type MoveResponse struct {
	Game    *GameSnapshot `json:"game"`
	Opened  []game.Coord  `json:"opened,omitempty"`
	Flagged bool          `json:"flagged"`
}

type BoardUpdate struct {
	GameID string       `json:"game_id"`
	State  game.State   `json:"state"`
	Opened []game.Coord `json:"opened,omitempty"`
	Flag   *game.Coord  `json:"flag,omitempty"`
}
