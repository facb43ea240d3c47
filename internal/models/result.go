package models

import (
	"time"

	"minesweeper-backend/internal/game"
)

// GameResult is the persisted record of a finished round.
type GameResult struct {
	ID             string       `json:"id" redis:"id"`
	GameID         string       `json:"game_id" redis:"game_id"`
	PlayerName     string       `json:"player_name" redis:"player_name"`
	Difficulty     string       `json:"difficulty" redis:"difficulty"`
	Outcome        game.Outcome `json:"outcome" redis:"outcome"`
	ElapsedSeconds int          `json:"elapsed_seconds" redis:"elapsed_seconds"`
	Score          int          `json:"score" redis:"score"`
	Seed           uint64       `json:"seed,string" redis:"seed"`
	FirstMove      game.Coord   `json:"first_move" redis:"-"`
	FinishedAt     time.Time    `json:"finished_at" redis:"finished_at"`
}

func NewGameResult(gameID string, r *game.Result) *GameResult {
	return &GameResult{
		ID:             GenerateResultID(),
		GameID:         gameID,
		PlayerName:     r.Player,
		Difficulty:     r.Difficulty,
		Outcome:        r.Outcome,
		ElapsedSeconds: r.ElapsedSeconds,
		Score:          r.Score,
		Seed:           r.Seed,
		FirstMove:      r.FirstMove,
		FinishedAt:     r.FinishedAt,
	}
}

func (r *GameResult) Won() bool {
	return r.Outcome == game.Victory
}
