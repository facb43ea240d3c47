package services

import (
	"context"

	"minesweeper-backend/internal/models"
)

// ResultRecorder persists finished rounds.
type ResultRecorder interface {
	RecordResult(ctx context.Context, result *models.GameResult) error
}

// ResultStore serves persisted results back to players.
type ResultStore interface {
	GetLeaderboard(ctx context.Context, difficulty string, limit int64) ([]*models.GameResult, error)
	GetPlayerHistory(ctx context.Context, player string, limit int64) ([]*models.GameResult, error)
	GetResult(ctx context.Context, id string) (*models.GameResult, error)
}
