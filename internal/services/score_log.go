package services

import (
	"context"
	"fmt"
	"os"
	"sync"

	"minesweeper-backend/internal/models"
)

// ScoreLog appends one line per finished round to a text file.
type ScoreLog struct {
	mu   sync.Mutex
	path string
}

func NewScoreLog(path string) *ScoreLog {
	return &ScoreLog{path: path}
}

func (l *ScoreLog) Path() string {
	return l.path
}

func (l *ScoreLog) RecordResult(ctx context.Context, result *models.GameResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open score log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, result.ScoreLine()); err != nil {
		return fmt.Errorf("failed to write score log: %w", err)
	}
	return nil
}
