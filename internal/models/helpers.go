package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateGameID() string {
	return uuid.New().String()
}

func GenerateResultID() string {
	return fmt.Sprintf("res_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateSessionID() string {
	return uuid.New().String()
}

// NormalizePlayerName trims the name and rejects characters that would break
// redis keys or the score log line format.
func NormalizePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("player name is required")
	}
	if len(name) > 32 {
		return "", fmt.Errorf("player name must be at most 32 characters")
	}
	if strings.ContainsAny(name, "|:\n\r") {
		return "", fmt.Errorf("player name contains invalid characters")
	}
	return name, nil
}

// ScoreLine formats a result the way the score log stores it, one round per line.
func (r *GameResult) ScoreLine() string {
	return fmt.Sprintf("%s | Player: %s | Level: %s | Result: %s | Time: %ds | Score: %d",
		r.FinishedAt.Format("2006-01-02 15:04:05"),
		r.PlayerName,
		r.Difficulty,
		r.Outcome,
		r.ElapsedSeconds,
		r.Score)
}
