package models

import "time"

type PlayerSession struct {
	SessionID    string    `json:"session_id" redis:"session_id"`
	PlayerName   string    `json:"player_name" redis:"player_name"`
	CreatedAt    time.Time `json:"created_at" redis:"created_at"`
	LastAccessed time.Time `json:"last_accessed" redis:"last_accessed"`
}
