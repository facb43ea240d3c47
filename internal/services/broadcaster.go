package services

import "minesweeper-backend/internal/models"

type Broadcaster interface {
	BroadcastBoardUpdate(player string, update *models.BoardUpdate)
	BroadcastGameOver(player string, result *models.GameResult)
}
