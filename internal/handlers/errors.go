package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"minesweeper-backend/internal/game"
	"minesweeper-backend/internal/services"
)

// statusFor maps service and core errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrGameNotFound), errors.Is(err, services.ErrResultNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotGameOwner):
		return http.StatusForbidden
	case errors.Is(err, game.ErrRoundOver):
		return http.StatusConflict
	case errors.Is(err, services.ErrTooManyGames):
		return http.StatusTooManyRequests
	case errors.Is(err, game.ErrOutOfBounds), errors.Is(err, game.ErrInvalidTarget):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"path":   c.FullPath(),
			"player": c.GetString("player_name"),
		}).WithError(err).Error(message)
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"details": err.Error(),
	})
}
