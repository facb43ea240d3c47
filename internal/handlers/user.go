package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minesweeper-backend/internal/services"
)

// Presence reports open websocket connections per player.
type Presence interface {
	Connections(player string) int
}

type UserHandler struct {
	sessions   SessionStore
	gameEngine *services.GameEngine
	presence   Presence
}

func NewUserHandler(sessions SessionStore, gameEngine *services.GameEngine, presence Presence) *UserHandler {
	return &UserHandler{
		sessions:   sessions,
		gameEngine: gameEngine,
		presence:   presence,
	}
}

func (h *UserHandler) GetCurrentPlayer(c *gin.Context) {
	player := c.GetString("player_name")
	sessionID := c.GetString("session_id")
	if player == "" || sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Player not authenticated"})
		return
	}

	session, err := h.sessions.GetPlayerSession(c.Request.Context(), player, sessionID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player": session.PlayerName,
		"session": gin.H{
			"session_id":    session.SessionID,
			"created_at":    session.CreatedAt,
			"last_accessed": session.LastAccessed,
		},
		"active_games": len(h.gameEngine.GetPlayerGames(player)),
		"connections":  h.presence.Connections(player),
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	player := c.GetString("player_name")
	sessionID := c.GetString("session_id")
	if player == "" || sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Player not authenticated"})
		return
	}

	if err := h.sessions.DeletePlayerSession(c.Request.Context(), player, sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
