package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"minesweeper-backend/internal/models"
	"minesweeper-backend/internal/services"
)

// SessionStore keeps login sessions; a token is only honoured while its session exists.
type SessionStore interface {
	StorePlayerSession(ctx context.Context, session *models.PlayerSession, expiry time.Duration) error
	GetPlayerSession(ctx context.Context, player, sessionID string) (*models.PlayerSession, error)
	DeletePlayerSession(ctx context.Context, player, sessionID string) error
}

type AuthHandler struct {
	sessions   SessionStore
	jwtService *services.JWTService
}

func NewAuthHandler(sessions SessionStore, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{
		sessions:   sessions,
		jwtService: jwtService,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	player, err := models.NormalizePlayerName(req.PlayerName)
	if err != nil {
		respondBindError(c, err)
		return
	}

	now := time.Now()
	session := &models.PlayerSession{
		SessionID:    models.GenerateSessionID(),
		PlayerName:   player,
		CreatedAt:    now,
		LastAccessed: now,
	}

	token, expiresAt, err := h.jwtService.GenerateToken(player, session.SessionID)
	if err != nil {
		respondError(c, "Failed to generate token", err)
		return
	}

	if err := h.sessions.StorePlayerSession(c.Request.Context(), session, time.Until(expiresAt)); err != nil {
		respondError(c, "Failed to create session", err)
		return
	}

	log.WithFields(log.Fields{"player": player, "session_id": session.SessionID}).Info("player logged in")

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      token,
		"expires_at": expiresAt,
		"player":     player,
		"session_id": session.SessionID,
	})
}
