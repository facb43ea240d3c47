package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"minesweeper-backend/internal/models"
	"minesweeper-backend/internal/services"
)

type SessionLookup interface {
	GetPlayerSession(ctx context.Context, player, sessionID string) (*models.PlayerSession, error)
}

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, player string, action string, limit int, window time.Duration) (bool, error)
}

func AuthMiddleware(jwtService *services.JWTService, sessions SessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
				c.Abort()
				return
			}
			tokenString = parts[1]
		} else {
			// browsers cannot set headers on websocket upgrades
			tokenString = c.Query("token")
			if tokenString == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				c.Abort()
				return
			}
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if _, err := sessions.GetPlayerSession(c.Request.Context(), claims.PlayerName, claims.SessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
			c.Abort()
			return
		}

		c.Set("player_name", claims.PlayerName)
		c.Set("session_id", claims.SessionID)

		c.Next()
	}
}

// RateLimitMiddleware limits how often one player can start games and make
// moves. Limiter failures let the request through.
func RateLimitMiddleware(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		player := c.GetString("player_name")
		if player == "" {
			c.Next()
			return
		}

		var action string
		var limit int
		window := time.Minute

		route := c.FullPath()
		switch {
		case c.Request.Method == http.MethodPost && strings.HasSuffix(route, "/games"):
			action = "start"
			limit = services.DefaultRateLimitStart
		case strings.HasSuffix(route, "/reveal"), strings.HasSuffix(route, "/flag"):
			action = "move"
			limit = services.DefaultRateLimitMoves
		default:
			c.Next()
			return
		}

		allowed, err := limiter.CheckRateLimit(c.Request.Context(), player, action, limit, window)
		if err != nil {
			log.WithField("player", player).WithError(err).Warn("rate limit check failed")
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": window.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
