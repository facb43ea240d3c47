package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"minesweeper-backend/internal/game"
	"minesweeper-backend/internal/models"
	"minesweeper-backend/internal/services"
)

type GameHandler struct {
	gameEngine *services.GameEngine
	results    services.ResultStore
}

func NewGameHandler(gameEngine *services.GameEngine, results services.ResultStore) *GameHandler {
	return &GameHandler{
		gameEngine: gameEngine,
		results:    results,
	}
}

func (h *GameHandler) GetProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"profiles": game.Profiles(),
	})
}

func (h *GameHandler) StartGame(c *gin.Context) {
	player := c.GetString("player_name")

	var req models.StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	snapshot, err := h.gameEngine.StartGame(c.Request.Context(), player, req.Difficulty)
	if err != nil {
		respondError(c, "Failed to start game", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"game":    snapshot,
	})
}

func (h *GameHandler) GetActiveGames(c *gin.Context) {
	games := h.gameEngine.GetPlayerGames(c.GetString("player_name"))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"games":   games,
		"count":   len(games),
	})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	snapshot, err := h.gameEngine.GetGame(c.GetString("player_name"), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get game", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    snapshot,
	})
}

func (h *GameHandler) Abandon(c *gin.Context) {
	if err := h.gameEngine.Abandon(c.GetString("player_name"), c.Param("id")); err != nil {
		respondError(c, "Failed to abandon game", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *GameHandler) Reveal(c *gin.Context) {
	h.move(c, "Failed to reveal cell", h.gameEngine.Reveal)
}

func (h *GameHandler) ToggleFlag(c *gin.Context) {
	h.move(c, "Failed to toggle flag", h.gameEngine.ToggleFlag)
}

type moveFunc func(ctx context.Context, player, gameID string, row, col int) (*models.MoveResponse, error)

func (h *GameHandler) move(c *gin.Context, failure string, apply moveFunc) {
	var req models.CellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := apply(c.Request.Context(), c.GetString("player_name"), c.Param("id"), *req.Row, *req.Col)
	if err != nil {
		respondError(c, failure, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  response,
	})
}

func (h *GameHandler) GetLeaderboard(c *gin.Context) {
	profile, err := game.LookupProfile(c.Param("difficulty"))
	if err != nil {
		respondError(c, "Unknown difficulty", err)
		return
	}

	results, err := h.results.GetLeaderboard(c.Request.Context(), profile.Key, queryLimit(c, services.DefaultLeaderboardSize))
	if err != nil {
		respondError(c, "Failed to get leaderboard", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"difficulty": profile.Name,
		"scores":     results,
		"count":      len(results),
	})
}

func (h *GameHandler) GetHistory(c *gin.Context) {
	player := c.GetString("player_name")

	results, err := h.results.GetPlayerHistory(c.Request.Context(), player, queryLimit(c, services.DefaultHistoryLimit))
	if err != nil {
		respondError(c, "Failed to get game history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"games":   results,
		"count":   len(results),
	})
}

func (h *GameHandler) GetResult(c *gin.Context) {
	result, err := h.results.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get result", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (h *GameHandler) VerifyLayout(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	mines, err := h.gameEngine.VerifyLayout(req.Difficulty, req.Seed, *req.Row, *req.Col)
	if err != nil {
		respondError(c, "Verification failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"verification": gin.H{
			"difficulty": req.Difficulty,
			"seed":       strconv.FormatUint(req.Seed, 10),
			"first_move": game.Coord{Row: *req.Row, Col: *req.Col},
			"mines":      mines,
		},
	})
}

func queryLimit(c *gin.Context, fallback int64) int64 {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.FormatInt(fallback, 10)), 10, 64)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
