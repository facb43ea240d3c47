package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"minesweeper-backend/internal/config"
	"minesweeper-backend/internal/handlers"
	"minesweeper-backend/internal/middleware"
	"minesweeper-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ConfigureLogging(); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	jwtService := services.NewJWTService(cfg)
	scoreLog := services.NewScoreLog(cfg.ScoreFile)

	gameEngine := services.NewGameEngine(redisService, scoreLog)
	wsHandler := handlers.NewWebSocketHandler()
	gameEngine.SetBroadcaster(wsHandler)

	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()

		for range ticker.C {
			if removed := gameEngine.CleanupStaleGames(cfg.SessionMaxIdle); removed > 0 {
				log.WithFields(log.Fields{
					"removed": removed,
					"active":  gameEngine.ActiveCount(),
				}).Info("stale games cleaned up")
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(redisService, jwtService)
	userHandler := handlers.NewUserHandler(redisService, gameEngine, wsHandler)
	gameHandler := handlers.NewGameHandler(gameEngine, redisService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService, redisService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.GET("/me", userHandler.GetCurrentPlayer)
		protected.POST("/logout", userHandler.Logout)
		protected.GET("/profiles", gameHandler.GetProfiles)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.POST("", gameHandler.StartGame)
			games.GET("", gameHandler.GetActiveGames)
			games.GET("/:id", gameHandler.GetGame)
			games.DELETE("/:id", gameHandler.Abandon)
			games.POST("/:id/reveal", gameHandler.Reveal)
			games.POST("/:id/flag", gameHandler.ToggleFlag)
		}

		scores := protected.Group("/scores")
		{
			scores.GET("/me", gameHandler.GetHistory)
			scores.GET("/result/:id", gameHandler.GetResult)
			scores.GET("/:difficulty", gameHandler.GetLeaderboard)
		}

		protected.POST("/verify", gameHandler.VerifyLayout)
	}

	log.WithFields(log.Fields{
		"port":       cfg.Port,
		"env":        cfg.Env,
		"score_file": scoreLog.Path(),
	}).Info("Server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
