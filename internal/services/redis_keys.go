package services

import "time"

const (
	KeyPlayerSession = "player:%s:session:%s"
	KeyPlayerResults = "player:%s:results"
	KeyResult        = "result:%s"
	KeyLeaderboard   = "leaderboard:%s"
	KeyResultsLog    = "results:log"
	KeyRateLimit     = "ratelimit:%s:%s"

	TTLPlayerSession = 24 * time.Hour
	TTLResult        = 30 * 24 * time.Hour // 30 days

	MaxPlayerResults = 100
	MaxLeaderboard   = 100
	MaxResultsLog    = 1000

	DefaultRateLimitStart  = 20  // new games per minute
	DefaultRateLimitMoves  = 240 // reveals and flags per minute
	DefaultHistoryLimit    = 50
	DefaultLeaderboardSize = 10
)
