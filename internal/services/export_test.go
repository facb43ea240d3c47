package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"minesweeper-backend/internal/models"
)

func (s *RedisService) ClearRateLimit(ctx context.Context, player, action string) error {
	return s.client.Del(ctx, fmt.Sprintf(KeyRateLimit, player, action)).Err()
}

// DeleteResult removes a result and its index entries.
func (s *RedisService) DeleteResult(ctx context.Context, result *models.GameResult) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, fmt.Sprintf(KeyResult, result.ID))
		pipe.LRem(ctx, fmt.Sprintf(KeyPlayerResults, result.PlayerName), 0, result.ID)
		pipe.ZRem(ctx, leaderboardKey(result.Difficulty), result.ID)
		return nil
	})
	return err
}
