package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"minesweeper-backend/internal/config"
	"minesweeper-backend/internal/models"
)

var ErrResultNotFound = errors.New("result not found")

type RedisService struct {
	client *redis.Client
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisService{client: client}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func leaderboardKey(difficulty string) string {
	return fmt.Sprintf(KeyLeaderboard, strings.ToLower(difficulty))
}

func (s *RedisService) StorePlayerSession(ctx context.Context, session *models.PlayerSession, expiry time.Duration) error {
	key := fmt.Sprintf(KeyPlayerSession, session.PlayerName, session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, expiry).Err()
}

func (s *RedisService) GetPlayerSession(ctx context.Context, player, sessionID string) (*models.PlayerSession, error) {
	key := fmt.Sprintf(KeyPlayerSession, player, sessionID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var session models.PlayerSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}

	session.LastAccessed = time.Now()
	updated, _ := json.Marshal(session)
	s.client.Set(ctx, key, updated, redis.KeepTTL)

	return &session, nil
}

func (s *RedisService) DeletePlayerSession(ctx context.Context, player, sessionID string) error {
	key := fmt.Sprintf(KeyPlayerSession, player, sessionID)
	return s.client.Del(ctx, key).Err()
}

// RecordResult stores the result, appends it to the player's history and the
// global log, and ranks victories on the difficulty leaderboard.
func (s *RedisService) RecordResult(ctx context.Context, result *models.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	playerKey := fmt.Sprintf(KeyPlayerResults, result.PlayerName)
	boardKey := leaderboardKey(result.Difficulty)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(KeyResult, result.ID), data, TTLResult)

		pipe.LPush(ctx, playerKey, result.ID)
		pipe.LTrim(ctx, playerKey, 0, MaxPlayerResults-1)
		pipe.Expire(ctx, playerKey, TTLResult)

		pipe.LPush(ctx, KeyResultsLog, data)
		pipe.LTrim(ctx, KeyResultsLog, 0, MaxResultsLog-1)

		if result.Won() {
			pipe.ZAdd(ctx, boardKey, redis.Z{
				Score:  float64(result.Score),
				Member: result.ID,
			})
			// keep only the best scores
			pipe.ZRemRangeByRank(ctx, boardKey, 0, -MaxLeaderboard-1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}

	return nil
}

func (s *RedisService) GetResult(ctx context.Context, id string) (*models.GameResult, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(KeyResult, id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result models.GameResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

func (s *RedisService) GetLeaderboard(ctx context.Context, difficulty string, limit int64) ([]*models.GameResult, error) {
	if limit <= 0 || limit > MaxLeaderboard {
		limit = DefaultLeaderboardSize
	}

	ids, err := s.client.ZRevRange(ctx, leaderboardKey(difficulty), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return s.bulkGetResults(ctx, ids)
}

func (s *RedisService) GetPlayerHistory(ctx context.Context, player string, limit int64) ([]*models.GameResult, error) {
	if limit <= 0 || limit > MaxPlayerResults {
		limit = DefaultHistoryLimit
	}

	ids, err := s.client.LRange(ctx, fmt.Sprintf(KeyPlayerResults, player), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get result IDs: %w", err)
	}

	return s.bulkGetResults(ctx, ids)
}

func (s *RedisService) bulkGetResults(ctx context.Context, ids []string) ([]*models.GameResult, error) {
	if len(ids) == 0 {
		return []*models.GameResult{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf(KeyResult, id))
	}

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("pipeline execution failed: %w", err)
	}

	results := make([]*models.GameResult, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			// expired entries are skipped
			continue
		}

		var result models.GameResult
		if err := json.Unmarshal([]byte(data), &result); err != nil {
			continue
		}
		results = append(results, &result)
	}

	return results, nil
}

func (s *RedisService) CheckRateLimit(ctx context.Context, player string, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, player, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}
