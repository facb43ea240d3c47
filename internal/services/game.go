package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"minesweeper-backend/internal/game"
	"minesweeper-backend/internal/models"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotGameOwner = errors.New("game belongs to another player")
	ErrTooManyGames = errors.New("too many active games")
)

const MaxGamesPerPlayer = 5

type GameEngine struct {
	mu          sync.RWMutex
	activeGames map[string]*GameInstance
	recorders   []ResultRecorder
	broadcaster Broadcaster
	seeds       func() uint64
}

// GameInstance is one player's round. mu serialises commands so each is fully
// applied before the next one starts.
type GameInstance struct {
	mu         sync.Mutex
	ID         string
	PlayerName string
	Session    *game.Session
	StartedAt  time.Time
	LastUpdate time.Time
}

func NewGameEngine(recorders ...ResultRecorder) *GameEngine {
	return &GameEngine{
		activeGames: make(map[string]*GameInstance),
		recorders:   recorders,
		seeds:       rand.Uint64,
	}
}

func (ge *GameEngine) SetBroadcaster(b Broadcaster) {
	ge.broadcaster = b
}

// SetSeedSource replaces the source of per-round seeds.
func (ge *GameEngine) SetSeedSource(seeds func() uint64) {
	ge.seeds = seeds
}

func (ge *GameEngine) StartGame(ctx context.Context, player, difficulty string) (*models.GameSnapshot, error) {
	profile, err := game.LookupProfile(difficulty)
	if err != nil {
		return nil, err
	}

	session, err := game.NewSession(profile, player, game.WithSeed(ge.seeds()))
	if err != nil {
		return nil, err
	}

	instance := &GameInstance{
		ID:         models.GenerateGameID(),
		PlayerName: player,
		Session:    session,
		StartedAt:  session.StartedAt(),
		LastUpdate: session.StartedAt(),
	}
	// not yet shared, so no instance lock is needed
	snapshot := instance.snapshot(nil)

	ge.mu.Lock()
	if ge.countLocked(player) >= MaxGamesPerPlayer {
		ge.mu.Unlock()
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyGames, MaxGamesPerPlayer)
	}
	ge.activeGames[instance.ID] = instance
	ge.mu.Unlock()

	log.WithFields(log.Fields{
		"game_id":    instance.ID,
		"player":     player,
		"difficulty": profile.Name,
	}).Info("game started")

	return snapshot, nil
}

func (ge *GameEngine) Reveal(ctx context.Context, player, gameID string, row, col int) (*models.MoveResponse, error) {
	return ge.apply(ctx, player, gameID, func(s *game.Session) (*game.MoveResult, error) {
		return s.Reveal(row, col)
	}, nil)
}

func (ge *GameEngine) ToggleFlag(ctx context.Context, player, gameID string, row, col int) (*models.MoveResponse, error) {
	target := game.Coord{Row: row, Col: col}
	return ge.apply(ctx, player, gameID, func(s *game.Session) (*game.MoveResult, error) {
		return s.ToggleFlag(row, col)
	}, &target)
}

func (ge *GameEngine) apply(ctx context.Context, player, gameID string, command func(*game.Session) (*game.MoveResult, error), flag *game.Coord) (*models.MoveResponse, error) {
	instance, err := ge.ownedGame(player, gameID)
	if err != nil {
		return nil, err
	}

	instance.mu.Lock()
	move, err := command(instance.Session)
	if err != nil {
		instance.mu.Unlock()
		log.WithFields(log.Fields{
			"game_id": gameID,
			"player":  player,
		}).WithError(err).Warn("command rejected")
		return nil, err
	}
	instance.LastUpdate = time.Now()

	var result *models.GameResult
	if move.Result != nil {
		result = models.NewGameResult(instance.ID, move.Result)
	}
	response := &models.MoveResponse{
		Game:    instance.snapshot(result),
		Opened:  move.Opened,
		Flagged: move.Flagged,
	}
	instance.mu.Unlock()

	if result != nil {
		ge.retire(gameID)
		ge.record(context.WithoutCancel(ctx), result)
	}

	ge.broadcast(player, &models.BoardUpdate{
		GameID: gameID,
		State:  move.State,
		Opened: move.Opened,
		Flag:   flag,
	}, result)

	return response, nil
}

func (ge *GameEngine) record(ctx context.Context, result *models.GameResult) {
	fields := log.Fields{
		"game_id":    result.GameID,
		"player":     result.PlayerName,
		"difficulty": result.Difficulty,
		"outcome":    result.Outcome.String(),
		"elapsed":    result.ElapsedSeconds,
		"score":      result.Score,
	}
	log.WithFields(fields).Info("game finished")

	for _, recorder := range ge.recorders {
		if err := recorder.RecordResult(ctx, result); err != nil {
			log.WithFields(fields).WithError(err).Error("failed to record result")
		}
	}
}

func (ge *GameEngine) broadcast(player string, update *models.BoardUpdate, result *models.GameResult) {
	if ge.broadcaster == nil {
		return
	}
	ge.broadcaster.BroadcastBoardUpdate(player, update)
	if result != nil {
		ge.broadcaster.BroadcastGameOver(player, result)
	}
}

func (ge *GameEngine) ownedGame(player, gameID string) (*GameInstance, error) {
	ge.mu.RLock()
	instance, exists := ge.activeGames[gameID]
	ge.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if instance.PlayerName != player {
		return nil, ErrNotGameOwner
	}
	return instance, nil
}

// countLocked must be called with ge.mu held.
func (ge *GameEngine) countLocked(player string) int {
	n := 0
	for _, instance := range ge.activeGames {
		if instance.PlayerName == player {
			n++
		}
	}
	return n
}

func (ge *GameEngine) retire(gameID string) {
	ge.mu.Lock()
	delete(ge.activeGames, gameID)
	ge.mu.Unlock()
}

func (ge *GameEngine) GetGame(player, gameID string) (*models.GameSnapshot, error) {
	instance, err := ge.ownedGame(player, gameID)
	if err != nil {
		return nil, err
	}

	instance.mu.Lock()
	defer instance.mu.Unlock()
	return instance.snapshot(nil), nil
}

// GetPlayerGames lists the player's rounds, oldest first.
func (ge *GameEngine) GetPlayerGames(player string) []*models.GameSnapshot {
	ge.mu.RLock()
	var instances []*GameInstance
	for _, instance := range ge.activeGames {
		if instance.PlayerName == player {
			instances = append(instances, instance)
		}
	}
	ge.mu.RUnlock()

	sort.Slice(instances, func(i, j int) bool {
		return instances[i].StartedAt.Before(instances[j].StartedAt)
	})

	snapshots := make([]*models.GameSnapshot, 0, len(instances))
	for _, instance := range instances {
		instance.mu.Lock()
		snapshots = append(snapshots, instance.snapshot(nil))
		instance.mu.Unlock()
	}
	return snapshots
}

// Abandon discards a round without recording a result.
func (ge *GameEngine) Abandon(player, gameID string) error {
	if _, err := ge.ownedGame(player, gameID); err != nil {
		return err
	}
	ge.retire(gameID)

	log.WithFields(log.Fields{"game_id": gameID, "player": player}).Info("game abandoned")
	return nil
}

func (ge *GameEngine) ActiveCount() int {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return len(ge.activeGames)
}

// CleanupStaleGames discards rounds idle for longer than maxAge.
func (ge *GameEngine) CleanupStaleGames(maxAge time.Duration) int {
	ge.mu.Lock()
	defer ge.mu.Unlock()

	removed := 0
	for id, instance := range ge.activeGames {
		instance.mu.Lock()
		idle := time.Since(instance.LastUpdate)
		instance.mu.Unlock()

		if idle > maxAge {
			delete(ge.activeGames, id)
			removed++
			log.WithFields(log.Fields{
				"game_id": id,
				"player":  instance.PlayerName,
				"idle":    idle.Round(time.Second).String(),
			}).Info("stale game discarded")
		}
	}
	return removed
}

// VerifyLayout regenerates the mine positions of a seeded round.
func (ge *GameEngine) VerifyLayout(difficulty string, seed uint64, row, col int) ([]game.Coord, error) {
	profile, err := game.LookupProfile(difficulty)
	if err != nil {
		return nil, err
	}
	return game.MineLayout(profile, seed, game.Coord{Row: row, Col: col})
}

// snapshot must be called with gi.mu held.
func (gi *GameInstance) snapshot(result *models.GameResult) *models.GameSnapshot {
	s := gi.Session
	profile := s.Profile()

	return &models.GameSnapshot{
		ID:             gi.ID,
		PlayerName:     gi.PlayerName,
		Difficulty:     profile.Name,
		State:          s.State(),
		Rows:           profile.Rows,
		Cols:           profile.Cols,
		Mines:          profile.Mines,
		Flags:          s.FlagsPlaced(),
		ElapsedSeconds: int(s.Elapsed().Seconds()),
		StartedAt:      gi.StartedAt,
		Cells:          s.View(true),
		Result:         result,
	}
}
