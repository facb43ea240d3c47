package game

import (
	"fmt"
	"math/rand/v2"
	"time"
)

type State int

const (
	AwaitingFirstMove State = iota
	InProgress
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case AwaitingFirstMove:
		return "awaiting_first_move"
	case InProgress:
		return "in_progress"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{AwaitingFirstMove, InProgress, StateWon, StateLost} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

func (s State) Terminal() bool {
	return s == StateWon || s == StateLost
}

// Result is produced once when a round ends.
type Result struct {
	Player         string    `json:"player"`
	Difficulty     string    `json:"difficulty"`
	Outcome        Outcome   `json:"outcome"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Score          int       `json:"score"`
	Seed           uint64    `json:"seed"`
	FirstMove      Coord     `json:"first_move"`
	FinishedAt     time.Time `json:"finished_at"`
}

// MoveResult describes the effect of an accepted command.
type MoveResult struct {
	State   State   `json:"state"`
	Opened  []Coord `json:"opened,omitempty"`
	Flagged bool    `json:"flagged"`
	Result  *Result `json:"result,omitempty"`
}

type Option func(*Session)

// WithSeed makes mine placement reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.seed = seed
		s.rng = NewSeededRand(seed)
	}
}

func WithRand(rng Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session runs one round. It is not safe for concurrent use.
type Session struct {
	profile   Profile
	player    string
	board     *Board
	state     State
	rng       Rand
	seed      uint64
	now       func() time.Time
	startedAt time.Time
	firstMove Coord
	result    *Result
}

func NewSession(profile Profile, player string, opts ...Option) (*Session, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	board, err := NewBoard(profile.Rows, profile.Cols, profile.Mines)
	if err != nil {
		return nil, err
	}

	s := &Session{
		profile: profile,
		player:  player,
		board:   board,
		state:   AwaitingFirstMove,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		WithSeed(rand.Uint64())(s)
	}
	s.startedAt = s.now()

	return s, nil
}

func (s *Session) State() State         { return s.state }
func (s *Session) Profile() Profile     { return s.profile }
func (s *Session) Player() string       { return s.player }
func (s *Session) StartedAt() time.Time { return s.startedAt }
func (s *Session) Seed() uint64         { return s.seed }
func (s *Session) FlagsPlaced() int     { return s.board.FlagCount() }
func (s *Session) Rows() int            { return s.board.Rows() }
func (s *Session) Cols() int            { return s.board.Cols() }

// Result is nil until the round has ended.
func (s *Session) Result() *Result { return s.result }

func (s *Session) Elapsed() time.Duration {
	if s.result != nil {
		return s.result.FinishedAt.Sub(s.startedAt)
	}
	return s.now().Sub(s.startedAt)
}

// View returns the render view; mines are exposed only once the round is over
// and revealAll is set.
func (s *Session) View(revealAll bool) [][]CellView {
	return s.board.View(revealAll && s.state.Terminal())
}

func (s *Session) ToggleFlag(row, col int) (*MoveResult, error) {
	if s.state.Terminal() {
		return nil, fmt.Errorf("%w: %s", ErrRoundOver, s.state)
	}
	flagged, err := s.board.toggleFlag(row, col)
	if err != nil {
		return nil, err
	}
	return &MoveResult{State: s.state, Flagged: flagged}, nil
}

func (s *Session) Reveal(row, col int) (*MoveResult, error) {
	if s.state.Terminal() {
		return nil, fmt.Errorf("%w: %s", ErrRoundOver, s.state)
	}
	cell, err := s.board.CellAt(row, col)
	if err != nil {
		return nil, err
	}
	if cell.Flagged {
		return nil, fmt.Errorf("%w: cell %s is flagged", ErrInvalidTarget, Coord{row, col})
	}
	if cell.Revealed {
		return nil, fmt.Errorf("%w: cell %s is already revealed", ErrInvalidTarget, Coord{row, col})
	}

	target := Coord{Row: row, Col: col}
	if s.state == AwaitingFirstMove {
		if err := PlaceMines(s.board, target, s.rng); err != nil {
			return nil, err
		}
		ComputeAdjacency(s.board)
		s.firstMove = target
		s.state = InProgress
		cell, _ = s.board.CellAt(row, col)
	}

	if cell.HasMine {
		s.board.reveal(row, col)
		s.finish(Defeat)
		return &MoveResult{State: s.state, Opened: []Coord{target}, Result: s.result}, nil
	}

	opened := Reveal(s.board, target)
	if Won(s.board) {
		s.finish(Victory)
	}
	return &MoveResult{State: s.state, Opened: opened, Result: s.result}, nil
}

func (s *Session) finish(outcome Outcome) {
	if outcome == Victory {
		s.state = StateWon
	} else {
		s.state = StateLost
	}

	finishedAt := s.now()
	elapsed := int(finishedAt.Sub(s.startedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	s.result = &Result{
		Player:         s.player,
		Difficulty:     s.profile.Name,
		Outcome:        outcome,
		ElapsedSeconds: elapsed,
		Score:          Score(outcome, elapsed, s.profile.ScoreFactor),
		Seed:           s.seed,
		FirstMove:      s.firstMove,
		FinishedAt:     finishedAt,
	}
}

// MineLayout regenerates the mines a session seeded with seed would place after
// a first reveal at first.
func MineLayout(profile Profile, seed uint64, first Coord) ([]Coord, error) {
	board, err := NewBoard(profile.Rows, profile.Cols, profile.Mines)
	if err != nil {
		return nil, err
	}
	if err := PlaceMines(board, first, NewSeededRand(seed)); err != nil {
		return nil, err
	}
	return board.MinePositions(), nil
}
