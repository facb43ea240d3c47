package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"minesweeper-backend/internal/config"
	"minesweeper-backend/internal/game"
	"minesweeper-backend/internal/handlers"
	"minesweeper-backend/internal/models"
	"minesweeper-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResults struct {
	leaderboard map[string][]*models.GameResult
	history     map[string][]*models.GameResult
	err         error
}

func (f *fakeResults) GetLeaderboard(ctx context.Context, difficulty string, limit int64) ([]*models.GameResult, error) {
	return f.leaderboard[difficulty], f.err
}

func (f *fakeResults) GetPlayerHistory(ctx context.Context, player string, limit int64) ([]*models.GameResult, error) {
	return f.history[player], f.err
}

func (f *fakeResults) GetResult(ctx context.Context, id string) (*models.GameResult, error) {
	for _, results := range f.history {
		for _, r := range results {
			if r.ID == id {
				return r, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", services.ErrResultNotFound, id)
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*models.PlayerSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*models.PlayerSession)}
}

func (f *fakeSessions) StorePlayerSession(ctx context.Context, session *models.PlayerSession, expiry time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.PlayerName+"/"+session.SessionID] = session
	return nil
}

func (f *fakeSessions) GetPlayerSession(ctx context.Context, player, sessionID string) (*models.PlayerSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[player+"/"+sessionID]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

func (f *fakeSessions) DeletePlayerSession(ctx context.Context, player, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, player+"/"+sessionID)
	return nil
}

const testSeed = 11

type testServer struct {
	router   *gin.Engine
	engine   *services.GameEngine
	results  *fakeResults
	sessions *fakeSessions
	jwt      *services.JWTService
}

// newTestServer wires the handlers behind a stub auth step that trusts the
// X-Player header.
func newTestServer() *testServer {
	cfg := config.Default()
	cfg.JWTSecret = "test-secret"

	ts := &testServer{
		engine:   services.NewGameEngine(),
		results:  &fakeResults{},
		sessions: newFakeSessions(),
		jwt:      services.NewJWTService(cfg),
	}
	ts.engine.SetSeedSource(func() uint64 { return testSeed })

	gameHandler := handlers.NewGameHandler(ts.engine, ts.results)
	authHandler := handlers.NewAuthHandler(ts.sessions, ts.jwt)
	userHandler := handlers.NewUserHandler(ts.sessions, ts.engine, handlers.NewWebSocketHandler())

	router := gin.New()
	router.POST("/auth/login", authHandler.Login)

	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("player_name", c.GetHeader("X-Player"))
		c.Set("session_id", c.GetHeader("X-Session"))
		c.Next()
	})
	api.GET("/profiles", gameHandler.GetProfiles)
	api.GET("/me", userHandler.GetCurrentPlayer)
	api.POST("/logout", userHandler.Logout)
	api.POST("/games", gameHandler.StartGame)
	api.GET("/games", gameHandler.GetActiveGames)
	api.GET("/games/:id", gameHandler.GetGame)
	api.DELETE("/games/:id", gameHandler.Abandon)
	api.POST("/games/:id/reveal", gameHandler.Reveal)
	api.POST("/games/:id/flag", gameHandler.ToggleFlag)
	api.GET("/scores/me", gameHandler.GetHistory)
	api.GET("/scores/result/:id", gameHandler.GetResult)
	api.GET("/scores/:difficulty", gameHandler.GetLeaderboard)
	api.POST("/verify", gameHandler.VerifyLayout)

	ts.router = router
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, player string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Player", player)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

type gameResponse struct {
	Game models.GameSnapshot `json:"game"`
}

type moveResponse struct {
	Result models.MoveResponse `json:"result"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (ts *testServer) startGame(t *testing.T, player, difficulty string) models.GameSnapshot {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/games", player, gin.H{"difficulty": difficulty})
	if w.Code != http.StatusCreated {
		t.Fatalf("start game: %d %s", w.Code, w.Body.String())
	}
	return decode[gameResponse](t, w).Game
}

func TestStartGameReturnsHiddenBoard(t *testing.T) {
	ts := newTestServer()
	snapshot := ts.startGame(t, "ana", "2")

	if snapshot.Difficulty != "Medium" || snapshot.State != game.AwaitingFirstMove {
		t.Errorf("unexpected snapshot %+v", snapshot)
	}
	if len(snapshot.Cells) != 16 || len(snapshot.Cells[0]) != 16 {
		t.Fatalf("expected 16x16 cells, got %dx%d", len(snapshot.Cells), len(snapshot.Cells[0]))
	}
	for _, row := range snapshot.Cells {
		for _, cell := range row {
			if cell.Kind != game.Hidden {
				t.Fatalf("new board should be hidden, got %s", cell.Kind)
			}
		}
	}
}

func TestStartGameRejectsBadInput(t *testing.T) {
	ts := newTestServer()

	w := ts.do(t, http.MethodPost, "/api/games", "ana", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing difficulty: expected 400, got %d", w.Code)
	}

	w = ts.do(t, http.MethodPost, "/api/games", "ana", gin.H{"difficulty": "nightmare"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown difficulty: expected 400, got %d", w.Code)
	}
	if resp := decode[errorResponse](t, w); resp.Error == "" || resp.Details == "" {
		t.Errorf("expected error details, got %+v", resp)
	}
}

func TestRevealAndFlagStatusMapping(t *testing.T) {
	ts := newTestServer()
	snapshot := ts.startGame(t, "ana", "easy")
	base := "/api/games/" + snapshot.ID

	w := ts.do(t, http.MethodPost, base+"/flag", "ana", gin.H{"row": 0, "col": 0})
	if w.Code != http.StatusOK {
		t.Fatalf("flag: %d %s", w.Code, w.Body.String())
	}
	if move := decode[moveResponse](t, w).Result; !move.Flagged || move.Game.Flags != 1 {
		t.Errorf("expected flagged cell, got %+v", move)
	}

	cases := []struct {
		name   string
		player string
		path   string
		body   gin.H
		status int
	}{
		{"flagged target", "ana", base + "/reveal", gin.H{"row": 0, "col": 0}, http.StatusUnprocessableEntity},
		{"out of bounds", "ana", base + "/reveal", gin.H{"row": 10, "col": 0}, http.StatusUnprocessableEntity},
		{"negative coordinate", "ana", base + "/reveal", gin.H{"row": -1, "col": 0}, http.StatusBadRequest},
		{"missing coordinate", "ana", base + "/reveal", gin.H{"row": 1}, http.StatusBadRequest},
		{"foreign game", "bob", base + "/reveal", gin.H{"row": 1, "col": 1}, http.StatusForbidden},
		{"unknown game", "ana", "/api/games/nope/reveal", gin.H{"row": 1, "col": 1}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, tc.path, tc.player, tc.body)
			if w.Code != tc.status {
				t.Errorf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}

	w = ts.do(t, http.MethodPost, base+"/reveal", "ana", gin.H{"row": 5, "col": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("reveal: %d %s", w.Code, w.Body.String())
	}
	move := decode[moveResponse](t, w).Result
	if move.Game.State != game.InProgress || len(move.Opened) == 0 {
		t.Errorf("expected round in progress with opened cells, got %+v", move)
	}
	if move.Game.Cells[5][5].Kind == game.Hidden {
		t.Error("revealed cell should be visible")
	}
}

func TestLosingMoveEndsGame(t *testing.T) {
	ts := newTestServer()
	snapshot := ts.startGame(t, "ana", "easy")
	base := "/api/games/" + snapshot.ID

	ts.do(t, http.MethodPost, base+"/reveal", "ana", gin.H{"row": 0, "col": 0})
	mines, _ := ts.engine.VerifyLayout("easy", testSeed, 0, 0)

	w := ts.do(t, http.MethodPost, base+"/reveal", "ana", gin.H{"row": mines[0].Row, "col": mines[0].Col})
	if w.Code != http.StatusOK {
		t.Fatalf("reveal mine: %d %s", w.Code, w.Body.String())
	}
	move := decode[moveResponse](t, w).Result
	if move.Game.State != game.StateLost || move.Game.Result == nil || move.Game.Result.Outcome != game.Defeat {
		t.Fatalf("expected lost round, got %+v", move.Game)
	}
	for _, m := range mines {
		if move.Game.Cells[m.Row][m.Col].Kind != game.RevealedMine {
			t.Errorf("mine %s should be shown", m)
		}
	}

	w = ts.do(t, http.MethodGet, base, "ana", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("finished game should be gone, got %d", w.Code)
	}
}

func TestActiveGamesAndAbandon(t *testing.T) {
	ts := newTestServer()
	first := ts.startGame(t, "ana", "easy")
	ts.startGame(t, "ana", "hard")
	ts.startGame(t, "bob", "easy")

	w := ts.do(t, http.MethodGet, "/api/games", "ana", nil)
	list := decode[struct {
		Games []models.GameSnapshot `json:"games"`
		Count int                   `json:"count"`
	}](t, w)
	if list.Count != 2 || len(list.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", list.Count)
	}

	if w := ts.do(t, http.MethodDelete, "/api/games/"+first.ID, "bob", nil); w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if w := ts.do(t, http.MethodDelete, "/api/games/"+first.ID, "ana", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w := ts.do(t, http.MethodGet, "/api/games/"+first.ID, "ana", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestScores(t *testing.T) {
	ts := newTestServer()
	win := &models.GameResult{ID: "res_1", PlayerName: "ana", Difficulty: "Easy", Outcome: game.Victory, Score: 900}
	ts.results.leaderboard = map[string][]*models.GameResult{"easy": {win}}
	ts.results.history = map[string][]*models.GameResult{"ana": {win}}

	w := ts.do(t, http.MethodGet, "/api/scores/1", "ana", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("leaderboard: %d %s", w.Code, w.Body.String())
	}
	board := decode[struct {
		Difficulty string               `json:"difficulty"`
		Scores     []*models.GameResult `json:"scores"`
	}](t, w)
	if board.Difficulty != "Easy" || len(board.Scores) != 1 || board.Scores[0].Score != 900 {
		t.Errorf("unexpected leaderboard %+v", board)
	}

	w = ts.do(t, http.MethodGet, "/api/scores/me", "ana", nil)
	if history := decode[struct {
		Count int `json:"count"`
	}](t, w); w.Code != http.StatusOK || history.Count != 1 {
		t.Errorf("history: %d %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/api/scores/result/res_1", "bob", nil)
	if single := decode[struct {
		Result models.GameResult `json:"result"`
	}](t, w); w.Code != http.StatusOK || single.Result.Score != 900 {
		t.Errorf("result: %d %s", w.Code, w.Body.String())
	}
	if w := ts.do(t, http.MethodGet, "/api/scores/result/res_404", "ana", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing result: expected 404, got %d", w.Code)
	}

	if w := ts.do(t, http.MethodGet, "/api/scores/extreme", "ana", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown difficulty: expected 400, got %d", w.Code)
	}

	ts.results.err = errors.New("redis down")
	if w := ts.do(t, http.MethodGet, "/api/scores/me", "ana", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("store failure: expected 500, got %d", w.Code)
	}
}

func TestVerifyLayout(t *testing.T) {
	ts := newTestServer()

	w := ts.do(t, http.MethodPost, "/api/verify", "ana", gin.H{"difficulty": "easy", "seed": "42", "row": 0, "col": 0})
	if w.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Verification struct {
			Seed  string       `json:"seed"`
			Mines []game.Coord `json:"mines"`
		} `json:"verification"`
	}](t, w)

	want, _ := game.MineLayout(game.Easy, 42, game.Coord{})
	if resp.Verification.Seed != "42" || len(resp.Verification.Mines) != len(want) {
		t.Fatalf("unexpected verification %+v", resp.Verification)
	}
	for i := range want {
		if resp.Verification.Mines[i] != want[i] {
			t.Errorf("mine %d: expected %s, got %s", i, want[i], resp.Verification.Mines[i])
		}
	}

	w = ts.do(t, http.MethodPost, "/api/verify", "ana", gin.H{"difficulty": "easy", "seed": "42", "row": 99, "col": 0})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("out of bounds first move: expected 422, got %d", w.Code)
	}
}

func TestLoginMeLogout(t *testing.T) {
	ts := newTestServer()

	w := ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"player_name": "  ana  "})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	login := decode[struct {
		Token     string `json:"token"`
		Player    string `json:"player"`
		SessionID string `json:"session_id"`
	}](t, w)
	if login.Player != "ana" || login.Token == "" {
		t.Fatalf("unexpected login response %+v", login)
	}

	claims, err := ts.jwt.ValidateToken(login.Token)
	if err != nil || claims.PlayerName != "ana" || claims.SessionID != login.SessionID {
		t.Fatalf("token does not carry the session: %+v %v", claims, err)
	}

	me := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("X-Player", "ana")
		req.Header.Set("X-Session", login.SessionID)
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		return w.Code
	}
	if code := me(); code != http.StatusOK {
		t.Errorf("me: expected 200, got %d", code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("X-Player", "ana")
	req.Header.Set("X-Session", login.SessionID)
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}

	if code := me(); code != http.StatusUnauthorized {
		t.Errorf("me after logout: expected 401, got %d", code)
	}

	if w := ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"player_name": "a|b"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid name: expected 400, got %d", w.Code)
	}
}

func TestProfiles(t *testing.T) {
	ts := newTestServer()
	w := ts.do(t, http.MethodGet, "/api/profiles", "ana", nil)
	resp := decode[struct {
		Profiles []game.Profile `json:"profiles"`
	}](t, w)
	if len(resp.Profiles) != 3 || resp.Profiles[2].Mines != 99 {
		t.Errorf("unexpected profiles %+v", resp.Profiles)
	}
}
