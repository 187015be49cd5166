package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/database"
	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
	"github.com/Earthondev/guessing-game-earth-sub000/internal/migrations"
)

type testEnv struct {
	router  *chi.Mux
	store   Store
	broker  *Broker
	blobDir string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewSQLiteStore(db)

	blobDir := t.TempDir()
	blobs, err := NewDiskBlobStore(blobDir, mediaBaseURL)
	if err != nil {
		t.Fatalf("opening blob store: %v", err)
	}

	broker := NewBroker()
	r := chi.NewRouter()
	addRoutes(r, Env{
		Logger:   logger,
		DB:       db,
		Store:    store,
		Blobs:    blobs,
		Cache:    NewPoolCache(nil, logger),
		Sessions: NewSessions(),
		Broker:   broker,
		// Fixed seed keeps round selection reproducible.
		RNG:       rand.New(rand.NewPCG(42, 0)),
		RoundSize: 3,
	})

	return &testEnv{router: r, store: store, broker: broker, blobDir: blobDir}
}

// seedAnimals inserts a category with three guessable images and returns
// an imageID -> canonical answer map for answering shuffled questions.
func seedAnimals(t *testing.T, store Store) map[string]string {
	t.Helper()
	ctx := context.Background()

	if _, err := store.CreateCategory(ctx, game.Category{
		Name:        "animals",
		DisplayName: "Animals",
	}); err != nil {
		t.Fatalf("creating category: %v", err)
	}

	answers := map[string]string{}
	items := []game.ImageItem{
		{ID: "img-cat", Answer: "Cat", AcceptedAnswers: []string{"Cat", "Kitty"}},
		{ID: "img-dog", Answer: "Dog", AcceptedAnswers: []string{"Dog"}},
		{ID: "img-owl", Answer: "Owl", AcceptedAnswers: []string{"Owl"}},
	}
	for _, it := range items {
		it.Category = "animals"
		it.DisplayImage = mediaBaseURL + "/images/" + it.ID + ".jpg"
		if _, err := store.CreateImage(ctx, it); err != nil {
			t.Fatalf("creating image %s: %v", it.ID, err)
		}
		answers[it.ID] = it.Answer
	}
	return answers
}

func postJSON(t *testing.T, r http.Handler, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, r http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func startGame(t *testing.T, env *testEnv, category string, count int) StartResponse {
	t.Helper()
	w := postJSON(t, env.router, "/api/game/start", "", StartRequest{Category: category, Count: count})
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp StartResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Token == "" {
		t.Fatal("start: expected a session token")
	}
	return resp
}

func TestGameStart(t *testing.T) {
	env := setupEnv(t)
	seedAnimals(t, env.store)

	resp := startGame(t, env, "animals", 2)

	if resp.State.Phase != "question_active" {
		t.Errorf("phase = %q, want question_active", resp.State.Phase)
	}
	if resp.State.TotalQuestions != 2 {
		t.Errorf("totalQuestions = %d, want 2", resp.State.TotalQuestions)
	}
	if resp.State.MaxScore != 50 {
		t.Errorf("maxScore = %d, want 50", resp.State.MaxScore)
	}
	if resp.State.TotalScore != 0 {
		t.Errorf("totalScore = %d, want 0", resp.State.TotalScore)
	}

	q := resp.State.Question
	if q == nil {
		t.Fatal("expected a current question")
	}
	if q.Answer != "" || q.RevealImage != "" {
		t.Errorf("answer leaked before resolution: %q %q", q.Answer, q.RevealImage)
	}
	if q.QuestionScore != game.MaxQuestionScore {
		t.Errorf("questionScore = %d, want %d", q.QuestionScore, game.MaxQuestionScore)
	}
}

func TestGameStartUnknownCategory(t *testing.T) {
	env := setupEnv(t)
	seedAnimals(t, env.store)

	w := postJSON(t, env.router, "/api/game/start", "", StartRequest{Category: "minerals"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGameStartEmptyCategory(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	if _, err := env.store.CreateCategory(ctx, game.Category{Name: "empty", DisplayName: "Empty"}); err != nil {
		t.Fatalf("creating category: %v", err)
	}

	w := postJSON(t, env.router, "/api/game/start", "", StartRequest{Category: "empty"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGameStateRequiresToken(t *testing.T) {
	env := setupEnv(t)

	w := getJSON(t, env.router, "/api/game/state", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = getJSON(t, env.router, "/api/game/state", "bogus")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", w.Code)
	}
}

func TestGameTileRevealIsIdempotent(t *testing.T) {
	env := setupEnv(t)
	seedAnimals(t, env.store)
	resp := startGame(t, env, "animals", 1)

	w := postJSON(t, env.router, "/api/game/tile", resp.Token, TileRequest{Index: 7})
	if w.Code != http.StatusOK {
		t.Fatalf("tile: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var tile TileResponse
	json.NewDecoder(w.Body).Decode(&tile)
	if !tile.Changed {
		t.Error("first reveal should report changed")
	}
	if tile.QuestionScore != 20 {
		t.Errorf("questionScore = %d, want 20", tile.QuestionScore)
	}

	// Same tile again: no change, no further cost.
	w = postJSON(t, env.router, "/api/game/tile", resp.Token, TileRequest{Index: 7})
	json.NewDecoder(w.Body).Decode(&tile)
	if tile.Changed {
		t.Error("second reveal should not report changed")
	}
	if tile.QuestionScore != 20 {
		t.Errorf("questionScore after repeat = %d, want 20", tile.QuestionScore)
	}

	w = postJSON(t, env.router, "/api/game/tile", resp.Token, TileRequest{Index: 25})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range tile: expected 400, got %d", w.Code)
	}
}

func TestGameAnswerFlow(t *testing.T) {
	env := setupEnv(t)
	answers := seedAnimals(t, env.store)
	resp := startGame(t, env, "animals", 1)
	correct := answers[resp.State.Question.ImageID]

	// A wrong guess costs nothing and leaves the question active.
	w := postJSON(t, env.router, "/api/game/answer", resp.Token, AnswerRequest{Answer: "definitely wrong"})
	if w.Code != http.StatusOK {
		t.Fatalf("wrong answer: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var ans AnswerResponse
	json.NewDecoder(w.Body).Decode(&ans)
	if ans.Correct {
		t.Error("wrong guess reported correct")
	}
	if ans.TotalScore != 0 {
		t.Errorf("totalScore after wrong guess = %d, want 0", ans.TotalScore)
	}

	// Whitespace and case do not matter.
	padded := "  " + correct + "  "
	w = postJSON(t, env.router, "/api/game/answer", resp.Token, AnswerRequest{Answer: padded})
	json.NewDecoder(w.Body).Decode(&ans)
	if !ans.Correct {
		t.Fatalf("padded correct guess %q rejected", padded)
	}
	if ans.ScoreDelta != 25 || ans.TotalScore != 25 {
		t.Errorf("delta/total = %d/%d, want 25/25", ans.ScoreDelta, ans.TotalScore)
	}

	// Question is resolved now; further guesses conflict.
	w = postJSON(t, env.router, "/api/game/answer", resp.Token, AnswerRequest{Answer: correct})
	if w.Code != http.StatusConflict {
		t.Fatalf("answer after resolution: expected 409, got %d", w.Code)
	}

	w = postJSON(t, env.router, "/api/game/answer", resp.Token, AnswerRequest{Answer: "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank answer: expected 400, got %d", w.Code)
	}
}

func TestGameRevealAndAdvanceToCompletion(t *testing.T) {
	env := setupEnv(t)
	answers := seedAnimals(t, env.store)
	resp := startGame(t, env, "animals", 2)
	token := resp.Token

	// Give up on the first question.
	w := postJSON(t, env.router, "/api/game/reveal", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reveal: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var state GameStateResponse
	json.NewDecoder(w.Body).Decode(&state)

	if state.Phase != "question_resolved" {
		t.Errorf("phase = %q, want question_resolved", state.Phase)
	}
	if state.Question == nil || state.Question.Answer == "" {
		t.Fatal("resolved question should expose its answer")
	}
	for i, revealed := range state.Question.Revealed {
		if !revealed {
			t.Fatalf("tile %d still hidden after giving up", i)
		}
	}
	if state.TotalScore != 0 {
		t.Errorf("totalScore after giving up = %d, want 0", state.TotalScore)
	}

	// Advance to the second question and win it untouched.
	w = postJSON(t, env.router, "/api/game/advance", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("advance: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var adv AdvanceResponse
	json.NewDecoder(w.Body).Decode(&adv)
	if adv.Complete {
		t.Fatal("round complete too early")
	}
	if adv.State.Question == nil {
		t.Fatal("expected a second question")
	}

	correct := answers[adv.State.Question.ImageID]
	w = postJSON(t, env.router, "/api/game/answer", token, AnswerRequest{Answer: correct})
	if w.Code != http.StatusOK {
		t.Fatalf("answer: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, env.router, "/api/game/advance", token, nil)
	json.NewDecoder(w.Body).Decode(&adv)
	if !adv.Complete {
		t.Fatal("expected round to complete")
	}
	if adv.State.Phase != "round_complete" {
		t.Errorf("phase = %q, want round_complete", adv.State.Phase)
	}
	if adv.State.TotalScore != 25 {
		t.Errorf("final totalScore = %d, want 25", adv.State.TotalScore)
	}

	// Advancing past the end conflicts.
	w = postJSON(t, env.router, "/api/game/advance", token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("advance past end: expected 409, got %d", w.Code)
	}
}

func TestGameAdvanceWhileActiveConflicts(t *testing.T) {
	env := setupEnv(t)
	seedAnimals(t, env.store)
	resp := startGame(t, env, "animals", 1)

	w := postJSON(t, env.router, "/api/game/advance", resp.Token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestGameReset(t *testing.T) {
	env := setupEnv(t)
	seedAnimals(t, env.store)
	resp := startGame(t, env, "animals", 2)
	token := resp.Token

	// Accumulate some state, then restart.
	postJSON(t, env.router, "/api/game/tile", token, TileRequest{Index: 0})

	w := postJSON(t, env.router, "/api/game/reset", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var state GameStateResponse
	json.NewDecoder(w.Body).Decode(&state)

	if state.Phase != "question_active" {
		t.Errorf("phase = %q, want question_active", state.Phase)
	}
	if state.TotalScore != 0 {
		t.Errorf("totalScore after reset = %d, want 0", state.TotalScore)
	}
	if state.TotalQuestions != 2 {
		t.Errorf("totalQuestions after reset = %d, want 2", state.TotalQuestions)
	}
	if state.Question.QuestionScore != game.MaxQuestionScore {
		t.Errorf("questionScore after reset = %d, want %d", state.Question.QuestionScore, game.MaxQuestionScore)
	}
}

func TestGameStartReusesSession(t *testing.T) {
	env := setupEnv(t)
	seedAnimals(t, env.store)
	first := startGame(t, env, "animals", 1)

	// Starting again with the same token supersedes the old round.
	w := postJSON(t, env.router, "/api/game/start", first.Token, StartRequest{Category: "animals", Count: 3})
	if w.Code != http.StatusOK {
		t.Fatalf("restart: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var second StartResponse
	json.NewDecoder(w.Body).Decode(&second)

	if second.Token != first.Token {
		t.Errorf("token changed on restart: %q vs %q", second.Token, first.Token)
	}
	if second.State.TotalQuestions != 3 {
		t.Errorf("totalQuestions = %d, want 3", second.State.TotalQuestions)
	}
}
