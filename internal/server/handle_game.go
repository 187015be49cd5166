package server

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

type StartRequest struct {
	Category string `json:"category"`
	Count    int    `json:"count,omitempty"`
}

type StartResponse struct {
	Token string            `json:"token"`
	State GameStateResponse `json:"state"`
}

// QuestionView is the current question as the player may see it: the
// answer and reveal image appear only once the question is resolved.
type QuestionView struct {
	Index          int                  `json:"index"`
	ImageID        string               `json:"imageId"`
	DisplayImage   string               `json:"displayImage"`
	Revealed       [game.TileCount]bool `json:"revealedTiles"`
	QuestionScore  int                  `json:"questionScore"`
	AnswerRevealed bool                 `json:"answerRevealed"`
	RevealImage    string               `json:"revealImage,omitempty"`
	Answer         string               `json:"answer,omitempty"`
}

type GameStateResponse struct {
	Phase          string        `json:"phase"`
	Category       string        `json:"category"`
	TotalQuestions int           `json:"totalQuestions"`
	TotalScore     int           `json:"totalScore"`
	MaxScore       int           `json:"maxScore"`
	Complete       bool          `json:"complete"`
	Question       *QuestionView `json:"question"`
}

type TileRequest struct {
	Index int `json:"index"`
}

type TileResponse struct {
	Changed       bool                 `json:"changed"`
	Revealed      [game.TileCount]bool `json:"revealedTiles"`
	QuestionScore int                  `json:"questionScore"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type AnswerResponse struct {
	Correct    bool   `json:"correct"`
	Answer     string `json:"answer,omitempty"`
	ScoreDelta int    `json:"scoreDelta"`
	TotalScore int    `json:"totalScore"`
}

type AdvanceResponse struct {
	Complete bool              `json:"complete"`
	State    GameStateResponse `json:"state"`
}

// loadPool fetches a category's image pool, preferring the cache.
func loadPool(ctx context.Context, store Store, cache *PoolCache, category string) ([]game.ImageItem, error) {
	if pool, ok := cache.Get(ctx, category); ok {
		return pool, nil
	}
	pool, err := store.ListImages(ctx, category)
	if err != nil {
		return nil, err
	}
	cache.Set(ctx, category, pool)
	return pool, nil
}

func stateResponse(sess *gameSession) GameStateResponse {
	snap := sess.round.Snapshot()
	resp := GameStateResponse{
		Phase:          string(snap.Phase),
		Category:       snap.Category,
		TotalQuestions: snap.TotalQuestions,
		TotalScore:     snap.TotalScore,
		MaxScore:       game.MaxQuestionScore * snap.TotalQuestions,
		Complete:       snap.Complete,
	}

	q, ok := sess.round.Current()
	if !ok {
		return resp
	}
	view := &QuestionView{
		Index:          snap.CurrentIndex,
		ImageID:        q.ID,
		DisplayImage:   q.DisplayImage,
		Revealed:       snap.Revealed,
		QuestionScore:  snap.QuestionScore,
		AnswerRevealed: snap.AnswerRevealed,
	}
	if snap.AnswerRevealed {
		view.RevealImage = q.RevealTarget()
		view.Answer = q.Answer
	}
	resp.Question = view
	return resp
}

// startRound selects a pool and (re)starts the session's round. A failed
// start leaves the machine idle.
func startRound(ctx context.Context, store Store, cache *PoolCache, rng *rand.Rand,
	sess *gameSession, category string, count int) error {

	if _, err := store.GetCategory(ctx, category); err != nil {
		return err
	}
	pool, err := loadPool(ctx, store, cache, category)
	if err != nil {
		return err
	}
	selected := game.SelectRound(pool, count, rng)
	return sess.round.Start(category, selected)
}

func handleGameStart(store Store, cache *PoolCache, sessions *Sessions, rng *rand.Rand, defaultCount int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Category == "" {
			writeError(w, http.StatusBadRequest, "category is required")
			return
		}
		count := req.Count
		if count <= 0 {
			count = defaultCount
		}

		// Reuse the caller's session when it presents a valid token so a
		// second start supersedes the first; otherwise mint a new one.
		token, sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			token, sess = sessions.Create()
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()

		sess.count = count
		err = startRound(r.Context(), store, cache, rng, sess, req.Category, count)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		if errors.Is(err, game.ErrEmptyPool) {
			writeError(w, http.StatusConflict, "category has no images")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, StartResponse{
			Token: token,
			State: stateResponse(sess),
		})
	}
}

func handleGameState(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()
		writeJSON(w, http.StatusOK, stateResponse(sess))
	}
}

func handleGameTile(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req TileRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()

		changed, err := sess.round.RevealTile(req.Index)
		if errors.Is(err, game.ErrTileIndex) {
			writeError(w, http.StatusBadRequest, "tile index out of range")
			return
		}

		snap := sess.round.Snapshot()
		writeJSON(w, http.StatusOK, TileResponse{
			Changed:       changed,
			Revealed:      snap.Revealed,
			QuestionScore: snap.QuestionScore,
		})
	}
}

func handleGameAnswer(sessions *Sessions, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()

		ev, err := sess.round.SubmitAnswer(req.Answer)
		switch {
		case errors.Is(err, game.ErrEmptyAnswer):
			writeError(w, http.StatusBadRequest, "answer is required")
			return
		case errors.Is(err, game.ErrNotActive):
			writeError(w, http.StatusConflict, "question is not active")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(token, eventPayload(ev))

		writeJSON(w, http.StatusOK, AnswerResponse{
			Correct:    ev.Type == game.EventCorrect,
			Answer:     ev.Answer,
			ScoreDelta: ev.ScoreDelta,
			TotalScore: ev.TotalScore,
		})
	}
}

func handleGameReveal(sessions *Sessions, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()

		ev, err := sess.round.RevealAnswer()
		if errors.Is(err, game.ErrNotActive) {
			writeError(w, http.StatusConflict, "question is not active")
			return
		}

		broker.Publish(token, eventPayload(ev))
		writeJSON(w, http.StatusOK, stateResponse(sess))
	}
}

func handleGameAdvance(sessions *Sessions, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()

		ev, err := sess.round.Advance()
		if errors.Is(err, game.ErrNotResolved) {
			writeError(w, http.StatusConflict, "question is not resolved")
			return
		}

		broker.Publish(token, eventPayload(ev))

		writeJSON(w, http.StatusOK, AdvanceResponse{
			Complete: ev.Type == game.EventRoundComplete,
			State:    stateResponse(sess),
		})
	}
}

func handleGameReset(store Store, cache *PoolCache, sessions *Sessions, rng *rand.Rand) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()

		category := sess.round.Category()
		if category == "" {
			writeError(w, http.StatusConflict, "no round to reset")
			return
		}

		err = startRound(r.Context(), store, cache, rng, sess, category, sess.count)
		if errors.Is(err, game.ErrEmptyPool) {
			writeError(w, http.StatusConflict, "category has no images")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, stateResponse(sess))
	}
}
