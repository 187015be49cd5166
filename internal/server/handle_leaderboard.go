package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

const defaultLeaderboardLimit = 10

type ScoreRequest struct {
	PlayerName     string `json:"playerName"`
	Score          int    `json:"score"`
	Category       string `json:"category"`
	TotalQuestions int    `json:"totalQuestions"`
}

type ScoreResponse struct {
	ID string `json:"id"`
}

type LeaderboardItem struct {
	Rank           int    `json:"rank"`
	PlayerName     string `json:"playerName"`
	Score          int    `json:"score"`
	Category       string `json:"category"`
	TotalQuestions int    `json:"totalQuestions"`
	SubmittedAgo   string `json:"submittedAgo"`
}

func handleSubmitScore(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScoreRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" || req.Category == "" {
			writeError(w, http.StatusBadRequest, "playerName and category are required")
			return
		}
		if req.Score < 0 || req.TotalQuestions < 1 {
			writeError(w, http.StatusBadRequest, "score and totalQuestions must be non-negative")
			return
		}
		if req.Score > game.MaxQuestionScore*req.TotalQuestions {
			writeError(w, http.StatusBadRequest, "score exceeds the round maximum")
			return
		}

		entry := game.LeaderboardEntry{
			PlayerName:     req.PlayerName,
			Score:          req.Score,
			Category:       req.Category,
			TotalQuestions: req.TotalQuestions,
		}
		id, err := store.SubmitScore(r.Context(), entry)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		entry.ID = id
		entry.CreatedAt = time.Now()
		broker.Publish(leaderboardChannel, entry)

		writeJSON(w, http.StatusCreated, ScoreResponse{ID: id})
	}
}

func handleLeaderboard(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		limit := defaultLeaderboardLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = n
		}

		entries, err := store.ListScores(r.Context(), category, scoreFetchLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		now := time.Now()
		ranked := game.Rank(entries, category, limit)
		items := make([]LeaderboardItem, 0, len(ranked))
		for i, e := range ranked {
			items = append(items, LeaderboardItem{
				Rank:           i + 1,
				PlayerName:     e.PlayerName,
				Score:          e.Score,
				Category:       e.Category,
				TotalQuestions: e.TotalQuestions,
				SubmittedAgo:   game.RelativeTime(e.CreatedAt, now),
			})
		}

		writeJSON(w, http.StatusOK, items)
	}
}
