package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func submitScore(t *testing.T, env *testEnv, req ScoreRequest) *httptest.ResponseRecorder {
	t.Helper()
	return postJSON(t, env.router, "/api/leaderboard", "", req)
}

func TestSubmitScoreValidation(t *testing.T) {
	env := setupEnv(t)

	tests := []struct {
		name string
		req  ScoreRequest
	}{
		{"blank name", ScoreRequest{PlayerName: "   ", Category: "animals", Score: 10, TotalQuestions: 1}},
		{"missing category", ScoreRequest{PlayerName: "Ana", Score: 10, TotalQuestions: 1}},
		{"negative score", ScoreRequest{PlayerName: "Ana", Category: "animals", Score: -1, TotalQuestions: 1}},
		{"zero questions", ScoreRequest{PlayerName: "Ana", Category: "animals", Score: 10, TotalQuestions: 0}},
		{"score above maximum", ScoreRequest{PlayerName: "Ana", Category: "animals", Score: 51, TotalQuestions: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := submitScore(t, env, tt.req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestLeaderboardRanking(t *testing.T) {
	env := setupEnv(t)

	scores := []ScoreRequest{
		{PlayerName: "Ana", Category: "animals", Score: 40, TotalQuestions: 2},
		{PlayerName: "Ben", Category: "animals", Score: 50, TotalQuestions: 2},
		{PlayerName: "Cleo", Category: "animals", Score: 40, TotalQuestions: 2},
		{PlayerName: "Dara", Category: "flags", Score: 45, TotalQuestions: 2},
	}
	for _, s := range scores {
		w := submitScore(t, env, s)
		if w.Code != http.StatusCreated {
			t.Fatalf("submit %s: expected 201, got %d: %s", s.PlayerName, w.Code, w.Body.String())
		}
	}

	w := getJSON(t, env.router, "/api/leaderboard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var items []LeaderboardItem
	json.NewDecoder(w.Body).Decode(&items)

	// Highest first; equal scores keep fetch order, which is newest
	// submission first.
	wantNames := []string{"Ben", "Dara", "Cleo", "Ana"}
	if len(items) != len(wantNames) {
		t.Fatalf("got %d entries, want %d", len(items), len(wantNames))
	}
	for i, name := range wantNames {
		if items[i].PlayerName != name {
			t.Errorf("rank %d = %q, want %q", i+1, items[i].PlayerName, name)
		}
		if items[i].Rank != i+1 {
			t.Errorf("rank field = %d, want %d", items[i].Rank, i+1)
		}
	}
	if items[0].SubmittedAgo != "just now" {
		t.Errorf("submittedAgo = %q, want just now", items[0].SubmittedAgo)
	}
}

func TestLeaderboardCategoryFilterAndLimit(t *testing.T) {
	env := setupEnv(t)

	for _, s := range []ScoreRequest{
		{PlayerName: "Ana", Category: "animals", Score: 10, TotalQuestions: 1},
		{PlayerName: "Ben", Category: "flags", Score: 20, TotalQuestions: 1},
		{PlayerName: "Cleo", Category: "animals", Score: 25, TotalQuestions: 1},
	} {
		submitScore(t, env, s)
	}

	w := getJSON(t, env.router, "/api/leaderboard?category=animals", "")
	var items []LeaderboardItem
	json.NewDecoder(w.Body).Decode(&items)
	if len(items) != 2 {
		t.Fatalf("filtered: got %d entries, want 2", len(items))
	}
	for _, it := range items {
		if it.Category != "animals" {
			t.Errorf("entry %q has category %q", it.PlayerName, it.Category)
		}
	}

	w = getJSON(t, env.router, "/api/leaderboard?limit=1", "")
	items = nil
	json.NewDecoder(w.Body).Decode(&items)
	if len(items) != 1 || items[0].PlayerName != "Cleo" {
		t.Fatalf("limited: got %+v, want just Cleo", items)
	}

	w = getJSON(t, env.router, "/api/leaderboard?limit=zero", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: expected 400, got %d", w.Code)
	}
}

func TestSubmitScorePublishesToFeed(t *testing.T) {
	env := setupEnv(t)

	ch := env.broker.Subscribe(leaderboardChannel)
	defer env.broker.Unsubscribe(leaderboardChannel, ch)

	submitScore(t, env, ScoreRequest{PlayerName: "Ana", Category: "animals", Score: 25, TotalQuestions: 1})

	select {
	case data := <-ch:
		var entry struct {
			PlayerName string
			Score      int
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			t.Fatalf("decoding feed payload: %v", err)
		}
		if entry.PlayerName != "Ana" || entry.Score != 25 {
			t.Errorf("feed payload = %+v, want Ana/25", entry)
		}
	default:
		t.Fatal("no event published to the leaderboard feed")
	}
}
