package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

type CategoryView struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	CoverImage  string `json:"coverImage"`
	CreatedAt   string `json:"createdAt"`
}

func categoryView(c game.Category) CategoryView {
	return CategoryView{
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Description: c.Description,
		Icon:        c.Icon,
		CoverImage:  c.CoverImage,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

func handleListCategories(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := store.ListCategories(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		views := make([]CategoryView, 0, len(cats))
		for _, c := range cats {
			views = append(views, categoryView(c))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func handleGetCategory(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		c, err := store.GetCategory(r.Context(), name)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, categoryView(c))
	}
}
