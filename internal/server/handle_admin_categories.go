package server

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

// CategoryRequest is the create/update body for admin category CRUD.
type CategoryRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	CoverImage  string `json:"coverImage"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func (req *CategoryRequest) validate(requireName bool) string {
	req.Name = strings.TrimSpace(req.Name)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if requireName && !slugPattern.MatchString(req.Name) {
		return "name must be a lowercase slug"
	}
	if req.DisplayName == "" {
		return "displayName is required"
	}
	return ""
}

func handleAdminCreateCategory(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CategoryRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(true); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		if _, err := store.GetCategory(r.Context(), req.Name); err == nil {
			writeError(w, http.StatusConflict, "category already exists")
			return
		}

		c, err := store.CreateCategory(r.Context(), game.Category{
			Name:        req.Name,
			DisplayName: req.DisplayName,
			Description: req.Description,
			Icon:        req.Icon,
			CoverImage:  req.CoverImage,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, categoryView(c))
	}
}

func handleAdminUpdateCategory(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		var req CategoryRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(false); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		c, err := store.UpdateCategory(r.Context(), game.Category{
			Name:        name,
			DisplayName: req.DisplayName,
			Description: req.Description,
			Icon:        req.Icon,
			CoverImage:  req.CoverImage,
		})
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

func handleAdminDeleteCategory(store Store, blobs BlobStore, cache *PoolCache, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		// Collect blob keys before the cascade wipes the rows.
		images, err := store.ListImages(r.Context(), name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		err = store.DeleteCategory(r.Context(), name)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Blob removal is best-effort; orphaned files are harmless.
		for _, it := range images {
			for _, ref := range []string{it.DisplayImage, it.RevealImage} {
				if key := blobKeyFromURL(ref); key != "" {
					if err := blobs.Remove(key); err != nil {
						logger.Warn("removing blob", "key", key, "error", err)
					}
				}
			}
		}

		cache.Invalidate(r.Context(), name)
		w.WriteHeader(http.StatusOK)
	}
}
