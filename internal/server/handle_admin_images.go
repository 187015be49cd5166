package server

import (
	"encoding/json"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/crop"
	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

const (
	mediaBaseURL  = "/media"
	maxUploadSize = 10 << 20
)

// CropRequest carries the crop selection alongside an image upload: the
// square box in container coordinates, the base displayed image bounds,
// and the zoom the author had applied.
type CropRequest struct {
	Box struct {
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
		Size float64 `json:"size"`
	} `json:"box"`
	Displayed struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		W float64 `json:"w"`
		H float64 `json:"h"`
	} `json:"displayed"`
	Zoom float64 `json:"zoom"`
}

type ImageView struct {
	ID              string   `json:"id"`
	Category        string   `json:"category"`
	DisplayImage    string   `json:"displayImage"`
	RevealImage     string   `json:"revealImage"`
	Answer          string   `json:"answer"`
	AcceptedAnswers []string `json:"acceptedAnswers"`
	CreatedAt       string   `json:"createdAt"`
}

// ImageUpdateRequest is the body for PUT /api/admin/images/{id}. Image
// bytes are immutable after upload; re-crop means re-upload.
type ImageUpdateRequest struct {
	Category        string   `json:"category"`
	Answer          string   `json:"answer"`
	AcceptedAnswers []string `json:"acceptedAnswers"`
}

func imageView(it game.ImageItem) ImageView {
	return ImageView{
		ID:              it.ID,
		Category:        it.Category,
		DisplayImage:    it.DisplayImage,
		RevealImage:     it.RevealTarget(),
		Answer:          it.Answer,
		AcceptedAnswers: it.AcceptedAnswers,
		CreatedAt:       it.CreatedAt.Format(time.RFC3339),
	}
}

func blobKeyFromURL(url string) string {
	key, found := strings.CutPrefix(url, mediaBaseURL+"/")
	if !found {
		return ""
	}
	return key
}

// normalizeAnswers trims entries, drops blanks, and guarantees the
// canonical answer is the first accepted one.
func normalizeAnswers(answer string, accepted []string) (string, []string, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", nil, false
	}
	out := []string{answer}
	for _, a := range accepted {
		a = strings.TrimSpace(a)
		if a == "" || strings.EqualFold(a, answer) {
			continue
		}
		out = append(out, a)
	}
	return answer, out, true
}

func handleAdminListImages(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		if category == "" {
			writeError(w, http.StatusBadRequest, "category query parameter required")
			return
		}
		items, err := store.ListImages(r.Context(), category)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		views := make([]ImageView, 0, len(items))
		for _, it := range items {
			views = append(views, imageView(it))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func handleAdminCreateImage(store Store, blobs BlobStore, cache *PoolCache, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}

		category := strings.TrimSpace(r.FormValue("category"))
		if category == "" {
			writeError(w, http.StatusBadRequest, "category is required")
			return
		}
		if _, err := store.GetCategory(r.Context(), category); errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var accepted []string
		if raw := r.FormValue("acceptedAnswers"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &accepted); err != nil {
				writeError(w, http.StatusBadRequest, "acceptedAnswers must be a JSON string array")
				return
			}
		}
		answer, accepted, ok := normalizeAnswers(r.FormValue("answer"), accepted)
		if !ok {
			writeError(w, http.StatusBadRequest, "answer is required")
			return
		}

		var cropReq CropRequest
		if err := json.Unmarshal([]byte(r.FormValue("crop")), &cropReq); err != nil {
			writeError(w, http.StatusBadRequest, "crop must be a JSON crop selection")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "image file is required")
			return
		}
		defer file.Close()

		src, _, err := image.Decode(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "image must be a valid PNG or JPEG")
			return
		}

		displayed := crop.Bounds{X: cropReq.Displayed.X, Y: cropReq.Displayed.Y, W: cropReq.Displayed.W, H: cropReq.Displayed.H}
		box := crop.Box{X: cropReq.Box.X, Y: cropReq.Box.Y, Size: cropReq.Box.Size}
		// Re-clamp defensively; the client's gesture layer should already
		// have kept the box inside the zoomed image.
		box = crop.Drag(box, crop.EffectiveBounds(displayed, cropReq.Zoom), 0, 0)

		cropped, err := crop.Rasterize(src, box, displayed, cropReq.Zoom, crop.DefaultOutputSize)
		if err != nil {
			writeError(w, http.StatusBadRequest, "crop selection is not rasterizable")
			return
		}

		// Keep the original upload as the reveal image.
		if _, err := file.Seek(0, 0); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		original, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		id := newID()
		displayKey := "images/" + id + ".jpg"
		revealKey := "images/" + id + "-full" + blobExt(header.Filename)
		if err := blobs.Put(displayKey, cropped); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := blobs.Put(revealKey, original); err != nil {
			blobs.Remove(displayKey)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		it, err := store.CreateImage(r.Context(), game.ImageItem{
			ID:              id,
			Category:        category,
			DisplayImage:    blobs.PublicURL(displayKey),
			RevealImage:     blobs.PublicURL(revealKey),
			Answer:          answer,
			AcceptedAnswers: accepted,
		})
		if err != nil {
			blobs.Remove(displayKey)
			blobs.Remove(revealKey)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		cache.Invalidate(r.Context(), category)
		logger.Info("image created", "id", id, "category", category)
		writeJSON(w, http.StatusCreated, imageView(it))
	}
}

func blobExt(filename string) string {
	if strings.HasSuffix(strings.ToLower(filename), ".png") {
		return ".png"
	}
	return ".jpg"
}

func handleAdminUpdateImage(store Store, cache *PoolCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req ImageUpdateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		answer, accepted, ok := normalizeAnswers(req.Answer, req.AcceptedAnswers)
		if !ok {
			writeError(w, http.StatusBadRequest, "answer is required")
			return
		}

		existing, err := store.GetImage(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		oldCategory := existing.Category
		category := existing.Category
		if req.Category != "" {
			category = req.Category
			if _, err := store.GetCategory(r.Context(), category); errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "category not found")
				return
			} else if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		existing.Category = category
		existing.Answer = answer
		existing.AcceptedAnswers = accepted
		it, err := store.UpdateImage(r.Context(), existing)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// The image may have moved between categories; drop both pools.
		cache.Invalidate(r.Context(), oldCategory)
		cache.Invalidate(r.Context(), category)
		writeJSON(w, http.StatusOK, imageView(it))
	}
}

func handleAdminDeleteImage(store Store, blobs BlobStore, cache *PoolCache, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		it, err := store.GetImage(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := store.DeleteImage(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		for _, ref := range []string{it.DisplayImage, it.RevealImage} {
			if key := blobKeyFromURL(ref); key != "" {
				if err := blobs.Remove(key); err != nil {
					logger.Warn("removing blob", "key", key, "error", err)
				}
			}
		}

		cache.Invalidate(r.Context(), it.Category)
		w.WriteHeader(http.StatusOK)
	}
}
