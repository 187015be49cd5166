package server

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, env Env) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Guessing Game API", "/openapi.json", "/docs"))

	r.Get("/healthz", handleHealth(env.Logger, env.DB, env.Redis))
	r.Get("/ws/leaderboard", handleWSLeaderboard(env.Logger, env.Broker))

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", handleListCategories(env.Store))
		r.Get("/categories/{name}", handleGetCategory(env.Store))

		r.Route("/game", func(r chi.Router) {
			r.Post("/start", handleGameStart(env.Store, env.Cache, env.Sessions, env.RNG, env.RoundSize))
			r.Get("/state", handleGameState(env.Sessions))
			r.Post("/tile", handleGameTile(env.Sessions))
			r.Post("/answer", handleGameAnswer(env.Sessions, env.Broker))
			r.Post("/reveal", handleGameReveal(env.Sessions, env.Broker))
			r.Post("/advance", handleGameAdvance(env.Sessions, env.Broker))
			r.Post("/reset", handleGameReset(env.Store, env.Cache, env.Sessions, env.RNG))
			r.Get("/events", handleEvents(env.Sessions, env.Broker))
		})

		r.Get("/leaderboard", handleLeaderboard(env.Store))
		r.Post("/leaderboard", handleSubmitScore(env.Store, env.Broker))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", handleAdminLogin(env.Store))
			r.Post("/logout", handleAdminLogout(env.Store))
			r.Get("/me", handleAdminMe(env.Store))

			r.Group(func(r chi.Router) {
				r.Use(adminAuthMiddleware(env.Store))

				r.Post("/categories", handleAdminCreateCategory(env.Store))
				r.Put("/categories/{name}", handleAdminUpdateCategory(env.Store))
				r.Delete("/categories/{name}", handleAdminDeleteCategory(env.Store, env.Blobs, env.Cache, env.Logger))

				r.Get("/images", handleAdminListImages(env.Store))
				r.Post("/images", handleAdminCreateImage(env.Store, env.Blobs, env.Cache, env.Logger))
				r.Put("/images/{id}", handleAdminUpdateImage(env.Store, env.Cache))
				r.Delete("/images/{id}", handleAdminDeleteImage(env.Store, env.Blobs, env.Cache, env.Logger))
			})
		})
	})

	if env.MediaDir != "" {
		fs := http.StripPrefix(mediaBaseURL+"/", http.FileServer(http.Dir(env.MediaDir)))
		r.Get(mediaBaseURL+"/*", fs.ServeHTTP)
	}

	if env.SPADir != "" {
		if _, err := os.Stat(env.SPADir); err == nil {
			r.NotFound(handleSPA(env.SPADir))
		}
	}
}
