package server

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

// SeedAdmin creates the initial admin account from config when none
// exists. Idempotent: does nothing once any admin is present.
func SeedAdmin(ctx context.Context, logger *slog.Logger, store Store, email, password string) error {
	count, err := store.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		return fmt.Errorf("no admins exist and ADMIN_PASSWORD is not set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := store.CreateAdmin(ctx, email, string(hash)); err != nil {
		return err
	}

	logger.Info("seeded initial admin", "email", email)
	return nil
}

// SeedDemo creates a demo category with three guessable images when the
// categories table is empty. The image refs point at bundled media so a
// fresh install is playable immediately.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store) error {
	existing, err := store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	if _, err := store.CreateCategory(ctx, game.Category{
		Name:        "landmarks",
		DisplayName: "World Landmarks",
		Description: "Guess the landmark from the tiles you reveal.",
		Icon:        "🗺️",
	}); err != nil {
		return err
	}

	demo := []game.ImageItem{
		{
			Answer:          "Eiffel Tower",
			AcceptedAnswers: []string{"Eiffel Tower", "La Tour Eiffel"},
			DisplayImage:    mediaBaseURL + "/demo/eiffel.jpg",
		},
		{
			Answer:          "Colosseum",
			AcceptedAnswers: []string{"Colosseum", "Coliseum"},
			DisplayImage:    mediaBaseURL + "/demo/colosseum.jpg",
		},
		{
			Answer:          "Big Ben",
			AcceptedAnswers: []string{"Big Ben", "Elizabeth Tower"},
			DisplayImage:    mediaBaseURL + "/demo/bigben.jpg",
		},
	}
	for _, it := range demo {
		it.ID = newID()
		it.Category = "landmarks"
		if _, err := store.CreateImage(ctx, it); err != nil {
			return err
		}
	}

	logger.Info("seeded demo category", "name", "landmarks", "images", len(demo))
	return nil
}
