package server

import (
	"context"
	"errors"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

var ErrNotFound = errors.New("not found")

// scoreFetchLimit bounds how many rows the leaderboard pulls before
// ranking in memory.
const scoreFetchLimit = 500

// Store is the persistence boundary for categories, images, score
// submissions and admin sessions. Round state never touches it.
type Store interface {
	ListCategories(ctx context.Context) ([]game.Category, error)
	GetCategory(ctx context.Context, name string) (game.Category, error)
	CreateCategory(ctx context.Context, c game.Category) (game.Category, error)
	UpdateCategory(ctx context.Context, c game.Category) (game.Category, error)
	DeleteCategory(ctx context.Context, name string) error

	ListImages(ctx context.Context, category string) ([]game.ImageItem, error)
	GetImage(ctx context.Context, id string) (game.ImageItem, error)
	CreateImage(ctx context.Context, it game.ImageItem) (game.ImageItem, error)
	UpdateImage(ctx context.Context, it game.ImageItem) (game.ImageItem, error)
	DeleteImage(ctx context.Context, id string) error

	SubmitScore(ctx context.Context, e game.LeaderboardEntry) (string, error)
	ListScores(ctx context.Context, category string, limit int) ([]game.LeaderboardEntry, error)

	CountAdmins(ctx context.Context) (int, error)
	CreateAdmin(ctx context.Context, email, passwordHash string) (string, error)
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}
