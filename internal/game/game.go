// Package game defines the core domain types and the tile-reveal round
// machinery. It has zero external dependencies — everything here is pure Go.
package game

import "time"

// TileCount is the number of grid cells overlaying a guessable image.
const TileCount = 25

// MaxQuestionScore is the score a question starts at; each revealed tile
// costs TileCost points, floored at zero.
const (
	MaxQuestionScore = 25
	TileCost         = 5
)

type Category struct {
	Name        string
	DisplayName string
	Description string
	Icon        string
	CoverImage  string
	CreatedAt   time.Time
}

// ImageItem is one guessable picture. Immutable during gameplay.
type ImageItem struct {
	ID           string
	Category     string
	DisplayImage string
	// RevealImage is the full/original picture shown on resolution.
	// Empty means fall back to DisplayImage.
	RevealImage     string
	Answer          string
	AcceptedAnswers []string
	CreatedAt       time.Time
}

// RevealTarget returns the image shown once the question is resolved.
func (it ImageItem) RevealTarget() string {
	if it.RevealImage != "" {
		return it.RevealImage
	}
	return it.DisplayImage
}

// LeaderboardEntry is one persisted score submission. Created and read,
// never updated.
type LeaderboardEntry struct {
	ID             string
	PlayerName     string
	Score          int
	Category       string
	TotalQuestions int
	CreatedAt      time.Time
}
