package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr      string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath        string     `env:"DB_PATH" envDefault:"data/game.db"`
	MediaDir      string     `env:"MEDIA_DIR" envDefault:"data/media"`
	SPADir        string     `env:"SPA_DIR" envDefault:"../web/dist"`
	RedisURL      string     `env:"REDIS_URL" envDefault:""`
	LogLevel      slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	RoundSize     int        `env:"ROUND_SIZE" envDefault:"5"`
	AdminEmail    string     `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string     `env:"ADMIN_PASSWORD" envDefault:""`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
