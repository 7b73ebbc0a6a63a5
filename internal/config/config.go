package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath          string        `env:"DB_PATH" envDefault:"data/geoquest.db"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir          string        `env:"SPA_DIR" envDefault:"../web/dist"`
	VisionURL       string        `env:"VISION_URL" envDefault:"http://localhost:9090"`
	VisionAPIKey    string        `env:"VISION_API_KEY"`
	AdminEmail      string        `env:"ADMIN_EMAIL" envDefault:"admin@geoquest.local"`
	AdminPassword   string        `env:"ADMIN_PASSWORD" envDefault:"change-me"`
	PersistDebounce time.Duration `env:"PERSIST_DEBOUNCE" envDefault:"2s"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
