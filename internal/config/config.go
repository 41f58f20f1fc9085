package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"./marketscan.db"`

	JustTCGAPIKey     string `env:"JUSTTCG_API_KEY"`
	JustTCGDailyLimit int    `env:"JUSTTCG_DAILY_LIMIT" envDefault:"100"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Disables the per-IP rate limiter, for local development.
	DisableRateLimit bool `env:"DISABLE_RATE_LIMIT" envDefault:"false"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("env.Parse: %w", err)
	}
	return cfg, nil
}
