package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env           string `env:"BOT_ENV" envDefault:"local"`
	Token         string `env:"BOT_TOKEN,required"`
	ListenAddr    string `env:"BOT_LISTEN_ADDR" envDefault:":8080"`
	MetricsPort   int    `env:"BOT_METRICS_PORT" envDefault:"9090"`
	StoragePath   string `env:"BOT_STORAGE_PATH" envDefault:"event.db"`
	PostgresDSN   string `env:"BOT_POSTGRES_DSN"`
	WebhookSecret string `env:"BOT_WEBHOOK_SECRET"`
	EventCapacity int    `env:"BOT_EVENT_CAPACITY" envDefault:"12"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &cfg, nil
}

// MustLoad is Load for the entry point, where a broken environment is fatal.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}

	return cfg
}
