package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment, applying envFile first if
// it exists. A missing .env file is not an error.
func Load(envFile string) (*App, error) {
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("no .env file found, using system environment variables", "path", envFile)
	}
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewLogger builds the process logger from the log config.
func NewLogger(cfg *Log, service string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", service)
}
