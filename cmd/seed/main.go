// Command seed loads the demo fixture set into the configured document
// store.
package main

import (
	"context"
	"log/slog"
	"os"

	infrastore "github.com/ledgerstack/ledgerstack/infra/docstore"
	"github.com/ledgerstack/ledgerstack/internal/fixtures"
	"github.com/ledgerstack/ledgerstack/pkg/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log, "seed")

	ctx := context.Background()
	client, err := infrastore.Open(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	return fixtures.Seed(ctx, client, logger)
}
