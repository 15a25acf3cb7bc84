// Package docstore wires the store contract to a concrete backend chosen
// from configuration. The client is process-wide: constructed lazily on
// first use and reused by every request thereafter.
package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/lib/pq"

	"github.com/ledgerstack/ledgerstack/infra/docstore/memory"
	"github.com/ledgerstack/ledgerstack/infra/docstore/postgres"
	"github.com/ledgerstack/ledgerstack/pkg/config"
	"github.com/ledgerstack/ledgerstack/pkg/docstore"
)

var (
	once    sync.Once
	client  docstore.Client
	openErr error
)

// Open returns the process-wide document store client, creating it on the
// first call. Safe for concurrent use; there is no teardown within a
// request's lifetime.
func Open(ctx context.Context, cfg *config.Store, logger *slog.Logger) (docstore.Client, error) {
	once.Do(func() {
		client, openErr = open(ctx, cfg, logger)
	})
	return client, openErr
}

func open(ctx context.Context, cfg *config.Store, logger *slog.Logger) (docstore.Client, error) {
	switch cfg.Backend {
	case "memory":
		logger.Info("document store initialized", "backend", "memory")
		return memory.New(), nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		pg := postgres.New(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		logger.Info("document store initialized", "backend", "postgres")
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
