package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	infrastore "github.com/ledgerstack/ledgerstack/infra/docstore"
	"github.com/ledgerstack/ledgerstack/pkg/config"
	"github.com/ledgerstack/ledgerstack/pkg/service/maintenance"
	"github.com/ledgerstack/ledgerstack/webapi/common"
	maintenanceapi "github.com/ledgerstack/ledgerstack/webapi/maintenance"
)

const serviceName = "maintenance-api"

func main() {
	if err := run(); err != nil {
		slog.Error("service exited", "service", serviceName, "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log, serviceName)

	client, err := infrastore.Open(context.Background(), cfg.Store, logger)
	if err != nil {
		return err
	}
	svc := maintenance.New(client, logger, maintenance.WithTimeout(cfg.Store.RequestTimeout))

	app := common.NewApp(serviceName, logger)
	maintenanceapi.Routes(app, svc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "addr", addr)
	return app.Listen(addr)
}
