package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	infrastore "github.com/ledgerstack/ledgerstack/infra/docstore"
	"github.com/ledgerstack/ledgerstack/infra/events/kafka"
	"github.com/ledgerstack/ledgerstack/infra/journalapi"
	"github.com/ledgerstack/ledgerstack/pkg/config"
	"github.com/ledgerstack/ledgerstack/pkg/events"
	"github.com/ledgerstack/ledgerstack/pkg/service/ledger"
	"github.com/ledgerstack/ledgerstack/pkg/service/registry"
	"github.com/ledgerstack/ledgerstack/pkg/service/settlement"
	"github.com/ledgerstack/ledgerstack/webapi/common"
	"github.com/ledgerstack/ledgerstack/webapi/payment"
)

const serviceName = "payment-api"

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

	var publisher events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
		logger.Info("settlement events enabled", "topic", cfg.Kafka.Topic)
	}

	ledgerSvc := ledger.New(client, logger,
		ledger.WithTimeout(cfg.Store.RequestTimeout),
		ledger.WithMaxRetries(cfg.Store.DebitMaxRetries))
	registrySvc := registry.New(client, registry.WithTimeout(cfg.Store.RequestTimeout))
	journal := journalapi.New(cfg.TransactionAPI.URL, cfg.TransactionAPI.Timeout)
	svc := settlement.New(ledgerSvc, registrySvc, journal, publisher, logger)

	app := common.NewApp(serviceName, logger)
	payment.Routes(app, svc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "addr", addr)
	return app.Listen(addr)
}
