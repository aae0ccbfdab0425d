package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/softdevglobal/bms-pro-sub000/config"
	"github.com/softdevglobal/bms-pro-sub000/internal/bootstrap"
	"github.com/softdevglobal/bms-pro-sub000/internal/email"
	"github.com/softdevglobal/bms-pro-sub000/internal/kafka"
	"github.com/softdevglobal/bms-pro-sub000/internal/logger"
	"github.com/softdevglobal/bms-pro-sub000/internal/worker"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("worker needs kafka.brokers")
	}

	zl, err := logger.New(logger.Config(cfg.Logger))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.NewDeps(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("init dependencies", zap.Error(err))
	}
	defer deps.Close()

	bookingService, err := bootstrap.NewBookingService(cfg, deps, zl)
	if err != nil {
		zl.Fatal("init booking service", zap.Error(err))
	}

	var snapshotCache worker.SnapshotCache
	if deps.Cache != nil {
		snapshotCache = deps.Cache
	} else {
		zl.Warn("redis not configured, cached snapshots cannot be invalidated")
	}
	var publisher email.Publisher
	if deps.Producer != nil {
		publisher = deps.Producer
	}
	sender := email.NewSender(zl, publisher, cfg.Kafka.NotificationsTopic)

	w := worker.New(snapshotCache, bookingService, sender, worker.Config{
		InvalidateDelay: cfg.Worker.InvalidateDelay(),
		WarmInterval:    cfg.Worker.WarmInterval(),
		WarmOwners:      cfg.Worker.WarmOwners,
	}, zl)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
	defer consumer.Close()

	zl.Info("worker started",
		zap.String("topic", cfg.Kafka.BookingEventsTopic),
		zap.Strings("warm_owners", cfg.Worker.WarmOwners),
	)
	if err := w.Run(ctx, consumer.Consume); err != nil {
		zl.Error("consumer stopped", zap.Error(err))
	}
	zl.Info("worker stopped")
}
