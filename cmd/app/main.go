package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/softdevglobal/bms-pro-sub000/config"
	"github.com/softdevglobal/bms-pro-sub000/internal/bootstrap"
	"github.com/softdevglobal/bms-pro-sub000/internal/logger"
	"github.com/softdevglobal/bms-pro-sub000/internal/service/facets"
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
	facetService := facets.NewFacetService(bookingService, language.Make(cfg.Dashboard.Language))

	zl.Info("booking view starting", zap.String("source", cfg.Source.Kind))
	if err := bootstrap.Run(ctx, cfg, zl, bookingService, facetService); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}
