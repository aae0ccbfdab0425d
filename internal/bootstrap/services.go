package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/softdevglobal/bms-pro-sub000/config"
	"github.com/softdevglobal/bms-pro-sub000/internal/cache"
	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
	"github.com/softdevglobal/bms-pro-sub000/internal/kafka"
	"github.com/softdevglobal/bms-pro-sub000/internal/pipeline"
	"github.com/softdevglobal/bms-pro-sub000/internal/repository"
	"github.com/softdevglobal/bms-pro-sub000/internal/service/bookings"
	"github.com/softdevglobal/bms-pro-sub000/internal/upstream"
)

// Deps are the infrastructure clients shared by the app and the worker.
// Cache and Producer are nil when not configured.
type Deps struct {
	Source   bookings.Source
	Cache    *cache.RedisCache
	Producer *kafka.Producer

	closers []func()
}

func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func NewDeps(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Deps, error) {
	loc, err := cfg.Dashboard.Location()
	if err != nil {
		return nil, err
	}
	d := &Deps{}

	switch cfg.Source.Kind {
	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		d.Source = repository.NewBookingRepository(pool, loc)
	default:
		d.Source = upstream.NewClient(cfg.Source.API, loc, log)
	}

	if cfg.Redis.Addr != "" {
		c := cache.NewRedisCache(cfg.Redis, cfg.Dashboard.SnapshotTTL())
		if err := c.Ping(ctx); err != nil {
			log.Warn("redis unreachable, snapshots will be reloaded on demand", zap.Error(err))
		}
		d.Cache = c
		d.closers = append(d.closers, func() { _ = c.Close() })
	}

	if len(cfg.Kafka.Brokers) > 0 {
		p := kafka.NewProducer(cfg.Kafka.Brokers, log)
		if err := p.CheckConnection(ctx); err != nil {
			log.Warn("kafka unreachable, events may be lost", zap.Error(err))
		}
		d.Producer = p
		d.closers = append(d.closers, func() { _ = p.Close() })
	}
	return d, nil
}

// NewBookingService builds the booking service from config and deps.
func NewBookingService(cfg *config.Config, deps *Deps, log *zap.Logger) (*bookings.BookingService, error) {
	opts, err := PipelineOptions(cfg.Dashboard)
	if err != nil {
		return nil, err
	}

	var snapshotCache bookings.Cache
	if deps.Cache != nil {
		snapshotCache = deps.Cache
	}
	var producer bookings.Producer
	if deps.Producer != nil {
		producer = deps.Producer
	}

	return bookings.NewBookingService(deps.Source, snapshotCache, producer, bookings.Config{
		BookingTopic:   cfg.Kafka.BookingEventsTopic,
		PublishRetries: cfg.Kafka.PublishRetries,
		PageSize:       cfg.Dashboard.PageSize,
		SearchDebounce: cfg.Dashboard.SearchDebounce(),
		PaletteLimit:   cfg.Dashboard.PaletteLimit,
		DefaultGST:     cfg.Dashboard.DefaultGSTPercent,
		Pipeline:       opts,
	}, log), nil
}

func PipelineOptions(d config.DashboardConfig) (pipeline.Options, error) {
	loc, err := d.Location()
	if err != nil {
		return pipeline.Options{}, err
	}
	lang, err := language.Parse(d.Language)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("dashboard.language: %w", err)
	}
	overdue := make([]domain.Status, 0, len(d.OverdueStatuses))
	for _, s := range d.OverdueStatuses {
		overdue = append(overdue, domain.ParseStatus(s))
	}
	return pipeline.Options{
		HighValueThreshold: d.HighValueThreshold,
		OverdueStatuses:    overdue,
		Location:           loc,
		Language:           lang,
		Now:                time.Now,
	}, nil
}
