package worker

import (
	"context"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/softdevglobal/bms-pro-sub000/internal/debounce"
	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
	"github.com/softdevglobal/bms-pro-sub000/internal/kafka"
)

type SnapshotCache interface {
	Invalidate(ctx context.Context, ownerID string) error
	AcquireWarmLock(ctx context.Context, ownerID string, ttl time.Duration) (bool, error)
}

type Refresher interface {
	Refresh(ctx context.Context, ownerID string) ([]domain.Booking, error)
}

type Notifier interface {
	Send(ctx context.Context, event kafka.BookingEvent) error
}

type Config struct {
	InvalidateDelay time.Duration
	WarmInterval    time.Duration
	WarmOwners      []string
}

// Worker keeps owner snapshots fresh and notifies customers about status
// changes. Bursts of events for one owner collapse into a single reload.
type Worker struct {
	cache     SnapshotCache
	refresher Refresher
	notifier  Notifier
	cfg       Config
	pending   *debounce.Group
	log       *zap.Logger
}

func New(cache SnapshotCache, refresher Refresher, notifier Notifier, cfg Config, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		cache:     cache,
		refresher: refresher,
		notifier:  notifier,
		cfg:       cfg,
		pending:   debounce.NewGroup(cfg.InvalidateDelay),
		log:       log.Named("worker"),
	}
}

// HandleMessage is the consumer callback. Undecodable messages are skipped;
// only notification failures stop consumption.
func (w *Worker) HandleMessage(ctx context.Context, msg kafkago.Message) error {
	event, err := kafka.DecodeBookingEvent(msg)
	if err != nil {
		w.log.Warn("skipping malformed event", zap.Error(err))
		return nil
	}
	if event.Type != kafka.EventStatusChanged {
		return nil
	}

	w.log.Info("booking event received",
		zap.String("event_id", event.ID),
		zap.String("owner_id", event.OwnerID),
		zap.String("booking_id", event.BookingID),
		zap.String("status", string(event.Status)),
	)

	if event.OwnerID != "" {
		owner := event.OwnerID
		w.pending.Start(owner, func() { w.reload(owner) })
	}

	if w.notifier != nil {
		if err := w.notifier.Send(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) reload(ownerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if w.cache != nil {
		if err := w.cache.Invalidate(ctx, ownerID); err != nil {
			w.log.Warn("invalidate snapshot failed", zap.String("owner_id", ownerID), zap.Error(err))
		}
	}
	if _, err := w.refresher.Refresh(ctx, ownerID); err != nil {
		w.log.Warn("reload snapshot failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

// Warm refreshes the configured owners. With a cache, a lock keeps replicas
// from refreshing the same owner twice per interval.
func (w *Worker) Warm(ctx context.Context) {
	for _, owner := range w.cfg.WarmOwners {
		if w.cache != nil {
			ok, err := w.cache.AcquireWarmLock(ctx, owner, w.cfg.WarmInterval)
			if err != nil {
				w.log.Warn("warm lock failed", zap.String("owner_id", owner), zap.Error(err))
				continue
			}
			if !ok {
				continue
			}
		}
		bookings, err := w.refresher.Refresh(ctx, owner)
		if err != nil {
			w.log.Warn("warm failed", zap.String("owner_id", owner), zap.Error(err))
			continue
		}
		w.log.Debug("snapshot warmed", zap.String("owner_id", owner), zap.Int("count", len(bookings)))
	}
}

// Run consumes events and warms snapshots until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, consume func(context.Context, func(context.Context, kafkago.Message) error) error) error {
	defer w.pending.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- consume(ctx, w.HandleMessage) }()

	var tick <-chan time.Time
	if w.cfg.WarmInterval > 0 && len(w.cfg.WarmOwners) > 0 {
		ticker := time.NewTicker(w.cfg.WarmInterval)
		defer ticker.Stop()
		tick = ticker.C
		w.Warm(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case <-tick:
			w.Warm(ctx)
		}
	}
}
