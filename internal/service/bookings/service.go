package bookings

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
	"github.com/softdevglobal/bms-pro-sub000/internal/finance"
	"github.com/softdevglobal/bms-pro-sub000/internal/kafka"
	"github.com/softdevglobal/bms-pro-sub000/internal/pipeline"
)

type BookingUseCase interface {
	List(ctx context.Context, ownerID string, q ListQuery) (*ListResult, error)
	Get(ctx context.Context, ownerID, id string) (*Row, error)
	UpdateStatus(ctx context.Context, ownerID, id, status string) (*Row, error)
	Palette(ctx context.Context, ownerID, query string) (*pipeline.PaletteResult, error)
	Summary(ctx context.Context, ownerID string) (*Summary, error)
	Snapshot(ctx context.Context, ownerID string) ([]domain.Booking, error)
	SubmitSearch(ownerID, sessionID string, q ListQuery) uint64
	LatestSearch(ownerID, sessionID string) (*SearchState, error)
}

// Source is where booking snapshots come from: the booking REST API or its
// Postgres read replica.
type Source interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}

type Cache interface {
	GetSnapshot(ctx context.Context, ownerID string) ([]domain.Booking, error)
	SetSnapshot(ctx context.Context, ownerID string, bookings []domain.Booking) error
	Invalidate(ctx context.Context, ownerID string) error
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, payload any, maxRetries int) error
}

type Config struct {
	BookingTopic   string
	PublishRetries int
	PageSize       int
	SearchDebounce time.Duration
	PaletteLimit   int
	DefaultGST     float64
	Pipeline       pipeline.Options
}

type BookingService struct {
	source   Source
	cache    Cache
	producer Producer
	cfg      Config
	pipeline *pipeline.Pipeline
	palette  *pipeline.Palette
	deriver  *finance.Deriver
	sessions *sessionStore
	log      *zap.Logger
	now      func() time.Time
}

// NewBookingService wires the service. cache and producer may be nil.
func NewBookingService(source Source, cache Cache, producer Producer, cfg Config, log *zap.Logger) *BookingService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.DefaultGST <= 0 {
		cfg.DefaultGST = finance.DefaultGSTPercent
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &BookingService{
		source:   source,
		cache:    cache,
		producer: producer,
		cfg:      cfg,
		pipeline: pipeline.New(cfg.Pipeline),
		palette:  pipeline.NewPalette(cfg.PaletteLimit),
		deriver:  finance.NewDeriver(cfg.DefaultGST),
		log:      log.Named("bookings"),
		now:      time.Now,
	}
	if cfg.Pipeline.Now != nil {
		s.now = cfg.Pipeline.Now
	}
	s.sessions = newSessionStore(cfg.SearchDebounce, s.now)
	return s
}

// Row is a booking as listed by the dashboard, with its payment column.
type Row struct {
	domain.Booking
	Payment finance.PaymentView `json:"payment"`
}

type ListQuery struct {
	Filters  pipeline.FilterCriteria `json:"filters"`
	Search   string                  `json:"search,omitempty"`
	Sort     pipeline.SortSpec       `json:"sort"`
	Page     int                     `json:"page,omitempty"`
	PageSize int                     `json:"pageSize,omitempty"`
}

type ListResult struct {
	Rows     []Row `json:"rows"`
	Total    int   `json:"total"`
	Matched  int   `json:"matched"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

func (s *BookingService) List(ctx context.Context, ownerID string, q ListQuery) (*ListResult, error) {
	snapshot, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.list(snapshot, q), nil
}

func (s *BookingService) list(snapshot []domain.Booking, q ListQuery) *ListResult {
	matched := s.pipeline.Apply(snapshot, q.Filters, q.Search, q.Sort)

	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = s.cfg.PageSize
	}
	from := min((page-1)*size, len(matched))
	to := min(from+size, len(matched))

	rows := make([]Row, 0, to-from)
	for _, b := range matched[from:to] {
		rows = append(rows, s.row(b))
	}
	return &ListResult{Rows: rows, Total: len(snapshot), Matched: len(matched), Page: page, PageSize: size}
}

func (s *BookingService) Get(ctx context.Context, ownerID, id string) (*Row, error) {
	snapshot, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	b, ok := find(snapshot, id)
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	row := s.row(b)
	return &row, nil
}

// UpdateStatus forwards a status change to the source after checking it
// against the status machine, then drops the owner's snapshot and publishes a
// status-changed event. A failed publish is logged, not returned: the change
// itself already happened.
func (s *BookingService) UpdateStatus(ctx context.Context, ownerID, id, status string) (*Row, error) {
	next := domain.ParseStatus(status)
	if !next.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	snapshot, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	b, ok := find(snapshot, id)
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	previous := b.Status
	if !previous.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, previous, next)
	}

	if err := s.source.UpdateStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("update status of %s: %w", id, err)
	}
	b.Status = next

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, ownerID); err != nil {
			s.log.Warn("snapshot invalidation failed", zap.String("owner_id", ownerID), zap.Error(err))
		}
	}
	s.publish(ctx, kafka.NewStatusChangedEvent(ownerID, b, previous, s.now()))

	s.log.Info("booking status updated",
		zap.String("owner_id", ownerID),
		zap.String("booking_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)
	row := s.row(b)
	return &row, nil
}

func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil || s.cfg.BookingTopic == "" {
		return
	}
	if err := s.producer.PublishWithRetry(ctx, s.cfg.BookingTopic, event.OwnerID, event, s.cfg.PublishRetries); err != nil {
		s.log.Error("failed to publish booking event",
			zap.String("event_id", event.ID),
			zap.String("booking_id", event.BookingID),
			zap.Error(err),
		)
	}
}

func (s *BookingService) Palette(ctx context.Context, ownerID, query string) (*pipeline.PaletteResult, error) {
	snapshot, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	res := s.palette.Match(snapshot, query)
	return &res, nil
}

// Snapshot returns the owner's bookings, from the cache when possible.
// Cache failures degrade to a direct source read.
func (s *BookingService) Snapshot(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrValidation)
	}
	if s.cache != nil {
		cached, err := s.cache.GetSnapshot(ctx, ownerID)
		if err != nil {
			s.log.Warn("snapshot cache read failed", zap.String("owner_id", ownerID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.Refresh(ctx, ownerID)
}

// Refresh reloads the owner's bookings from the source and stores them.
func (s *BookingService) Refresh(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	bookings, err := s.source.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load bookings of %s: %w", ownerID, err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, ownerID, bookings); err != nil {
			s.log.Warn("snapshot cache write failed", zap.String("owner_id", ownerID), zap.Error(err))
		}
	}
	return bookings, nil
}

func (s *BookingService) row(b domain.Booking) Row {
	return Row{Booking: b, Payment: s.deriver.Present(b)}
}

func find(bookings []domain.Booking, id string) (domain.Booking, bool) {
	for _, b := range bookings {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Booking{}, false
}

var _ BookingUseCase = (*BookingService)(nil)
