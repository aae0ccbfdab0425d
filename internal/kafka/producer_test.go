package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

type fakeWriter struct {
	failures int
	written  []kafka.Message
	calls    int
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.calls++
	if w.calls <= w.failures {
		return errors.New("leader not available")
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer([]string{"localhost:9092"}, w, nil)

	b := domain.Booking{ID: "BKG-1", Status: domain.StatusConfirmed, Customer: domain.Customer{Name: "Ava", Email: "ava@example.com"}}
	event := NewStatusChangedEvent("owner-1", b, domain.StatusTentative, time.Now())
	require.NoError(t, p.Publish(context.Background(), "booking-status-events", "owner-1", event))

	require.Len(t, w.written, 1)
	msg := w.written[0]
	assert.Equal(t, "booking-status-events", msg.Topic)
	assert.Equal(t, "owner-1", string(msg.Key))

	decoded, err := DecodeBookingEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, EventStatusChanged, decoded.Type)
	assert.Equal(t, domain.StatusConfirmed, decoded.Status)
	assert.Equal(t, domain.StatusTentative, decoded.PreviousStatus)
	assert.Equal(t, "ava@example.com", decoded.CustomerEmail)
	assert.NotEmpty(t, decoded.ID)
}

func TestPublishWithRetry_RecoversAfterFailures(t *testing.T) {
	w := &fakeWriter{failures: 2}
	p := newProducer(nil, w, nil)
	p.retryDelay = time.Millisecond

	require.NoError(t, p.PublishWithRetry(context.Background(), "t", "k", map[string]string{"a": "b"}, 3))
	assert.Equal(t, 3, w.calls)
	assert.Len(t, w.written, 1)
}

func TestPublishWithRetry_GivesUp(t *testing.T) {
	w := &fakeWriter{failures: 10}
	p := newProducer(nil, w, nil)
	p.retryDelay = time.Millisecond

	err := p.PublishWithRetry(context.Background(), "t", "k", "x", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 retries")
	assert.Equal(t, 2, w.calls)
}

func TestPublishWithRetry_StopsOnCancel(t *testing.T) {
	w := &fakeWriter{failures: 10}
	p := newProducer(nil, w, nil)
	p.retryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.PublishWithRetry(ctx, "t", "k", "x", 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, w.calls)
}

func TestDecodeBookingEvent_FallsBackToKeyForOwner(t *testing.T) {
	value, err := json.Marshal(map[string]string{"type": EventStatusChanged, "booking_id": "BKG-1", "status": "cancelled"})
	require.NoError(t, err)

	event, err := DecodeBookingEvent(kafka.Message{Key: []byte("owner-9"), Value: value})
	require.NoError(t, err)
	assert.Equal(t, "owner-9", event.OwnerID)
	assert.Equal(t, domain.StatusCancelled, event.Status)

	_, err = DecodeBookingEvent(kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestCheckConnection_NoBrokers(t *testing.T) {
	p := newProducer(nil, &fakeWriter{}, nil)
	assert.Error(t, p.CheckConnection(context.Background()))
}
