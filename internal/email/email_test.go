package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
	"github.com/softdevglobal/bms-pro-sub000/internal/kafka"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

func confirmedEvent() kafka.BookingEvent {
	return kafka.BookingEvent{
		ID:            "evt-1",
		Type:          kafka.EventStatusChanged,
		BookingID:     "BKG-1",
		Status:        domain.StatusConfirmed,
		CustomerEmail: "ava@example.com",
		CustomerName:  "Ava",
	}
}

func TestSend_PublishesRenderedNotification(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, "notifications", "BKG-1", mock.MatchedBy(func(n Notification) bool {
		return n.To == "ava@example.com" && n.Subject == "Your booking is confirmed (BKG-1)"
	})).Return(nil)

	s := NewSender(nil, pub, "notifications")
	require.NoError(t, s.Send(context.Background(), confirmedEvent()))
	pub.AssertExpectations(t)
}

func TestSend_SkipsWithoutEmailOrWhenPending(t *testing.T) {
	pub := new(MockPublisher)
	s := NewSender(nil, pub, "notifications")

	noEmail := confirmedEvent()
	noEmail.CustomerEmail = ""
	require.NoError(t, s.Send(context.Background(), noEmail))

	pending := confirmedEvent()
	pending.Status = domain.StatusPendingReview
	require.NoError(t, s.Send(context.Background(), pending))

	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_LogOnlyWithoutTopic(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	s := NewSender(zap.New(core), nil, "")

	require.NoError(t, s.Send(context.Background(), confirmedEvent()))
	assert.Equal(t, 1, recorded.FilterMessage("sending notification").Len())
}

func TestSend_PublishError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := NewSender(nil, pub, "notifications").Send(context.Background(), confirmedEvent())
	assert.ErrorContains(t, err, "BKG-1")
}

func TestRender(t *testing.T) {
	ev := confirmedEvent()
	ev.Status = domain.StatusCancelled
	ev.CustomerName = ""

	n := Render(ev)
	assert.Equal(t, "Your booking has been cancelled (BKG-1)", n.Subject)
	assert.Contains(t, n.Body, "Hi there,")
	assert.Contains(t, n.Body, "Booking reference: BKG-1")
}
