package email

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
	"github.com/softdevglobal/bms-pro-sub000/internal/kafka"
)

// Notification is a rendered customer email, handed to the mail relay via
// the notifications topic.
type Notification struct {
	EventID   string `json:"event_id"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	BookingID string `json:"booking_id"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type Sender struct {
	log       *zap.Logger
	publisher Publisher
	topic     string
}

// NewSender builds a sender. With a nil publisher or empty topic
// notifications are only logged.
func NewSender(log *zap.Logger, publisher Publisher, topic string) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{log: log.Named("email"), publisher: publisher, topic: topic}
}

// Send notifies the customer about a status change. Events without an
// address and moves back to pending review are skipped.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.CustomerEmail == "" || event.Status.IsPending() {
		s.log.Debug("notification skipped", zap.String("booking_id", event.BookingID), zap.String("status", string(event.Status)))
		return nil
	}

	n := Render(event)
	s.log.Info("sending notification",
		zap.String("event_id", event.ID),
		zap.String("booking_id", event.BookingID),
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
	)
	if s.publisher == nil || s.topic == "" {
		return nil
	}
	if err := s.publisher.Publish(ctx, s.topic, event.BookingID, n); err != nil {
		return fmt.Errorf("publish notification for %s: %w", event.BookingID, err)
	}
	return nil
}

func Render(event kafka.BookingEvent) Notification {
	name := event.CustomerName
	if name == "" {
		name = "there"
	}

	var subject, line string
	switch event.Status {
	case domain.StatusConfirmed:
		subject = "Your booking is confirmed"
		line = "your booking has been confirmed. We look forward to hosting you."
	case domain.StatusTentative:
		subject = "Your booking is on hold"
		line = "your booking is being held while we finalise the details."
	case domain.StatusCancelled:
		subject = "Your booking has been cancelled"
		line = "your booking has been cancelled. Reply to this email if this is unexpected."
	case domain.StatusCompleted:
		subject = "Thanks for your booking"
		line = "thank you for choosing us. Your booking is now complete."
	default:
		subject = "Your booking has been updated"
		line = fmt.Sprintf("your booking status is now %s.", strings.ToLower(string(event.Status)))
	}

	return Notification{
		EventID:   event.ID,
		To:        event.CustomerEmail,
		Subject:   fmt.Sprintf("%s (%s)", subject, event.BookingID),
		Body:      fmt.Sprintf("Hi %s,\n\n%s\n\nBooking reference: %s\n", name, line, event.BookingID),
		BookingID: event.BookingID,
	}
}
