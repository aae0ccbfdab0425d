package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

const EventStatusChanged = "booking_status_changed"

// BookingEvent is published whenever a booking's status is changed through
// this service. Messages are keyed by owner so one owner's events stay ordered.
type BookingEvent struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	OwnerID        string        `json:"owner_id"`
	BookingID      string        `json:"booking_id"`
	Status         domain.Status `json:"status"`
	PreviousStatus domain.Status `json:"previous_status"`
	CustomerEmail  string        `json:"customer_email,omitempty"`
	CustomerName   string        `json:"customer_name,omitempty"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

func NewStatusChangedEvent(ownerID string, b domain.Booking, previous domain.Status, at time.Time) BookingEvent {
	return BookingEvent{
		ID:             uuid.NewString(),
		Type:           EventStatusChanged,
		OwnerID:        ownerID,
		BookingID:      b.ID,
		Status:         b.Status,
		PreviousStatus: previous,
		CustomerEmail:  b.Customer.Email,
		CustomerName:   b.Customer.Name,
		OccurredAt:     at.UTC(),
	}
}

func DecodeBookingEvent(msg kafka.Message) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event at offset %d: %w", msg.Offset, err)
	}
	if event.OwnerID == "" {
		event.OwnerID = string(msg.Key)
	}
	return event, nil
}
