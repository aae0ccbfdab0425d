package upstream

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

// record is the booking API's wire shape. Newer payloads send RFC3339 start
// and end; older ones send bookingDate with startTime/endTime clocks. Loosely
// typed fields are shadowed here so one odd value does not lose the record.
type record struct {
	domain.Booking

	Start     string `json:"start"`
	End       string `json:"end"`
	CreatedAt string `json:"createdAt"`

	BookingDate string `json:"bookingDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`

	Customer   json.RawMessage `json:"customer"`
	Guests     domain.Amount   `json:"guests"`
	GuestCount domain.Amount   `json:"guestCount"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	HallName      string `json:"hallName"`
	EventType     string `json:"eventType"`
}

type customerRecord struct {
	domain.Customer

	BookingHistory domain.Amount `json:"bookingHistory"`
}

// decodeList splits the payload into raw records. The payload is either an
// array or an object wrapping one under "bookings" or "data".
func decodeList(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var out []json.RawMessage
		err := json.Unmarshal(trimmed, &out)
		return out, err
	}

	var wrapped struct {
		Bookings []json.RawMessage `json:"bookings"`
		Data     []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Bookings != nil {
		return wrapped.Bookings, nil
	}
	return wrapped.Data, nil
}

func decodeRecord(raw json.RawMessage) (record, error) {
	var r record
	err := json.Unmarshal(raw, &r)
	return r, err
}

func (r record) toDomain(loc *time.Location) domain.Booking {
	b := r.Booking

	b.Start = r.instant(r.Start, r.StartTime, loc)
	b.End = r.instant(r.End, r.EndTime, loc)
	if t, ok := parseInstant(r.CreatedAt, loc); ok {
		b.CreatedAt = t
	}

	b.Customer = decodeCustomer(r.Customer)
	if b.Customer.Name == "" {
		b.Customer.Name = r.CustomerName
	}
	if b.Customer.Email == "" {
		b.Customer.Email = r.CustomerEmail
	}
	if b.Resource == "" {
		b.Resource = r.HallName
	}
	if b.Purpose == "" {
		b.Purpose = r.EventType
	}
	b.Guests = int(r.Guests.Or(r.GuestCount.Or(0)))
	return b
}

// decodeCustomer accepts the customer object, or a bare string taken as the
// customer's name. Anything else yields an empty customer.
func decodeCustomer(raw json.RawMessage) domain.Customer {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return domain.Customer{}
	}
	switch raw[0] {
	case '"':
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return domain.Customer{}
		}
		return domain.Customer{Name: name}
	case '{':
		var c customerRecord
		if err := json.Unmarshal(raw, &c); err != nil {
			return domain.Customer{}
		}
		out := c.Customer
		out.BookingHistory = int(c.BookingHistory.Or(0))
		return out
	}
	return domain.Customer{}
}

func (r record) instant(value, clock string, loc *time.Location) time.Time {
	if t, ok := parseInstant(value, loc); ok {
		return t
	}
	date, ok := parseDate(r.BookingDate, loc)
	if !ok {
		return time.Time{}
	}
	t, _ := domain.CombineDateClock(date, clock, loc)
	return t
}

// parseDate reads the calendar day literally, ignoring any time or zone
// suffix such as "2026-10-14T00:00:00.000Z".
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	if len(s) < len("2006-01-02") {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", s[:len("2006-01-02")], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseInstant accepts RFC3339 timestamps, converted to loc, or bare dates.
func parseInstant(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}
