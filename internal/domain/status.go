package domain

import (
	"encoding/json"
	"strings"
)

type Status string

const (
	StatusPendingReview Status = "PENDING_REVIEW"
	StatusTentative     Status = "TENTATIVE"
	StatusConfirmed     Status = "CONFIRMED"
	StatusCompleted     Status = "COMPLETED"
	StatusCancelled     Status = "CANCELLED"
)

var statusSynonyms = map[string]Status{
	"pending":        StatusPendingReview,
	"pending_review": StatusPendingReview,
	"pending-review": StatusPendingReview,
	"pendingreview":  StatusPendingReview,
	"tentative":      StatusTentative,
	"hold":           StatusTentative,
	"confirmed":      StatusConfirmed,
	"completed":      StatusCompleted,
	"cancelled":      StatusCancelled,
	"canceled":       StatusCancelled,
}

// ParseStatus normalizes the status spellings used by the booking API
// ("pending", "PENDING_REVIEW", "Confirmed", ...) into one canonical value.
// Unrecognized values are upper-cased and kept so they can still be filtered on.
func ParseStatus(s string) Status {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return ""
	}
	if st, ok := statusSynonyms[key]; ok {
		return st
	}
	return Status(strings.ToUpper(key))
}

func (s Status) Known() bool {
	switch s {
	case StatusPendingReview, StatusTentative, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsPending reports whether financial figures are still provisional.
func (s Status) IsPending() bool {
	return s == StatusPendingReview
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

var transitions = map[Status][]Status{
	StatusPendingReview: {StatusTentative, StatusConfirmed, StatusCancelled},
	StatusTentative:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed:     {StatusCompleted, StatusCancelled},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Wire is the spelling the booking API accepts on status updates.
func (s Status) Wire() string {
	if s == StatusPendingReview {
		return "pending"
	}
	return strings.ToLower(string(s))
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = ""
		return nil
	}
	*s = ParseStatus(raw)
	return nil
}
