package pipeline

import (
	"slices"
	"time"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

type predicate func(b *domain.Booking) bool

func keep(in []domain.Booking, p predicate) []domain.Booking {
	out := make([]domain.Booking, 0, len(in))
	for i := range in {
		if p(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}

func (p *Pipeline) quickFilter(q QuickFilter, now time.Time) predicate {
	loc := p.opts.Location
	today := startOfDay(now.In(loc))

	switch q {
	case QuickToday:
		return func(b *domain.Booking) bool {
			return sameDay(b.Start.In(loc), today)
		}
	case QuickTomorrow:
		tomorrow := today.AddDate(0, 0, 1)
		return func(b *domain.Booking) bool {
			return sameDay(b.Start.In(loc), tomorrow)
		}
	case QuickThisWeek:
		weekStart := today.AddDate(0, 0, -int(today.Weekday()))
		weekEnd := endOfDay(weekStart.AddDate(0, 0, 6))
		return func(b *domain.Booking) bool {
			return !b.Start.Before(weekStart) && !b.Start.After(weekEnd)
		}
	case QuickOverdue:
		return func(b *domain.Booking) bool {
			return slices.Contains(p.opts.OverdueStatuses, b.Status) && b.Start.Before(now)
		}
	case QuickHighValue:
		return func(b *domain.Booking) bool {
			return b.TotalValue.Or(0) > p.opts.HighValueThreshold
		}
	}
	return nil
}

// fieldFilters returns one predicate per non-empty advanced filter.
func fieldFilters(f FilterCriteria) []predicate {
	var out []predicate
	if len(f.Resources) > 0 {
		out = append(out, func(b *domain.Booking) bool { return slices.Contains(f.Resources, b.Resource) })
	}
	if len(f.Statuses) > 0 {
		statuses := make([]domain.Status, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, domain.ParseStatus(s))
		}
		out = append(out, func(b *domain.Booking) bool { return slices.Contains(statuses, b.Status) })
	}
	if len(f.Priority) > 0 {
		out = append(out, func(b *domain.Booking) bool { return slices.Contains(f.Priority, b.Priority) })
	}
	if len(f.CustomerTier) > 0 {
		out = append(out, func(b *domain.Booking) bool { return slices.Contains(f.CustomerTier, b.Customer.Tier) })
	}
	if len(f.RiskLevel) > 0 {
		out = append(out, func(b *domain.Booking) bool { return slices.Contains(f.RiskLevel, b.RiskLevel) })
	}
	if len(f.BookingSources) > 0 {
		out = append(out, func(b *domain.Booking) bool { return slices.Contains(f.BookingSources, b.BookingSource) })
	}
	return out
}

// dateRange keeps bookings starting on or after from and ending by the end of
// the to day. Both bounds apply independently, so an inverted range is empty.
func dateRange(from, to *time.Time) []predicate {
	var out []predicate
	if from != nil {
		lo := *from
		out = append(out, func(b *domain.Booking) bool { return !b.Start.Before(lo) })
	}
	if to != nil {
		hi := endOfDay(*to)
		out = append(out, func(b *domain.Booking) bool { return !b.End.After(hi) })
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
