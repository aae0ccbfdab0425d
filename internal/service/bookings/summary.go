package bookings

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
	"github.com/softdevglobal/bms-pro-sub000/internal/pipeline"
)

// Summary feeds the dashboard's headline cards.
type Summary struct {
	Total       int                   `json:"total"`
	ByStatus    map[domain.Status]int `json:"byStatus"`
	Today       int                   `json:"today"`
	Overdue     int                   `json:"overdue"`
	HighValue   int                   `json:"highValue"`
	TotalValue  decimal.Decimal       `json:"totalValue"`
	DepositsIn  decimal.Decimal       `json:"depositsIn"`
	Outstanding decimal.Decimal       `json:"outstanding"`
}

// Summary aggregates the owner's snapshot. Cancelled bookings count towards
// ByStatus only; outstanding balances cover bookings that are not yet
// completed.
func (s *BookingService) Summary(ctx context.Context, ownerID string) (*Summary, error) {
	snapshot, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Total:       len(snapshot),
		ByStatus:    make(map[domain.Status]int),
		TotalValue:  decimal.Zero,
		DepositsIn:  decimal.Zero,
		Outstanding: decimal.Zero,
	}
	for _, b := range snapshot {
		sum.ByStatus[b.Status]++
		if b.Status == domain.StatusCancelled {
			continue
		}
		d := s.deriver.Derive(b)
		sum.TotalValue = sum.TotalValue.Add(d.TotalInclGST)
		if d.DepositPaid {
			sum.DepositsIn = sum.DepositsIn.Add(d.DepositAmount)
		}
		if !b.Status.IsTerminal() {
			sum.Outstanding = sum.Outstanding.Add(d.FinalDue)
		}
	}

	sum.Today = s.count(snapshot, pipeline.QuickToday)
	sum.Overdue = s.count(snapshot, pipeline.QuickOverdue)
	sum.HighValue = s.count(snapshot, pipeline.QuickHighValue)
	return sum, nil
}

func (s *BookingService) count(snapshot []domain.Booking, q pipeline.QuickFilter) int {
	return len(s.pipeline.Apply(snapshot, pipeline.FilterCriteria{QuickFilter: q}, "", pipeline.SortSpec{}))
}
