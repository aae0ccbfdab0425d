package pipeline

import (
	"slices"
	"strings"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

// Command is a quick command offered by the command palette. Commands with
// Filters set open the booking list with those filters applied.
type Command struct {
	ID      string          `json:"id"`
	Label   string          `json:"label"`
	Action  string          `json:"action"`
	Filters *FilterCriteria `json:"filters,omitempty"`
}

const (
	ActionNavigate    = "navigate"
	ActionApplyFilter = "filter"
)

var quickCommands = []Command{
	{ID: "new-booking", Label: "New booking", Action: ActionNavigate},
	{ID: "today", Label: "Today's bookings", Action: ActionApplyFilter, Filters: &FilterCriteria{QuickFilter: QuickToday}},
	{ID: "pending-review", Label: "Pending review", Action: ActionApplyFilter, Filters: &FilterCriteria{Statuses: []string{string(domain.StatusPendingReview)}}},
	{ID: "confirmed", Label: "Confirmed", Action: ActionApplyFilter, Filters: &FilterCriteria{Statuses: []string{string(domain.StatusConfirmed)}}},
	{ID: "high-value", Label: "High value", Action: ActionApplyFilter, Filters: &FilterCriteria{QuickFilter: QuickHighValue}},
}

type PaletteResult struct {
	Commands []Command        `json:"commands"`
	Bookings []domain.Booking `json:"bookings"`
}

// Palette matches bookings and quick commands for the command palette.
type Palette struct {
	limit int
}

func NewPalette(limit int) *Palette {
	if limit <= 0 {
		limit = DefaultPaletteLimit
	}
	return &Palette{limit: limit}
}

// Match returns the quick commands whose label contains the query and up to
// limit bookings whose id, customer name or purpose contains it. Bookings are
// ranked id prefix first, then customer name prefix, then any other match,
// each group ordered by id. An empty query offers every command and no bookings.
func (p *Palette) Match(bookings []domain.Booking, query string) PaletteResult {
	q := normalizeTerm(query)

	res := PaletteResult{Commands: []Command{}, Bookings: []domain.Booking{}}
	for _, c := range quickCommands {
		if q == "" || Contains(c.Label, q) {
			res.Commands = append(res.Commands, c)
		}
	}
	if q == "" {
		return res
	}

	type hit struct {
		rank int
		b    domain.Booking
	}
	var hits []hit
	for _, b := range bookings {
		if rank, ok := paletteRank(&b, q); ok {
			hits = append(hits, hit{rank: rank, b: b})
		}
	}
	slices.SortFunc(hits, func(a, b hit) int {
		if a.rank != b.rank {
			return a.rank - b.rank
		}
		return strings.Compare(a.b.ID, b.b.ID)
	})

	for i := 0; i < len(hits) && i < p.limit; i++ {
		res.Bookings = append(res.Bookings, hits[i].b)
	}
	return res
}

func paletteRank(b *domain.Booking, q string) (int, bool) {
	switch {
	case strings.HasPrefix(strings.ToLower(b.ID), q):
		return 0, true
	case strings.HasPrefix(strings.ToLower(b.Customer.Name), q):
		return 1, true
	case Contains(b.ID, q), Contains(b.Customer.Name, q), Contains(b.Purpose, q):
		return 2, true
	}
	return 0, false
}
