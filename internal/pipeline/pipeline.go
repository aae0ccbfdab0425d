package pipeline

import (
	"slices"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

// Pipeline reduces a booking list to the rows the dashboard renders.
// It is safe for concurrent use; every call works on its own copy.
type Pipeline struct {
	opts Options
}

func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts.withDefaults()}
}

var standard = New(DefaultOptions())

// Apply runs the pipeline with the default business constants.
func Apply(bookings []domain.Booking, filters FilterCriteria, searchTerm string, sort SortSpec) []domain.Booking {
	return standard.Apply(bookings, filters, searchTerm, sort)
}

// Apply filters and orders bookings in fixed stages: quick filter, search,
// field filters, date range, sort. The input slice is left untouched and the
// result is always a new slice. For the same inputs the order is always the
// same, whatever the order of the input slice.
func (p *Pipeline) Apply(bookings []domain.Booking, filters FilterCriteria, searchTerm string, sort SortSpec) []domain.Booking {
	now := p.opts.Now()

	out := slices.Clone(bookings)
	if out == nil {
		out = []domain.Booking{}
	}

	if q := p.quickFilter(filters.QuickFilter, now); q != nil {
		out = keep(out, q)
	}

	if term := normalizeTerm(searchTerm); term != "" {
		out = keep(out, matchSearch(term))
	}

	for _, f := range fieldFilters(filters) {
		out = keep(out, f)
	}

	for _, f := range dateRange(filters.DateFrom, filters.DateTo) {
		out = keep(out, f)
	}

	if sort.active() {
		slices.SortStableFunc(out, p.comparator(sort))
	}
	return out
}
