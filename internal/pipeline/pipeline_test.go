package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

// Wednesday 14 October 2026, 10:00 UTC. The week runs Sunday 11 to Saturday 17.
var fixedNow = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func testPipeline() *Pipeline {
	opts := DefaultOptions()
	opts.Location = time.UTC
	opts.Now = func() time.Time { return fixedNow }
	return New(opts)
}

func at(day, hour int) time.Time {
	return time.Date(2026, 10, day, hour, 0, 0, 0, time.UTC)
}

func ids(bookings []domain.Booking) []string {
	out := make([]string, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ID)
	}
	return out
}

func valued(id string, v float64) domain.Booking {
	return domain.Booking{ID: id, TotalValue: domain.NewAmount(v)}
}

func TestApply_HighValueIsStrictlyAboveThreshold(t *testing.T) {
	in := []domain.Booking{valued("A", 1999), valued("B", 2000), valued("C", 2001)}

	got := testPipeline().Apply(in, FilterCriteria{QuickFilter: QuickHighValue}, "", SortSpec{})

	assert.Equal(t, []string{"C"}, ids(got))
}

func TestApply_HighValueThresholdIsConfigurable(t *testing.T) {
	opts := DefaultOptions()
	opts.HighValueThreshold = 500
	in := []domain.Booking{valued("A", 499), valued("B", 501)}

	got := New(opts).Apply(in, FilterCriteria{QuickFilter: QuickHighValue}, "", SortSpec{})

	assert.Equal(t, []string{"B"}, ids(got))
}

func TestApply_DateToIncludesWholeDay(t *testing.T) {
	dateTo := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	in := []domain.Booking{
		{ID: "inside", Start: at(20, 9), End: time.Date(2026, 10, 20, 23, 59, 59, int(998*time.Millisecond), time.UTC)},
		{ID: "outside", Start: at(20, 9), End: time.Date(2026, 10, 21, 0, 0, 0, int(time.Millisecond), time.UTC)},
	}

	got := testPipeline().Apply(in, FilterCriteria{DateTo: &dateTo}, "", SortSpec{})

	assert.Equal(t, []string{"inside"}, ids(got))
}

func TestApply_DateFromIsInclusive(t *testing.T) {
	from := at(15, 9)
	in := []domain.Booking{
		{ID: "early", Start: at(15, 8)},
		{ID: "exact", Start: at(15, 9)},
		{ID: "later", Start: at(16, 9)},
	}

	got := testPipeline().Apply(in, FilterCriteria{DateFrom: &from}, "", SortSpec{Column: "booking", Direction: Asc})

	assert.Equal(t, []string{"exact", "later"}, ids(got))
}

func TestApply_InvertedDateRangeIsEmpty(t *testing.T) {
	from := at(20, 0)
	to := at(10, 0)
	in := []domain.Booking{{ID: "A", Start: at(15, 9), End: at(15, 11)}}

	got := testPipeline().Apply(in, FilterCriteria{DateFrom: &from, DateTo: &to}, "", SortSpec{})

	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestApply_FuzzySearchOnCustomerName(t *testing.T) {
	in := []domain.Booking{
		{ID: "BKG-1", Customer: domain.Customer{Name: "John Smith"}},
		{ID: "BKG-2", Customer: domain.Customer{Name: "Jane Smith"}},
	}

	got := testPipeline().Apply(in, FilterCriteria{}, "jhn", SortSpec{})

	assert.Equal(t, []string{"BKG-1"}, ids(got))
}

func TestApply_SearchCoversTextFields(t *testing.T) {
	in := []domain.Booking{
		{ID: "BKG-1", Customer: domain.Customer{Email: "events@acme.test"}},
		{ID: "BKG-2", Resource: "Main Hall"},
		{ID: "BKG-3", Purpose: "Wedding reception"},
		{ID: "BKG-4", AssignedTo: "Priya"},
		{ID: "BKG-5", Tags: []string{"vip", "catering"}},
	}
	p := testPipeline()

	assert.Equal(t, []string{"BKG-1"}, ids(p.Apply(in, FilterCriteria{}, "ACME", SortSpec{})))
	assert.Equal(t, []string{"BKG-2"}, ids(p.Apply(in, FilterCriteria{}, "main hall", SortSpec{})))
	assert.Equal(t, []string{"BKG-3"}, ids(p.Apply(in, FilterCriteria{}, "wedding", SortSpec{})))
	assert.Equal(t, []string{"BKG-4"}, ids(p.Apply(in, FilterCriteria{}, "priya", SortSpec{})))
	assert.Equal(t, []string{"BKG-5"}, ids(p.Apply(in, FilterCriteria{}, "Catering", SortSpec{})))
	assert.Len(t, p.Apply(in, FilterCriteria{}, "   ", SortSpec{}), 5)
}

func TestApply_VowelOnlyTermDoesNotMatchEverything(t *testing.T) {
	in := []domain.Booking{
		{ID: "X-1", Customer: domain.Customer{Name: "Bob"}},
		{ID: "X-2", Customer: domain.Customer{Name: "Ann"}},
	}

	got := testPipeline().Apply(in, FilterCriteria{}, "a", SortSpec{})

	assert.Equal(t, []string{"X-2"}, ids(got))
}

func TestApply_SortTieBreaksOnID(t *testing.T) {
	p := testPipeline()
	spec := SortSpec{Column: "value", Direction: Asc}

	forward := []domain.Booking{valued("BKG-002", 500), valued("BKG-001", 500)}
	backward := []domain.Booking{valued("BKG-001", 500), valued("BKG-002", 500)}

	for i := 0; i < 3; i++ {
		assert.Equal(t, []string{"BKG-001", "BKG-002"}, ids(p.Apply(forward, FilterCriteria{}, "", spec)))
		assert.Equal(t, []string{"BKG-001", "BKG-002"}, ids(p.Apply(backward, FilterCriteria{}, "", spec)))
	}
}

func TestApply_DescNegatesTieBreakToo(t *testing.T) {
	in := []domain.Booking{valued("BKG-001", 500), valued("BKG-003", 900), valued("BKG-002", 500)}

	got := testPipeline().Apply(in, FilterCriteria{}, "", SortSpec{Column: "value", Direction: Desc})

	assert.Equal(t, []string{"BKG-003", "BKG-002", "BKG-001"}, ids(got))
}

func TestApply_UnknownColumnSortsByID(t *testing.T) {
	in := []domain.Booking{valued("C", 1), valued("A", 3), valued("B", 2)}

	got := testPipeline().Apply(in, FilterCriteria{}, "", SortSpec{Column: "nope", Direction: Asc})

	assert.Equal(t, []string{"A", "B", "C"}, ids(got))
}

func TestApply_NoSortKeepsFilteredOrder(t *testing.T) {
	in := []domain.Booking{valued("C", 1), valued("A", 3), valued("B", 2)}

	got := testPipeline().Apply(in, FilterCriteria{}, "", SortSpec{Column: "value"})

	assert.Equal(t, []string{"C", "A", "B"}, ids(got))
}

func TestApply_MissingValuesSortAsZero(t *testing.T) {
	in := []domain.Booking{
		valued("B", 10),
		{ID: "A"},
		{ID: "C", Balance: domain.NewAmount(-5)},
	}

	byValue := testPipeline().Apply(in, FilterCriteria{}, "", SortSpec{Column: "value", Direction: Asc})
	assert.Equal(t, []string{"A", "C", "B"}, ids(byValue))

	byBalance := testPipeline().Apply(in, FilterCriteria{}, "", SortSpec{Column: "balance", Direction: Asc})
	assert.Equal(t, []string{"C", "A", "B"}, ids(byBalance))
}

func TestApply_StringColumnsUseCollation(t *testing.T) {
	in := []domain.Booking{
		{ID: "1", Customer: domain.Customer{Name: "Zoe"}},
		{ID: "2", Customer: domain.Customer{Name: "émile"}},
		{ID: "3", Customer: domain.Customer{Name: "alice"}},
		{ID: "4", Customer: domain.Customer{Name: "Bob"}},
	}

	got := testPipeline().Apply(in, FilterCriteria{}, "", SortSpec{Column: "customer", Direction: Asc})

	assert.Equal(t, []string{"3", "4", "2", "1"}, ids(got))
}

func TestApply_SortByStartDate(t *testing.T) {
	in := []domain.Booking{
		{ID: "late", Start: at(20, 9)},
		{ID: "missing"},
		{ID: "early", Start: at(12, 9)},
	}

	got := testPipeline().Apply(in, FilterCriteria{}, "", SortSpec{Column: "start", Direction: Asc})

	assert.Equal(t, []string{"missing", "early", "late"}, ids(got))
}

func TestApply_QuickDateFilters(t *testing.T) {
	in := []domain.Booking{
		{ID: "sat-before", Start: at(10, 12)},
		{ID: "sunday", Start: at(11, 0)},
		{ID: "today-early", Start: at(14, 7)},
		{ID: "today-late", Start: at(14, 22)},
		{ID: "tomorrow", Start: at(15, 9)},
		{ID: "saturday", Start: time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC)},
		{ID: "next-sunday", Start: at(18, 9)},
	}
	p := testPipeline()
	sorted := SortSpec{Column: "start", Direction: Asc}

	assert.Equal(t, []string{"today-early", "today-late"}, ids(p.Apply(in, FilterCriteria{QuickFilter: QuickToday}, "", sorted)))
	assert.Equal(t, []string{"tomorrow"}, ids(p.Apply(in, FilterCriteria{QuickFilter: QuickTomorrow}, "", sorted)))
	assert.Equal(t,
		[]string{"sunday", "today-early", "today-late", "tomorrow", "saturday"},
		ids(p.Apply(in, FilterCriteria{QuickFilter: QuickThisWeek}, "", sorted)))
	assert.Len(t, p.Apply(in, FilterCriteria{QuickFilter: QuickAll}, "", sorted), len(in))
}

func TestApply_OverdueOnlyTentativeInPast(t *testing.T) {
	in := []domain.Booking{
		{ID: "tentative-past", Status: domain.StatusTentative, Start: at(13, 9)},
		{ID: "tentative-future", Status: domain.StatusTentative, Start: at(16, 9)},
		{ID: "pending-past", Status: domain.StatusPendingReview, Start: at(13, 9)},
		{ID: "confirmed-past", Status: domain.StatusConfirmed, Start: at(13, 9)},
	}

	got := testPipeline().Apply(in, FilterCriteria{QuickFilter: QuickOverdue}, "", SortSpec{})

	assert.Equal(t, []string{"tentative-past"}, ids(got))
}

func TestApply_OverdueStatusesAreConfigurable(t *testing.T) {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	opts.OverdueStatuses = []domain.Status{domain.StatusTentative, domain.StatusPendingReview}
	in := []domain.Booking{
		{ID: "pending-past", Status: domain.StatusPendingReview, Start: at(13, 9)},
		{ID: "confirmed-past", Status: domain.StatusConfirmed, Start: at(13, 9)},
	}

	got := New(opts).Apply(in, FilterCriteria{QuickFilter: QuickOverdue}, "", SortSpec{})

	assert.Equal(t, []string{"pending-past"}, ids(got))
}

func TestApply_FieldFiltersAreANDed(t *testing.T) {
	in := []domain.Booking{
		{ID: "1", Resource: "Main Hall", Status: domain.ParseStatus("pending"), Priority: "high", Customer: domain.Customer{Tier: "gold"}, RiskLevel: "low", BookingSource: "website"},
		{ID: "2", Resource: "Main Hall", Status: domain.StatusConfirmed, Priority: "high", Customer: domain.Customer{Tier: "gold"}, RiskLevel: "low", BookingSource: "website"},
		{ID: "3", Resource: "Garden Room", Status: domain.StatusPendingReview, Priority: "high", Customer: domain.Customer{Tier: "gold"}, RiskLevel: "low", BookingSource: "website"},
		{ID: "4", Resource: "Main Hall", Status: domain.StatusPendingReview, Priority: "low", Customer: domain.Customer{Tier: "silver"}, RiskLevel: "high", BookingSource: "quotation"},
	}
	f := FilterCriteria{
		Resources:      []string{"Main Hall"},
		Statuses:       []string{"PENDING_REVIEW"},
		Priority:       []string{"high"},
		CustomerTier:   []string{"gold"},
		RiskLevel:      []string{"low"},
		BookingSources: []string{"website", "admin"},
	}

	got := testPipeline().Apply(in, f, "", SortSpec{})

	assert.Equal(t, []string{"1"}, ids(got))
}

func TestApply_StageOrderNarrowsEachTime(t *testing.T) {
	in := []domain.Booking{
		{ID: "BKG-1", Customer: domain.Customer{Name: "John Smith"}, TotalValue: domain.NewAmount(5000), Resource: "Main Hall"},
		{ID: "BKG-2", Customer: domain.Customer{Name: "John Doe"}, TotalValue: domain.NewAmount(100), Resource: "Main Hall"},
		{ID: "BKG-3", Customer: domain.Customer{Name: "John Roe"}, TotalValue: domain.NewAmount(9000), Resource: "Annex"},
	}

	got := testPipeline().Apply(in, FilterCriteria{QuickFilter: QuickHighValue, Resources: []string{"Main Hall"}}, "john", SortSpec{})

	assert.Equal(t, []string{"BKG-1"}, ids(got))
}

func TestApply_DoesNotTouchInput(t *testing.T) {
	in := []domain.Booking{valued("B", 2), valued("A", 1)}

	got := testPipeline().Apply(in, FilterCriteria{}, "", SortSpec{Column: "booking", Direction: Asc})

	require.Len(t, got, 2)
	assert.Equal(t, []string{"B", "A"}, ids(in))
	got[0].ID = "changed"
	assert.Equal(t, "B", in[0].ID)
}

func TestApply_NilInputGivesEmptySlice(t *testing.T) {
	got := Apply(nil, FilterCriteria{}, "", SortSpec{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"balance", "booking", "customer", "end", "priority", "resource", "start", "status", "value"},
		Columns())
}
