package pipeline

import (
	"time"

	"golang.org/x/text/language"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

type QuickFilter string

const (
	QuickAll       QuickFilter = "all"
	QuickToday     QuickFilter = "today"
	QuickTomorrow  QuickFilter = "tomorrow"
	QuickThisWeek  QuickFilter = "thisWeek"
	QuickOverdue   QuickFilter = "overdue"
	QuickHighValue QuickFilter = "highValue"
)

// FilterCriteria is the quick filter plus the advanced filter panel state.
// Empty slices and nil dates disable the corresponding filter.
type FilterCriteria struct {
	Resources      []string    `json:"resources,omitempty"`
	Statuses       []string    `json:"statuses,omitempty"`
	Priority       []string    `json:"priority,omitempty"`
	CustomerTier   []string    `json:"customerTier,omitempty"`
	RiskLevel      []string    `json:"riskLevel,omitempty"`
	BookingSources []string    `json:"bookingSources,omitempty"`
	DateFrom       *time.Time  `json:"dateFrom,omitempty"`
	DateTo         *time.Time  `json:"dateTo,omitempty"`
	QuickFilter    QuickFilter `json:"quickFilter,omitempty"`
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortSpec struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

func (s SortSpec) active() bool {
	return s.Column != "" && (s.Direction == Asc || s.Direction == Desc)
}

const (
	DefaultHighValueThreshold = 2000
	DefaultPaletteLimit       = 8
)

// Options holds the business constants of the pipeline.
type Options struct {
	// HighValueThreshold is exclusive: totals strictly above it are high value.
	HighValueThreshold float64
	// OverdueStatuses are the statuses that count as overdue once started.
	OverdueStatuses []domain.Status
	// Location decides calendar days for the date based quick filters.
	Location *time.Location
	// Language selects the collation used for string columns.
	Language language.Tag
	Now      func() time.Time
}

func DefaultOptions() Options {
	return Options{
		HighValueThreshold: DefaultHighValueThreshold,
		OverdueStatuses:    []domain.Status{domain.StatusTentative},
		Location:           time.Local,
		Language:           language.English,
		Now:                time.Now,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.OverdueStatuses == nil {
		o.OverdueStatuses = def.OverdueStatuses
	}
	if o.Location == nil {
		o.Location = def.Location
	}
	if o.Language == language.Und {
		o.Language = def.Language
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	return o
}
