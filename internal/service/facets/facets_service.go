package facets

import (
	"context"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
	"github.com/softdevglobal/bms-pro-sub000/internal/pipeline"
)

type FacetUseCase interface {
	Facets(ctx context.Context, ownerID string) (*Facets, error)
}

type SnapshotLoader interface {
	Snapshot(ctx context.Context, ownerID string) ([]domain.Booking, error)
}

// Facets are the options of the advanced filter dropdowns, built from the
// values that actually occur in the owner's bookings.
type Facets struct {
	Resources      []string               `json:"resources"`
	Statuses       []string               `json:"statuses"`
	Priorities     []string               `json:"priorities"`
	CustomerTiers  []string               `json:"customerTiers"`
	RiskLevels     []string               `json:"riskLevels"`
	BookingSources []string               `json:"bookingSources"`
	QuickFilters   []pipeline.QuickFilter `json:"quickFilters"`
	SortColumns    []string               `json:"sortColumns"`
}

var quickFilters = []pipeline.QuickFilter{
	pipeline.QuickAll,
	pipeline.QuickToday,
	pipeline.QuickTomorrow,
	pipeline.QuickThisWeek,
	pipeline.QuickOverdue,
	pipeline.QuickHighValue,
}

type FacetService struct {
	snapshots SnapshotLoader
	lang      language.Tag
}

func NewFacetService(snapshots SnapshotLoader, lang language.Tag) *FacetService {
	if lang == language.Und {
		lang = language.English
	}
	return &FacetService{snapshots: snapshots, lang: lang}
}

func (s *FacetService) Facets(ctx context.Context, ownerID string) (*Facets, error) {
	bookings, err := s.snapshots.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sets := map[string]map[string]struct{}{}
	add := func(facet, v string) {
		if v == "" {
			return
		}
		if sets[facet] == nil {
			sets[facet] = map[string]struct{}{}
		}
		sets[facet][v] = struct{}{}
	}
	for _, b := range bookings {
		add("resource", b.Resource)
		add("status", string(b.Status))
		add("priority", b.Priority)
		add("tier", b.Customer.Tier)
		add("risk", b.RiskLevel)
		add("source", b.BookingSource)
	}

	return &Facets{
		Resources:      s.sorted(sets["resource"]),
		Statuses:       s.sorted(sets["status"]),
		Priorities:     s.sorted(sets["priority"]),
		CustomerTiers:  s.sorted(sets["tier"]),
		RiskLevels:     s.sorted(sets["risk"]),
		BookingSources: s.sorted(sets["source"]),
		QuickFilters:   quickFilters,
		SortColumns:    pipeline.Columns(),
	}, nil
}

// sorted orders values the way the list sorts string columns.
func (s *FacetService) sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	collate.New(s.lang).SortStrings(out)
	return out
}

var _ FacetUseCase = (*FacetService)(nil)
