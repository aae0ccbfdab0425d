package api

import (
	"fmt"
	"time"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
	"github.com/softdevglobal/bms-pro-sub000/internal/pipeline"
	"github.com/softdevglobal/bms-pro-sub000/internal/service/bookings"
)

const dateLayout = "2006-01-02"

// listParams is the query string form of a list request.
type listParams struct {
	Quick     string   `form:"quick" binding:"omitempty,oneof=all today tomorrow thisWeek overdue highValue"`
	Search    string   `form:"search" binding:"max=200"`
	Status    []string `form:"status"`
	Resource  []string `form:"resource"`
	Priority  []string `form:"priority"`
	Tier      []string `form:"tier"`
	Risk      []string `form:"risk"`
	Source    []string `form:"source"`
	From      string   `form:"from"`
	To        string   `form:"to"`
	Sort      string   `form:"sort"`
	Direction string   `form:"dir" binding:"omitempty,oneof=asc desc"`
	Page      int      `form:"page" binding:"omitempty,min=1"`
	PageSize  int      `form:"page_size" binding:"omitempty,min=1,max=500"`
}

func (p listParams) toQuery(loc *time.Location) (bookings.ListQuery, error) {
	from, err := parseDay(p.From, loc)
	if err != nil {
		return bookings.ListQuery{}, fmt.Errorf("%w: from: %v", domain.ErrValidation, err)
	}
	to, err := parseDay(p.To, loc)
	if err != nil {
		return bookings.ListQuery{}, fmt.Errorf("%w: to: %v", domain.ErrValidation, err)
	}

	return bookings.ListQuery{
		Filters: pipeline.FilterCriteria{
			Resources:      p.Resource,
			Statuses:       p.Status,
			Priority:       p.Priority,
			CustomerTier:   p.Tier,
			RiskLevel:      p.Risk,
			BookingSources: p.Source,
			DateFrom:       from,
			DateTo:         to,
			QuickFilter:    pipeline.QuickFilter(p.Quick),
		},
		Search:   p.Search,
		Sort:     pipeline.SortSpec{Column: p.Sort, Direction: pipeline.Direction(p.Direction)},
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

// listBody is the JSON form, used by the search sessions and by clients
// whose filter state does not fit a query string.
type listBody struct {
	Filters  pipeline.FilterCriteria `json:"filters"`
	Search   string                  `json:"search" binding:"max=200"`
	Sort     pipeline.SortSpec       `json:"sort"`
	Page     int                     `json:"page" binding:"omitempty,min=1"`
	PageSize int                     `json:"pageSize" binding:"omitempty,min=1,max=500"`
}

func (b listBody) toQuery() (bookings.ListQuery, error) {
	switch b.Filters.QuickFilter {
	case "", pipeline.QuickAll, pipeline.QuickToday, pipeline.QuickTomorrow,
		pipeline.QuickThisWeek, pipeline.QuickOverdue, pipeline.QuickHighValue:
	default:
		return bookings.ListQuery{}, fmt.Errorf("%w: unknown quick filter %q", domain.ErrValidation, b.Filters.QuickFilter)
	}
	switch b.Sort.Direction {
	case "", pipeline.Asc, pipeline.Desc:
	default:
		return bookings.ListQuery{}, fmt.Errorf("%w: unknown sort direction %q", domain.ErrValidation, b.Sort.Direction)
	}
	return bookings.ListQuery{
		Filters:  b.Filters,
		Search:   b.Search,
		Sort:     b.Sort,
		Page:     b.Page,
		PageSize: b.PageSize,
	}, nil
}

func parseDay(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
