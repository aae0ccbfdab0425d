package pipeline

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"

	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindDate
)

type sortValue struct {
	str string
	num float64
	at  time.Time
}

// Column describes how a sortable column reads its value from a booking.
type Column struct {
	Name  string
	Kind  ValueKind
	value func(b *domain.Booking) sortValue
}

func stringColumn(name string, get func(b *domain.Booking) string) Column {
	return Column{Name: name, Kind: KindString, value: func(b *domain.Booking) sortValue {
		return sortValue{str: get(b)}
	}}
}

func numberColumn(name string, get func(b *domain.Booking) domain.Amount) Column {
	return Column{Name: name, Kind: KindNumber, value: func(b *domain.Booking) sortValue {
		return sortValue{num: get(b).Or(0)}
	}}
}

func dateColumn(name string, get func(b *domain.Booking) time.Time) Column {
	return Column{Name: name, Kind: KindDate, value: func(b *domain.Booking) sortValue {
		return sortValue{at: get(b)}
	}}
}

var columns = map[string]Column{}

func init() {
	for _, c := range []Column{
		stringColumn("booking", func(b *domain.Booking) string { return b.ID }),
		stringColumn("customer", func(b *domain.Booking) string { return b.Customer.Name }),
		stringColumn("resource", func(b *domain.Booking) string { return b.Resource }),
		dateColumn("start", func(b *domain.Booking) time.Time { return b.Start }),
		dateColumn("end", func(b *domain.Booking) time.Time { return b.End }),
		stringColumn("status", func(b *domain.Booking) string { return string(b.Status) }),
		numberColumn("balance", func(b *domain.Booking) domain.Amount { return b.Balance }),
		stringColumn("priority", func(b *domain.Booking) string { return b.Priority }),
		numberColumn("value", func(b *domain.Booking) domain.Amount { return b.TotalValue }),
	} {
		columns[c.Name] = c
	}
}

// Columns lists the sortable column names.
func Columns() []string {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// unknownColumn compares every booking as equal so ordering falls to the id.
var unknownColumn = stringColumn("", func(*domain.Booking) string { return "" })

func (p *Pipeline) comparator(spec SortSpec) func(a, b domain.Booking) int {
	col, ok := columns[spec.Column]
	if !ok {
		col = unknownColumn
	}
	coll := collate.New(p.opts.Language)

	primary := func(a, b sortValue) int {
		switch col.Kind {
		case KindNumber:
			return cmp.Compare(a.num, b.num)
		case KindDate:
			return a.at.Compare(b.at)
		default:
			return coll.CompareString(a.str, b.str)
		}
	}

	sign := 1
	if spec.Direction == Desc {
		sign = -1
	}

	return func(a, b domain.Booking) int {
		c := primary(col.value(&a), col.value(&b))
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		return sign * c
	}
}
