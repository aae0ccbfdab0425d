package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an optional number coming from loosely typed upstream JSON.
// Numbers and numeric strings decode to a value; null, missing, NaN, ±Inf and
// anything non-numeric decode to an absent Amount without an error.
type Amount struct {
	value float64
	valid bool
}

func NewAmount(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Amount{}
	}
	return Amount{value: v, valid: true}
}

// AmountFromPtr is a convenience for nullable database columns.
func AmountFromPtr(v *float64) Amount {
	if v == nil {
		return Amount{}
	}
	return NewAmount(*v)
}

func (a Amount) Get() (float64, bool) {
	return a.value, a.valid
}

func (a Amount) Valid() bool {
	return a.valid
}

// Or returns the value, or def when absent.
func (a Amount) Or(def float64) float64 {
	if !a.valid {
		return def
	}
	return a.value
}

func (a Amount) Decimal() (decimal.Decimal, bool) {
	if !a.valid {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(a.value), true
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	*a = NewAmount(v)
	return nil
}

// Flag decodes any JSON value by truthiness: true, non-zero numbers and
// non-empty strings are set; false, 0, "", null and missing are not.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*f = false
		return nil
	}
	switch x := v.(type) {
	case bool:
		*f = Flag(x)
	case float64:
		*f = Flag(x != 0 && !math.IsNaN(x))
	case string:
		*f = Flag(x != "")
	case nil:
		*f = false
	default:
		*f = true
	}
	return nil
}
