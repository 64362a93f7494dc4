package models

import (
	"fmt"
	"strings"
	"time"
)

const monthLayout = "200601"

// MaxMonths caps a query range; each month is at least one sequential API call.
const MaxMonths = 120

type PredicateKind string

const (
	PredicateRange PredicateKind = "range"
	PredicateOneOf PredicateKind = "one_of"
)

// Predicate is a post-normalization column filter. Range bounds are inclusive and
// either may be left open.
type Predicate struct {
	Kind   PredicateKind `json:"kind"`
	Field  string        `json:"field"`
	Min    *float64      `json:"min,omitempty"`
	Max    *float64      `json:"max,omitempty"`
	Values []string      `json:"values,omitempty"`
}

// QueryParameters is everything a caller supplies for one search
type QueryParameters struct {
	ServiceKey  string      `json:"-"`
	RegionInput string      `json:"region_input"`
	DealType    DealType    `json:"deal_type"`
	StartMonth  string      `json:"start_month"`
	EndMonth    string      `json:"end_month"`
	Keyword     string      `json:"keyword,omitempty"`
	Filters     []Predicate `json:"filters,omitempty"`
}

func (q QueryParameters) Validate() error {
	if strings.TrimSpace(q.ServiceKey) == "" {
		return fmt.Errorf("%w: service key is required", ErrInvalidQuery)
	}
	if strings.TrimSpace(q.RegionInput) == "" {
		return fmt.Errorf("%w: region is required", ErrInvalidQuery)
	}
	if q.DealType != DealTypeSale && q.DealType != DealTypeJeonseWolse {
		return fmt.Errorf("%w: unknown deal type %q", ErrInvalidQuery, q.DealType)
	}
	if _, err := MonthRange(q.StartMonth, q.EndMonth); err != nil {
		return err
	}
	return nil
}

// Months lists every YYYYMM month of the query range.
func (q QueryParameters) Months() ([]string, error) {
	return MonthRange(q.StartMonth, q.EndMonth)
}

// ParseMonth parses a YYYYMM string.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q must be YYYYMM", ErrInvalidQuery, s)
	}
	return t, nil
}

// MonthRange returns all months from start to end inclusive, formatted as YYYYMM.
func MonthRange(start, end string) ([]string, error) {
	from, err := ParseMonth(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseMonth(end)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: start month %s is after end month %s", ErrInvalidQuery, start, end)
	}
	span := (to.Year()-from.Year())*12 + int(to.Month()-from.Month()) + 1
	if span > MaxMonths {
		return nil, fmt.Errorf("%w: range of %d months exceeds the limit of %d", ErrInvalidQuery, span, MaxMonths)
	}

	var months []string
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 1, 0) {
		months = append(months, cur.Format(monthLayout))
	}
	return months, nil
}
