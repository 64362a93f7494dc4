// Package filter applies the per-column predicates a caller can attach to a search.
package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"aptdeals/server/internal/models"
)

// Field names accepted by predicates
const (
	FieldPrice       = "price"
	FieldMonthlyRent = "monthly_rent"
	FieldFloorArea   = "floor_area"
	FieldFloorNumber = "floor_number"
	FieldBuildYear   = "build_year"
	FieldDealYear    = "deal_year"
	FieldComplexName = "complex_name"
	FieldLegalDong   = "legal_dong"
	FieldAreaBand    = "area_band"
)

var numericFields = map[string]func(models.TransactionRecord) float64{
	FieldPrice:       func(r models.TransactionRecord) float64 { return float64(r.PriceOrDeposit) },
	FieldMonthlyRent: func(r models.TransactionRecord) float64 { return float64(r.MonthlyRent) },
	FieldFloorArea:   func(r models.TransactionRecord) float64 { return r.FloorArea },
	FieldFloorNumber: func(r models.TransactionRecord) float64 { return float64(r.FloorNumber) },
	FieldBuildYear:   func(r models.TransactionRecord) float64 { return float64(r.BuildYear) },
	FieldDealYear:    func(r models.TransactionRecord) float64 { return float64(r.DealYear) },
}

var categoricalFields = map[string]func(models.TransactionRecord) string{
	FieldComplexName: func(r models.TransactionRecord) string { return r.ComplexName },
	FieldLegalDong:   func(r models.TransactionRecord) string { return r.LegalDong },
	FieldAreaBand:    func(r models.TransactionRecord) string { return r.AreaBand },
}

// Range builds an inclusive numeric predicate; nil bounds are open.
func Range(field string, min, max *float64) models.Predicate {
	return models.Predicate{Kind: models.PredicateRange, Field: field, Min: min, Max: max}
}

// OneOf builds a categorical membership predicate.
func OneOf(field string, values ...string) models.Predicate {
	return models.Predicate{Kind: models.PredicateOneOf, Field: field, Values: values}
}

// Match reports whether a record passes a single predicate. Predicates on unknown
// fields or of an unknown kind pass everything.
func Match(r models.TransactionRecord, p models.Predicate) bool {
	switch p.Kind {
	case models.PredicateRange:
		get, ok := numericFields[p.Field]
		if !ok {
			return true
		}
		v := get(r)
		if p.Min != nil && v < *p.Min {
			return false
		}
		if p.Max != nil && v > *p.Max {
			return false
		}
		return true
	case models.PredicateOneOf:
		get, ok := categoricalFields[p.Field]
		if !ok || len(p.Values) == 0 {
			return true
		}
		v := get(r)
		for _, want := range p.Values {
			if v == want {
				return true
			}
		}
		return false
	}
	return true
}

// Apply keeps records passing every predicate, preserving order.
func Apply(records []models.TransactionRecord, preds []models.Predicate) []models.TransactionRecord {
	if len(preds) == 0 {
		return records
	}
	out := make([]models.TransactionRecord, 0, len(records))
	for _, r := range records {
		keep := true
		for _, p := range preds {
			if !Match(r, p) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// ParseQuery reads min_<field>, max_<field> and in_<field> (comma separated) query
// parameters. Malformed numbers are ignored rather than rejected.
func ParseQuery(values url.Values) []models.Predicate {
	var preds []models.Predicate
	for _, field := range sortedKeys(numericFields) {
		min := parseBound(values.Get("min_" + field))
		max := parseBound(values.Get("max_" + field))
		if min != nil || max != nil {
			preds = append(preds, Range(field, min, max))
		}
	}
	for _, field := range sortedKeys(categoricalFields) {
		raw := values.Get("in_" + field)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		var set []string
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				set = append(set, v)
			}
		}
		if len(set) > 0 {
			preds = append(preds, OneOf(field, set...))
		}
	}
	return preds
}

func parseBound(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
