// Package coerce turns locale-formatted numeric text ("1,234,500", "84.97㎡") into numbers.
//
// Coercion is lossy on purpose: anything that cannot be read becomes 0 instead of an
// error, and sign characters are stripped along with every other non-digit. Callers that
// need to tell a real zero from garbage must validate the raw value themselves.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Int keeps only the digits of v and parses them. Numeric values pass through,
// floats truncated toward zero.
func Int(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint32:
		return int64(n)
	case uint64:
		if n > math.MaxInt64 {
			return 0
		}
		return int64(n)
	case float32:
		return truncate(float64(n))
	case float64:
		return truncate(n)
	case string:
		return parseInt(n)
	case []byte:
		return parseInt(string(n))
	case fmt.Stringer:
		return parseInt(n.String())
	}
	return 0
}

// Float keeps digits and decimal points of v and parses the result.
func Float(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return finite(float64(n))
	case float64:
		return finite(n)
	case string:
		return parseFloat(n)
	case []byte:
		return parseFloat(string(n))
	case fmt.Stringer:
		return parseFloat(n.String())
	}
	return 0
}

func parseInt(s string) int64 {
	digits := keep(s, false)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// overflow
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	digits := keep(s, true)
	if digits == "" {
		return 0
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func keep(s string, allowPoint bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || (allowPoint && c == '.') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func truncate(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
