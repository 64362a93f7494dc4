package coerce

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int64
	}{
		{name: "Nil", input: nil, expected: 0},
		{name: "Empty string", input: "", expected: 0},
		{name: "Comma separated amount", input: "1,234,500", expected: 1234500},
		{name: "Padded amount", input: "    85,000", expected: 85000},
		{name: "Unit suffix", input: "12층", expected: 12},
		{name: "Garbage", input: "n/a", expected: 0},
		{name: "Negative text loses sign", input: "-1", expected: 1},
		{name: "Decimal text keeps all digits", input: "84.97", expected: 8497},
		{name: "Int passthrough", input: 42, expected: 42},
		{name: "Negative int passthrough", input: int64(-3), expected: -3},
		{name: "Float truncates", input: 84.97, expected: 84},
		{name: "NaN", input: math.NaN(), expected: 0},
		{name: "Overflow", input: "99999999999999999999999", expected: 0},
		{name: "Bytes", input: []byte("3,000"), expected: 3000},
		{name: "Unsupported type", input: struct{}{}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Int(tt.input))
		})
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{name: "Nil", input: nil, expected: 0},
		{name: "Whitespace only", input: "   ", expected: 0},
		{name: "Plain area", input: "84.97", expected: 84.97},
		{name: "Area with unit", input: "59.9㎡", expected: 59.9},
		{name: "Thousands separator", input: "1,024.5", expected: 1024.5},
		{name: "Two decimal points", input: "1.2.3", expected: 0},
		{name: "Lone point", input: ".", expected: 0},
		{name: "Leading point", input: ".5", expected: 0.5},
		{name: "Int passthrough", input: 7, expected: 7},
		{name: "Inf", input: math.Inf(1), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Float(tt.input), 1e-9)
		})
	}
}

func TestCoercionIsIdempotent(t *testing.T) {
	inputs := []any{nil, "", "1,234,500", "-7", "84.97", "abc", 12, -5, 3.75, "1.2.3", math.NaN()}

	for _, in := range inputs {
		once := Int(in)
		assert.Equal(t, once, Int(once), "Int(%v)", in)

		f := Float(in)
		assert.Equal(t, f, Float(f), "Float(%v)", in)
	}
}
