package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name        string
		start       string
		end         string
		expected    []string
		expectError bool
	}{
		{name: "Single month", start: "202401", end: "202401", expected: []string{"202401"}},
		{name: "Crosses a year", start: "202311", end: "202402", expected: []string{"202311", "202312", "202401", "202402"}},
		{name: "Reversed", start: "202405", end: "202401", expectError: true},
		{name: "Malformed", start: "2024-1", end: "202401", expectError: true},
		{name: "Span at the limit", start: "201501", end: "202412"},
		{name: "Span over the limit", start: "201412", end: "202412", expectError: true},
		{name: "Absurd span", start: "000101", end: "999912", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months, err := MonthRange(tt.start, tt.end)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidQuery))
				return
			}
			require.NoError(t, err)
			if tt.expected != nil {
				assert.Equal(t, tt.expected, months)
			}
			assert.LessOrEqual(t, len(months), MaxMonths)
		})
	}
}

func TestQueryParametersValidate(t *testing.T) {
	q := QueryParameters{
		ServiceKey:  "key",
		RegionInput: "송파구",
		DealType:    DealTypeSale,
		StartMonth:  "202401",
		EndMonth:    "202403",
	}
	require.NoError(t, q.Validate())

	long := q
	long.StartMonth = "199001"
	assert.ErrorIs(t, long.Validate(), ErrInvalidQuery)

	noKey := q
	noKey.ServiceKey = " "
	assert.ErrorIs(t, noKey.Validate(), ErrInvalidQuery)
}
