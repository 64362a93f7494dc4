package areaband

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominalAtAnchors(t *testing.T) {
	for _, a := range anchors {
		assert.InDelta(t, a.nominal, Nominal(a.area), 1e-9, "anchor %.1f", a.area)
	}
}

func TestNominalBetweenAnchors(t *testing.T) {
	tests := []struct {
		name     string
		area     float64
		expected float64
	}{
		{name: "Midpoint 59.5-74.5", area: 67.0, expected: 27.5},
		{name: "Midpoint 74.5-84.5", area: 79.5, expected: 32},
		{name: "Quarter 84.5-101.5", area: 88.75, expected: 35.5},
		{name: "Below first anchor", area: 26.4, expected: 12},
		{name: "Above last anchor", area: 194.5, expected: 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Nominal(tt.area), 1e-9)
		})
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name     string
		area     float64
		expected string
	}{
		{name: "Small studio", area: 29.0, expected: "15 pyeong and under"},
		{name: "Compact 49", area: 49.5, expected: "18–22 pyeong"},
		{name: "Standard 59", area: 59.5, expected: "24–26 pyeong"},
		{name: "Standard 74", area: 74.5, expected: "28–30 pyeong"},
		{name: "National size 84", area: 84.5, expected: "32–35 pyeong"},
		{name: "National size 84.97", area: 84.97, expected: "32–35 pyeong"},
		{name: "Large 101", area: 101.5, expected: "38–42 pyeong"},
		{name: "Large 114", area: 114.5, expected: "43–47 pyeong"},
		{name: "Large 134", area: 134.5, expected: "48–55 pyeong"},
		{name: "Penthouse", area: 200.0, expected: "56 pyeong and over"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band, ok := Estimate(tt.area)
			require.True(t, ok)
			assert.Equal(t, tt.expected, band.Label)
		})
	}
}

func TestEstimateMissingInput(t *testing.T) {
	for _, area := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		_, ok := Estimate(area)
		assert.False(t, ok, "area %v", area)
		assert.Equal(t, "", Label(area))
	}
}

func TestEstimateIsMonotonic(t *testing.T) {
	prevCenter := math.Inf(-1)
	prevNominal := math.Inf(-1)
	for area := 10.0; area <= 250.0; area += 0.25 {
		band, ok := Estimate(area)
		require.True(t, ok)
		assert.GreaterOrEqual(t, band.Center, prevCenter, "center inversion at %.2f", area)
		assert.Greater(t, band.Nominal, prevNominal, "nominal inversion at %.2f", area)
		prevCenter = band.Center
		prevNominal = band.Nominal
	}
}

func TestTiesPickFirstBand(t *testing.T) {
	assert.Equal(t, 0, nearestBand(17))   // 14 and 20
	assert.Equal(t, 1, nearestBand(22.5)) // 20 and 25
	assert.Equal(t, 7, nearestBand(55.75))
}

func TestLabels(t *testing.T) {
	labels := Labels()
	assert.Len(t, labels, len(bands))
	assert.Equal(t, "15 pyeong and under", labels[0])
	assert.Contains(t, labels, "32–35 pyeong")
}
