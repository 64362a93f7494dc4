// Package areaband maps an exclusive floor area in square meters to the nominal
// "pyeong" size class Korean listings use, e.g. 84.5㎡ is sold as a 34-pyeong unit.
package areaband

import "math"

type anchor struct {
	area    float64 // exclusive area in m²
	nominal float64 // nominal size in pyeong
}

// anchors must stay strictly increasing in both coordinates.
var anchors = []anchor{
	{33.0, 14},
	{39.6, 16},
	{49.5, 20},
	{59.5, 25},
	{74.5, 30},
	{84.5, 34},
	{101.5, 40},
	{114.5, 45},
	{134.5, 52},
	{164.5, 62},
}

// AreaBand is a nominal size class. Center is the representative value used for
// grouping; Nominal is the interpolated size the band was chosen from.
type AreaBand struct {
	Label   string  `json:"label"`
	Center  float64 `json:"center"`
	Nominal float64 `json:"nominal"`
}

type band struct {
	label  string
	center float64
}

// bands are in canonical order; ties resolve to the earlier entry.
var bands = []band{
	{"15 pyeong and under", 14},
	{"18–22 pyeong", 20},
	{"24–26 pyeong", 25},
	{"28–30 pyeong", 29},
	{"32–35 pyeong", 33.5},
	{"38–42 pyeong", 40},
	{"43–47 pyeong", 45},
	{"48–55 pyeong", 51.5},
	{"56 pyeong and over", 60},
}

// Nominal returns the interpolated nominal size for an area. Inputs outside the anchor
// range are extrapolated from the two nearest anchors.
func Nominal(areaM2 float64) float64 {
	i := 1
	for i < len(anchors)-1 && areaM2 > anchors[i].area {
		i++
	}
	lo, hi := anchors[i-1], anchors[i]
	slope := (hi.nominal - lo.nominal) / (hi.area - lo.area)
	return lo.nominal + (areaM2-lo.area)*slope
}

// Estimate returns the band for an area. The second result is false when the area is
// missing, which after numeric coercion shows up as NaN or a non-positive value.
func Estimate(areaM2 float64) (AreaBand, bool) {
	if math.IsNaN(areaM2) || math.IsInf(areaM2, 0) || areaM2 <= 0 {
		return AreaBand{}, false
	}

	nominal := Nominal(areaM2)
	best := nearestBand(nominal)
	return AreaBand{
		Label:   bands[best].label,
		Center:  bands[best].center,
		Nominal: nominal,
	}, true
}

func nearestBand(nominal float64) int {
	best := 0
	for i := 1; i < len(bands); i++ {
		if math.Abs(nominal-bands[i].center) < math.Abs(nominal-bands[best].center) {
			best = i
		}
	}
	return best
}

// Label is a shorthand for Estimate that returns "" for missing input.
func Label(areaM2 float64) string {
	b, ok := Estimate(areaM2)
	if !ok {
		return ""
	}
	return b.Label
}

// Labels lists every band label in canonical order.
func Labels() []string {
	labels := make([]string, len(bands))
	for i, b := range bands {
		labels[i] = b.label
	}
	return labels
}
