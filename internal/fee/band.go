package fee

import "math"

// Band is a half-open fee range [Low, High).
type Band struct {
	Label string
	Low   float64
	High  float64
}

// Contains applies the inclusive-low, exclusive-high rule.
func (b Band) Contains(v float64) bool {
	return v >= b.Low && v < b.High
}

// DefaultBands uses the edges 0, 10k, 12k, 15k, 20k, 30k and +Inf.
var DefaultBands = []Band{
	{Label: "<10k", Low: 0, High: 10000},
	{Label: "10k-12k", Low: 10000, High: 12000},
	{Label: "12k-15k", Low: 12000, High: 15000},
	{Label: "15k-20k", Low: 15000, High: 20000},
	{Label: "20k-30k", Low: 20000, High: 30000},
	{Label: "30k+", Low: 30000, High: math.Inf(1)},
}

// BandIndex returns the first band whose upper bound strictly exceeds v,
// or -1 when v is below the first band.
func BandIndex(bands []Band, v float64) int {
	for i, b := range bands {
		if b.Contains(v) {
			return i
		}
	}
	return -1
}
