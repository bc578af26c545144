package aggregate

import (
	"math"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/fee"
)

// BandCount is one histogram bar. High is nil for the open-ended top band.
type BandCount struct {
	Label string   `json:"label"`
	Low   float64  `json:"low"`
	High  *float64 `json:"high"`
	Count int      `json:"count"`
}

// HistogramByFeeBand counts fee-bearing records per band. Every band is
// returned, including empty ones, in band order. A record lands in the first
// band whose upper bound strictly exceeds its fee.
func HistogramByFeeBand(ds entity.Dataset, bands []fee.Band) []BandCount {
	out := make([]BandCount, len(bands))
	for i, b := range bands {
		out[i] = BandCount{Label: b.Label, Low: b.Low}
		if !math.IsInf(b.High, 1) {
			high := b.High
			out[i].High = &high
		}
	}
	for _, r := range ds.WithFee {
		if i := fee.BandIndex(bands, r.Fee); i >= 0 {
			out[i].Count++
		}
	}
	return out
}
