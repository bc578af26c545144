package aggregate

import (
	"sort"

	"github.com/user/tcas-fee-crawler/internal/entity"
)

// RankedOffering compares an offering's fee with the other offerings that
// share its program name. Deviation is PeerMean - Fee, so cheaper than
// average is positive.
type RankedOffering struct {
	Rank        int         `json:"rank"`
	Program     entity.Text `json:"program"`
	Institution entity.Text `json:"institution"`
	Campus      entity.Text `json:"campus"`
	SourceURL   string      `json:"source_url"`
	Fee         float64     `json:"fee"`
	PeerMean    float64     `json:"peer_mean"`
	Peers       int         `json:"peers"`
	Deviation   float64     `json:"deviation"`
}

// ValueRanking ranks fee-bearing offerings by deviation, descending. Ties
// fall back to program, institution, campus and URL.
func ValueRanking(ds entity.Dataset) []RankedOffering {
	groups := make(map[entity.Text][]float64)
	for _, r := range ds.WithFee {
		groups[r.ProgramName] = append(groups[r.ProgramName], r.Fee)
	}
	means := make(map[entity.Text]float64, len(groups))
	for name, fees := range groups {
		means[name] = mean(fees)
	}

	out := make([]RankedOffering, 0, len(ds.WithFee))
	for _, r := range ds.WithFee {
		m := means[r.ProgramName]
		out = append(out, RankedOffering{
			Program:     r.ProgramName,
			Institution: r.InstitutionName,
			Campus:      r.Campus,
			SourceURL:   r.SourceURL,
			Fee:         r.Fee,
			PeerMean:    m,
			Peers:       len(groups[r.ProgramName]),
			Deviation:   m - r.Fee,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Deviation != b.Deviation:
			return a.Deviation > b.Deviation
		case a.Program != b.Program:
			return a.Program.Less(b.Program)
		case a.Institution != b.Institution:
			return a.Institution.Less(b.Institution)
		case a.Campus != b.Campus:
			return a.Campus.Less(b.Campus)
		default:
			return a.SourceURL < b.SourceURL
		}
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
