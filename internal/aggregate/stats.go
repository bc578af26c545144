package aggregate

import (
	"sort"

	"github.com/user/tcas-fee-crawler/internal/entity"
)

// Owner identifies the offering that holds an extreme fee.
type Owner struct {
	Institution entity.Text `json:"institution"`
	Program     entity.Text `json:"program"`
	Campus      entity.Text `json:"campus"`
	SourceURL   string      `json:"source_url"`
}

func ownerOf(r entity.ProgramRecord) Owner {
	return Owner{
		Institution: r.InstitutionName,
		Program:     r.ProgramName,
		Campus:      r.Campus,
		SourceURL:   r.SourceURL,
	}
}

func (o Owner) less(p Owner) bool {
	if o.Institution != p.Institution {
		return o.Institution.Less(p.Institution)
	}
	if o.Program != p.Program {
		return o.Program.Less(p.Program)
	}
	return o.SourceURL < p.SourceURL
}

type Extreme struct {
	Fee   float64 `json:"fee"`
	Owner Owner   `json:"owner"`
}

// Stats summarises the fee-bearing partition. Max and Min are meaningless when Count is zero.
type Stats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Max   Extreme `json:"max"`
	Min   Extreme `json:"min"`
}

// OverallStats returns mean, max-with-owner and min-with-owner of the numeric
// fees. Ties on an extreme go to the lexically smallest owner.
func OverallStats(ds entity.Dataset) Stats {
	if len(ds.WithFee) == 0 {
		return Stats{}
	}

	fees := make([]float64, len(ds.WithFee))
	st := Stats{Count: len(ds.WithFee)}
	for i, r := range ds.WithFee {
		fees[i] = r.Fee
		cand := Extreme{Fee: r.Fee, Owner: ownerOf(r.ProgramRecord)}
		if i == 0 {
			st.Max, st.Min = cand, cand
			continue
		}
		if r.Fee > st.Max.Fee || (r.Fee == st.Max.Fee && cand.Owner.less(st.Max.Owner)) {
			st.Max = cand
		}
		if r.Fee < st.Min.Fee || (r.Fee == st.Min.Fee && cand.Owner.less(st.Min.Owner)) {
			st.Min = cand
		}
	}
	st.Mean = mean(fees)
	return st
}

// mean sorts its argument in place.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
