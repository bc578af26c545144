package aggregate

import (
	"sort"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/fee"
)

// Offering is one row of the merged table prepared for display.
type Offering struct {
	entity.ProgramRecord
	Fee        float64 `json:"fee"`
	HasFee     bool    `json:"has_fee"`
	DisplayFee string  `json:"display_fee"`
}

// FilterByInstitutionAndCampus returns every offering whose institution and
// campus equal the given values exactly, absent matching absent. No match is
// an empty slice. Rows are ordered by program name, then URL.
func FilterByInstitutionAndCampus(ds entity.Dataset, institution, campus entity.Text) []Offering {
	out := []Offering{}
	match := func(r entity.ProgramRecord) bool {
		return r.InstitutionName == institution && r.Campus == campus
	}
	for _, r := range ds.WithFee {
		if match(r.ProgramRecord) {
			out = append(out, Offering{
				ProgramRecord: r.ProgramRecord,
				Fee:           r.Fee,
				HasFee:        true,
				DisplayFee:    fee.Format(r.Fee),
			})
		}
	}
	for _, r := range ds.NoFee {
		if match(r.ProgramRecord) {
			out = append(out, Offering{
				ProgramRecord: r.ProgramRecord,
				DisplayFee:    r.TuitionFeeRaw.Display(entity.FieldTuitionFee),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProgramName != out[j].ProgramName {
			return out[i].ProgramName.Less(out[j].ProgramName)
		}
		return out[i].SourceURL < out[j].SourceURL
	})
	return out
}

// FeeRange is the spread of numeric fees in a set of offerings.
type FeeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	OK  bool    `json:"ok"`
}

// RangeOf ignores offerings without a numeric fee; OK is false when none have one.
func RangeOf(offerings []Offering) FeeRange {
	var r FeeRange
	for _, o := range offerings {
		if !o.HasFee {
			continue
		}
		if !r.OK {
			r = FeeRange{Min: o.Fee, Max: o.Fee, OK: true}
			continue
		}
		if o.Fee < r.Min {
			r.Min = o.Fee
		}
		if o.Fee > r.Max {
			r.Max = o.Fee
		}
	}
	return r
}

// Institutions lists the distinct institutions of the merged table, absent last.
func Institutions(ds entity.Dataset) []entity.Text {
	return distinct(ds.Records(), func(r entity.ProgramRecord) (entity.Text, bool) {
		return r.InstitutionName, true
	})
}

// Campuses lists the distinct campuses of one institution, absent last.
func Campuses(ds entity.Dataset, institution entity.Text) []entity.Text {
	return distinct(ds.Records(), func(r entity.ProgramRecord) (entity.Text, bool) {
		return r.Campus, r.InstitutionName == institution
	})
}

func distinct(records []entity.ProgramRecord, key func(entity.ProgramRecord) (entity.Text, bool)) []entity.Text {
	seen := make(map[entity.Text]struct{})
	out := []entity.Text{}
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
