package aggregate

import (
	"sort"

	"github.com/user/tcas-fee-crawler/internal/entity"
)

const noFeeNotice = "No fee data found"

// MissingRow is one offering in the no-fee browser. Link is set when the raw
// fee text is itself a URL; otherwise Detail carries a notice.
type MissingRow struct {
	Institution entity.Text `json:"institution"`
	Campus      entity.Text `json:"campus"`
	Program     entity.Text `json:"program"`
	RawFee      entity.Text `json:"raw_fee"`
	SourceURL   string      `json:"source_url"`
	Link        string      `json:"link,omitempty"`
	Detail      string      `json:"detail"`
}

// MissingFee lists the no-fee partition, restricted to one institution
// unless all is true.
func MissingFee(ds entity.Dataset, institution entity.Text, all bool) []MissingRow {
	out := []MissingRow{}
	for _, r := range ds.NoFee {
		if !all && r.InstitutionName != institution {
			continue
		}
		row := MissingRow{
			Institution: r.InstitutionName,
			Campus:      r.Campus,
			Program:     r.ProgramName,
			RawFee:      r.TuitionFeeRaw,
			SourceURL:   r.SourceURL,
			Detail:      noFeeNotice,
		}
		if r.IsLink {
			row.Link = r.TuitionFeeRaw.Value()
			row.Detail = row.Link
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Institution != b.Institution:
			return a.Institution.Less(b.Institution)
		case a.Campus != b.Campus:
			return a.Campus.Less(b.Campus)
		case a.Program != b.Program:
			return a.Program.Less(b.Program)
		default:
			return a.SourceURL < b.SourceURL
		}
	})
	return out
}

// MissingFeeInstitutions lists the institutions that appear in the no-fee partition.
func MissingFeeInstitutions(ds entity.Dataset) []entity.Text {
	records := make([]entity.ProgramRecord, len(ds.NoFee))
	for i, r := range ds.NoFee {
		records[i] = r.ProgramRecord
	}
	return distinct(records, func(r entity.ProgramRecord) (entity.Text, bool) {
		return r.InstitutionName, true
	})
}
