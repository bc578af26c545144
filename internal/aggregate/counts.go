package aggregate

import (
	"sort"

	"github.com/user/tcas-fee-crawler/internal/entity"
)

// Count is one row of a frequency table.
type Count struct {
	Label entity.Text `json:"label"`
	Count int         `json:"count"`
}

// CountsByKeyword counts the merged table by search keyword.
func CountsByKeyword(ds entity.Dataset) []Count {
	return countBy(ds, func(r entity.ProgramRecord) entity.Text { return entity.Some(r.SearchKeyword) })
}

// CountsByInstitution counts the merged table by institution. Records
// without an institution form their own group.
func CountsByInstitution(ds entity.Dataset) []Count {
	return countBy(ds, func(r entity.ProgramRecord) entity.Text { return r.InstitutionName })
}

// TopInstitutions is the first n rows of CountsByInstitution.
func TopInstitutions(ds entity.Dataset, n int) []Count {
	counts := CountsByInstitution(ds)
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// countBy sorts by count descending, then label ascending with absent labels last.
func countBy(ds entity.Dataset, key func(entity.ProgramRecord) entity.Text) []Count {
	freq := make(map[entity.Text]int)
	for _, r := range ds.Records() {
		freq[key(r)]++
	}
	out := make([]Count, 0, len(freq))
	for label, n := range freq {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label.Less(out[j].Label)
	})
	return out
}

// MissingFeeInstitutionCount is the number of distinct named institutions
// that have at least one offering without a numeric fee.
func MissingFeeInstitutionCount(ds entity.Dataset) int {
	seen := make(map[string]struct{})
	for _, r := range ds.NoFee {
		if name, ok := r.InstitutionName.Get(); ok {
			seen[name] = struct{}{}
		}
	}
	return len(seen)
}
