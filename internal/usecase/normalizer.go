package usecase

import (
	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/fee"
)

// Dedupe keeps one record per source URL. The last occurrence wins but
// takes the position of the first, so re-running a URL updates it in place.
func Dedupe(records []entity.ProgramRecord) ([]entity.ProgramRecord, int) {
	index := make(map[string]int, len(records))
	out := make([]entity.ProgramRecord, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.SourceURL]; ok {
			out[i] = r
			continue
		}
		index[r.SourceURL] = len(out)
		out = append(out, r)
	}
	return out, len(records) - len(out)
}

// Partition splits records by whether the raw fee text parses as an amount.
// Input order is kept within each partition and every record lands in
// exactly one of them.
func Partition(records []entity.ProgramRecord) entity.Dataset {
	ds := entity.Dataset{
		WithFee: []entity.FeeRecord{},
		NoFee:   []entity.NoFeeRecord{},
	}
	for _, r := range records {
		raw, ok := r.TuitionFeeRaw.Get()
		if ok {
			if v, parsed := fee.Parse(raw); parsed {
				ds.WithFee = append(ds.WithFee, entity.FeeRecord{ProgramRecord: r, Fee: v})
				continue
			}
		}
		ds.NoFee = append(ds.NoFee, entity.NoFeeRecord{ProgramRecord: r, IsLink: ok && fee.IsLink(raw)})
	}
	return ds
}
