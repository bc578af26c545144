package entity

// FeeRecord is a record whose tuition text parsed as a numeric amount.
type FeeRecord struct {
	ProgramRecord
	Fee float64 `json:"fee"`
}

// NoFeeRecord is a record whose tuition text did not parse. IsLink marks
// text that is itself an absolute URL.
type NoFeeRecord struct {
	ProgramRecord
	IsLink bool `json:"is_link"`
}

// Dataset is the partitioned table the dashboard reads from.
type Dataset struct {
	WithFee []FeeRecord   `json:"with_fee"`
	NoFee   []NoFeeRecord `json:"no_fee"`
}

// Len is the size of the merged table.
func (d Dataset) Len() int {
	return len(d.WithFee) + len(d.NoFee)
}

// Records returns the merged table: fee-bearing records first, then the rest.
func (d Dataset) Records() []ProgramRecord {
	out := make([]ProgramRecord, 0, d.Len())
	for _, r := range d.WithFee {
		out = append(out, r.ProgramRecord)
	}
	for _, r := range d.NoFee {
		out = append(out, r.ProgramRecord)
	}
	return out
}

// Clone returns a copy that shares no backing arrays with d.
func (d Dataset) Clone() Dataset {
	c := Dataset{
		WithFee: make([]FeeRecord, len(d.WithFee)),
		NoFee:   make([]NoFeeRecord, len(d.NoFee)),
	}
	copy(c.WithFee, d.WithFee)
	copy(c.NoFee, d.NoFee)
	return c
}
