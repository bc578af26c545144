package entity

import "time"

// Stage identifies the unit of work that failed.
type Stage string

const (
	StageSearch Stage = "search"
	StagePage   Stage = "page"
)

// ScrapeFailure carries enough context to re-run only the failed unit.
type ScrapeFailure struct {
	Stage     Stage
	Keyword   string
	URL       string // empty for search failures
	ErrorType string
	Reason    string
	At        time.Time
}

// RunSummary describes one scrape run.
type RunSummary struct {
	Keywords   []string
	LinksFound int
	Extracted  int
	Duplicates int
	WithFee    int
	NoFee      int
	Failures   []ScrapeFailure
	StartedAt  time.Time
	Duration   time.Duration
}
