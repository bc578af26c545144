package usecase

import (
	"github.com/user/tcas-fee-crawler/internal/aggregate"
)

// Option is one entry of a select box. Value round-trips through
// entity.ParseCell, so absent values use the field's sentinel.
type Option struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// OverviewView backs the landing page.
type OverviewView struct {
	Sources                    []string              `json:"sources"`
	Total                      int                   `json:"total"`
	WithFee                    int                   `json:"with_fee"`
	NoFee                      int                   `json:"no_fee"`
	Stats                      aggregate.Stats       `json:"stats"`
	ByKeyword                  []aggregate.Count     `json:"by_keyword"`
	TopInstitutions            []aggregate.Count     `json:"top_institutions"`
	Histogram                  []aggregate.BandCount `json:"histogram"`
	MissingFeeInstitutionCount int                   `json:"missing_fee_institution_count"`
}

// InstitutionView backs the institution and campus drill-down.
type InstitutionView struct {
	Institutions []Option             `json:"institutions"`
	Campuses     []Option             `json:"campuses"`
	Institution  string               `json:"institution"`
	Campus       string               `json:"campus"`
	Offerings    []aggregate.Offering `json:"offerings"`
	Range        aggregate.FeeRange   `json:"range"`
}

// RankingView backs the value ranking page.
type RankingView struct {
	Rows []aggregate.RankedOffering `json:"rows"`
}

// MissingView backs the no-fee browser.
type MissingView struct {
	Institutions []Option               `json:"institutions"`
	All          bool                   `json:"all"`
	Institution  string                 `json:"institution"`
	Rows         []aggregate.MissingRow `json:"rows"`
}

// HealthView reports whether the dataset loaded.
type HealthView struct {
	Status   string   `json:"status"`
	Sources  []string `json:"sources"`
	Records  int      `json:"records"`
	WithFee  int      `json:"with_fee"`
	NoFee    int      `json:"no_fee"`
	Sessions int      `json:"sessions"`
	Error    string   `json:"error,omitempty"`
}
