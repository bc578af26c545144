package repository

import (
	"context"

	"github.com/user/tcas-fee-crawler/internal/entity"
)

// Searcher submits a keyword to the site's search box and collects detail page links.
type Searcher interface {
	// Search returns absolute detail URLs in page order. No matches is an empty slice, not an error.
	Search(ctx context.Context, keyword string) ([]string, error)
}

// PageSource loads a detail page and exposes its fields.
type PageSource interface {
	Open(ctx context.Context, url string) (PageFieldReader, error)
}

// PageFieldReader reads the structural hooks of one detail page. Each method
// returns an absent Text when the hook is missing.
type PageFieldReader interface {
	InstitutionName() entity.Text
	ProgramName() entity.Text
	Campus() entity.Text
	TuitionFee() entity.Text
}
