package repository

import "errors"

var (
	// ErrCrawlTimeout means a page or search never reached its ready condition in time.
	ErrCrawlTimeout = errors.New("timed out waiting for page to become ready")
	// ErrNavigationFailed means the browser could not load the page at all.
	ErrNavigationFailed = errors.New("navigation failed")
	// ErrExtractionFailed means the page loaded but its HTML could not be read.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrInvalidTable means an input table is missing, unreadable or has the wrong columns.
	ErrInvalidTable = errors.New("invalid table")
)

// ErrorType classifies an error for metrics labels and failure reports.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCrawlTimeout):
		return "timeout"
	case errors.Is(err, ErrNavigationFailed):
		return "navigation"
	case errors.Is(err, ErrExtractionFailed):
		return "extraction"
	case errors.Is(err, ErrInvalidTable):
		return "table"
	default:
		return "unknown"
	}
}
