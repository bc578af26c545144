package chromedp_crawler

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/user/tcas-fee-crawler/internal/repository"
)

// classify wraps a chromedp error with the repository error it corresponds to.
func classify(err error, fallback error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	kind := fallback
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, chromedp.ErrPollingTimeout) {
		kind = repository.ErrCrawlTimeout
	}
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), kind, err)
}
