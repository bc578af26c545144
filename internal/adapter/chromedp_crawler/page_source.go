package chromedp_crawler

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/tcas-fee-crawler/internal/adapter/htmlreader"
	"github.com/user/tcas-fee-crawler/internal/repository"
	"github.com/user/tcas-fee-crawler/pkg/metrics"
)

// PageSource renders detail pages in the session's tab.
type PageSource struct {
	session *Session
}

var _ repository.PageSource = (*PageSource)(nil)

func NewPageSource(session *Session) *PageSource {
	metrics.Init()
	return &PageSource{session: session}
}

// Open navigates to url, lets client-side rendering settle and hands the
// rendered HTML to the field reader.
func (p *PageSource) Open(ctx context.Context, url string) (repository.PageFieldReader, error) {
	start := time.Now()
	defer func() {
		metrics.PageDuration.WithLabelValues("page").Observe(time.Since(start).Seconds())
	}()

	opts := p.session.opts
	pageCtx, cancel := p.session.step(ctx, opts.PageTimeout+opts.SettleDelay)
	defer cancel()

	var html string
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(opts.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, classify(err, repository.ErrNavigationFailed, "open %s", url)
	}

	reader, err := htmlreader.FromHTML(html)
	if err != nil {
		return nil, classify(err, repository.ErrExtractionFailed, "read %s", url)
	}
	p.session.logger.Debug("page rendered", zap.String("url", url), zap.Int("html_bytes", len(html)))
	return reader, nil
}
