package chromedp_crawler

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/user/tcas-fee-crawler/internal/repository"
	"github.com/user/tcas-fee-crawler/pkg/metrics"
	"github.com/user/tcas-fee-crawler/pkg/utils"
)

const (
	searchInputSelector = `input[placeholder*='พิมพ์ชื่อสถาบัน']`
	programLinkSelector = `a[href*='/programs/']`
)

// Searcher drives the site's autocomplete search box.
type Searcher struct {
	session *Session
	baseURL string
}

var _ repository.Searcher = (*Searcher)(nil)

func NewSearcher(session *Session, baseURL string) *Searcher {
	metrics.Init()
	return &Searcher{session: session, baseURL: baseURL}
}

// Search types the keyword one rune at a time so the dropdown appears, picks
// the first suggestion and collects the program links on the results page.
func (s *Searcher) Search(ctx context.Context, keyword string) ([]string, error) {
	start := time.Now()
	defer func() {
		metrics.PageDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	}()

	opts := s.session.opts
	log := s.session.logger.With(zap.String("keyword", keyword))

	inputCtx, cancel := s.session.step(ctx, opts.SearchTimeout)
	err := chromedp.Run(inputCtx,
		chromedp.Navigate(s.baseURL),
		chromedp.WaitVisible(searchInputSelector, chromedp.ByQuery),
		chromedp.Clear(searchInputSelector, chromedp.ByQuery),
	)
	cancel()
	if err != nil {
		return nil, classify(err, repository.ErrNavigationFailed, "open search page %s", s.baseURL)
	}

	typing := make([]chromedp.Action, 0, 2*len(keyword)+4)
	for _, r := range keyword {
		typing = append(typing,
			chromedp.SendKeys(searchInputSelector, string(r), chromedp.ByQuery),
			chromedp.Sleep(opts.TypeDelay),
		)
	}
	typing = append(typing,
		chromedp.Sleep(opts.DropdownDelay),
		chromedp.SendKeys(searchInputSelector, kb.ArrowDown, chromedp.ByQuery),
		chromedp.SendKeys(searchInputSelector, kb.Enter, chromedp.ByQuery),
	)
	typeBudget := opts.SearchTimeout + opts.DropdownDelay + time.Duration(len(keyword))*opts.TypeDelay
	typeCtx, cancel := s.session.step(ctx, typeBudget)
	err = chromedp.Run(typeCtx, typing...)
	cancel()
	if err != nil {
		return nil, classify(err, repository.ErrNavigationFailed, "type keyword %q", keyword)
	}

	var ready bool
	resultsCtx, cancel := s.session.step(ctx, opts.ResultsTimeout+opts.SettleDelay+opts.SearchTimeout)
	defer cancel()
	err = chromedp.Run(resultsCtx,
		chromedp.Poll(readyExpression(opts.NoResultsSelector), &ready,
			chromedp.WithPollingTimeout(opts.ResultsTimeout),
			chromedp.WithPollingInterval(250*time.Millisecond),
		),
		chromedp.Sleep(opts.SettleDelay),
	)
	if err != nil {
		return nil, classify(err, repository.ErrNavigationFailed, "wait for results of %q", keyword)
	}

	var (
		hrefs    []string
		location string
	)
	err = chromedp.Run(resultsCtx,
		chromedp.Location(&location),
		chromedp.Evaluate(hrefsExpression, &hrefs),
	)
	if err != nil {
		return nil, classify(err, repository.ErrExtractionFailed, "collect links for %q", keyword)
	}

	links, err := absoluteUnique(location, hrefs)
	if err != nil {
		return nil, classify(err, repository.ErrExtractionFailed, "resolve links for %q", keyword)
	}
	log.Info("search finished", zap.Int("links", len(links)), zap.String("results_url", location))
	return links, nil
}

var hrefsExpression = `Array.from(document.querySelectorAll(` + strconv.Quote(programLinkSelector) + `)).map(a => a.getAttribute("href") || "")`

// readyExpression is true once program links are rendered, or once the
// page shows its no-results marker.
func readyExpression(noResultsSelector string) string {
	expr := `document.querySelectorAll(` + strconv.Quote(programLinkSelector) + `).length > 0`
	if noResultsSelector != "" {
		expr += ` || document.querySelector(` + strconv.Quote(noResultsSelector) + `) !== null`
	}
	return expr
}

// absoluteUnique resolves hrefs against the results page and drops repeats,
// keeping first-seen order.
func absoluteUnique(pageURL string, hrefs []string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse results url %q: %w", pageURL, err)
	}
	seen := make(map[string]struct{}, len(hrefs))
	links := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		if href == "" {
			continue
		}
		abs, err := utils.ToAbsoluteURL(base, href)
		if err != nil {
			continue
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	}
	return links, nil
}
