package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
	"github.com/user/tcas-fee-crawler/pkg/metrics"
)

// ErrNothingCollected is returned when every unit of a run failed. The
// previous tables are left untouched in that case.
var ErrNothingCollected = errors.New("no records collected")

// Scraper runs the search, extract and export pipeline.
type Scraper interface {
	// Run searches every keyword and extracts each detail page found.
	Run(ctx context.Context, keywords []string) (*ScrapeResult, error)
	// RunURLs extracts only the given detail pages, attributing them to keyword.
	RunURLs(ctx context.Context, keyword string, urls []string) (*ScrapeResult, error)
}

// ScrapeResult is what a run produced, after de-duplication.
type ScrapeResult struct {
	Records []entity.ProgramRecord
	Dataset entity.Dataset
	Summary entity.RunSummary
}

type scrapeUseCase struct {
	searcher repository.Searcher
	pages    repository.PageSource
	writers  []repository.TableWriter
	logger   *zap.Logger
}

// NewScraper wires the pipeline. Writers run in order after a successful
// collection; the first one is expected to be the file export.
func NewScraper(
	searcher repository.Searcher,
	pages repository.PageSource,
	writers []repository.TableWriter,
	logger *zap.Logger,
) Scraper {
	metrics.Init()
	return &scrapeUseCase{
		searcher: searcher,
		pages:    pages,
		writers:  writers,
		logger:   logger,
	}
}

type unit struct {
	keyword string
	url     string
}

func (uc *scrapeUseCase) Run(ctx context.Context, keywords []string) (*ScrapeResult, error) {
	run := uc.newRun(keywords)

	var units []unit
	for _, kw := range keywords {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		links, err := uc.searcher.Search(ctx, kw)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.SearchesTotal.WithLabelValues("failure").Inc()
			uc.fail(run, entity.StageSearch, kw, "", err)
			continue
		}
		metrics.SearchesTotal.WithLabelValues("success").Inc()
		run.LinksFound += len(links)
		for _, link := range links {
			units = append(units, unit{keyword: kw, url: link})
		}
	}

	return uc.collect(ctx, run, units)
}

func (uc *scrapeUseCase) RunURLs(ctx context.Context, keyword string, urls []string) (*ScrapeResult, error) {
	run := uc.newRun([]string{keyword})
	run.LinksFound = len(urls)

	units := make([]unit, len(urls))
	for i, u := range urls {
		units[i] = unit{keyword: keyword, url: u}
	}
	return uc.collect(ctx, run, units)
}

func (uc *scrapeUseCase) newRun(keywords []string) *entity.RunSummary {
	return &entity.RunSummary{
		Keywords:  keywords,
		StartedAt: time.Now(),
	}
}

func (uc *scrapeUseCase) collect(ctx context.Context, run *entity.RunSummary, units []unit) (*ScrapeResult, error) {
	records := make([]entity.ProgramRecord, 0, len(units))
	for i, u := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := uc.pages.Open(ctx, u.url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.PagesTotal.WithLabelValues("failure", repository.ErrorType(err)).Inc()
			uc.fail(run, entity.StagePage, u.keyword, u.url, err)
			continue
		}
		metrics.PagesTotal.WithLabelValues("success", "").Inc()
		rec := ExtractRecord(u.keyword, u.url, page)
		records = append(records, rec)
		uc.logger.Debug("page extracted",
			zap.String("url", u.url),
			zap.String("keyword", u.keyword),
			zap.Int("progress", i+1),
			zap.Int("total", len(units)),
			zap.Bool("fee_found", rec.TuitionFeeRaw.Present()),
		)
	}
	run.Extracted = len(records)

	if len(records) == 0 && len(run.Failures) > 0 {
		run.Duration = time.Since(run.StartedAt)
		return &ScrapeResult{Summary: *run}, ErrNothingCollected
	}

	deduped, dups := Dedupe(records)
	ds := Partition(deduped)
	run.Duplicates = dups
	run.WithFee = len(ds.WithFee)
	run.NoFee = len(ds.NoFee)

	for _, w := range uc.writers {
		if err := w.Write(ctx, deduped, ds.NoFee); err != nil {
			run.Duration = time.Since(run.StartedAt)
			return &ScrapeResult{Records: deduped, Dataset: ds, Summary: *run}, fmt.Errorf("export records: %w", err)
		}
	}
	metrics.RecordsExported.WithLabelValues("with_fee").Add(float64(run.WithFee))
	metrics.RecordsExported.WithLabelValues("no_fee").Add(float64(run.NoFee))

	run.Duration = time.Since(run.StartedAt)
	uc.logger.Info("scrape finished",
		zap.Strings("keywords", run.Keywords),
		zap.Int("links", run.LinksFound),
		zap.Int("extracted", run.Extracted),
		zap.Int("duplicates", run.Duplicates),
		zap.Int("with_fee", run.WithFee),
		zap.Int("no_fee", run.NoFee),
		zap.Int("failures", len(run.Failures)),
		zap.Duration("duration", run.Duration),
	)
	return &ScrapeResult{Records: deduped, Dataset: ds, Summary: *run}, nil
}

func (uc *scrapeUseCase) fail(run *entity.RunSummary, stage entity.Stage, keyword, url string, err error) {
	f := entity.ScrapeFailure{
		Stage:     stage,
		Keyword:   keyword,
		URL:       url,
		ErrorType: repository.ErrorType(err),
		Reason:    err.Error(),
		At:        time.Now(),
	}
	run.Failures = append(run.Failures, f)
	uc.logger.Warn("skipping failed unit",
		zap.String("stage", string(stage)),
		zap.String("keyword", keyword),
		zap.String("url", url),
		zap.String("error_type", f.ErrorType),
		zap.Error(err),
	)
}
