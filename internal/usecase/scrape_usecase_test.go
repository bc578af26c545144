package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
)

const (
	kwComp = "วิศวกรรมคอมพิวเตอร์"
	kwAI   = "วิศวกรรมปัญญาประดิษฐ์"
)

func page(inst, prog, campus, fee string) fakePage {
	return fakePage{
		institution: entity.Some(inst),
		program:     entity.Some(prog),
		campus:      entity.Some(campus),
		fee:         entity.Some(fee),
	}
}

func TestScraperRun(t *testing.T) {
	searcher := &fakeSearcher{
		links: map[string][]string{
			kwComp: {"https://mytcas.com/programs/1", "https://mytcas.com/programs/2"},
			kwAI:   {"https://mytcas.com/programs/3", "https://mytcas.com/programs/1"},
		},
	}
	pages := &fakePages{
		pages: map[string]fakePage{
			"https://mytcas.com/programs/1": page("มหาวิทยาลัยเกษตรศาสตร์", "วิศวกรรมคอมพิวเตอร์", "บางเขน", "15,000 บาท"),
			"https://mytcas.com/programs/3": page("มหาวิทยาลัยมหิดล", "วิศวกรรมปัญญาประดิษฐ์", "ศาลายา", "https://example.edu/fees"),
		},
		errs: map[string]error{
			"https://mytcas.com/programs/2": fmt.Errorf("open: %w", repository.ErrCrawlTimeout),
		},
	}
	writer := &fakeWriter{}

	uc := NewScraper(searcher, pages, []repository.TableWriter{writer}, zaptest.NewLogger(t))
	res, err := uc.Run(context.Background(), []string{kwComp, kwAI})
	require.NoError(t, err)

	assert.Equal(t, []string{kwComp, kwAI}, searcher.calls)
	assert.Equal(t, 4, res.Summary.LinksFound)
	assert.Equal(t, 3, res.Summary.Extracted)
	assert.Equal(t, 1, res.Summary.Duplicates)
	assert.Equal(t, 1, res.Summary.WithFee)
	assert.Equal(t, 1, res.Summary.NoFee)

	require.Len(t, res.Summary.Failures, 1)
	f := res.Summary.Failures[0]
	assert.Equal(t, entity.StagePage, f.Stage)
	assert.Equal(t, kwComp, f.Keyword)
	assert.Equal(t, "https://mytcas.com/programs/2", f.URL)
	assert.Equal(t, "timeout", f.ErrorType)

	// programs/1 was seen again under the second keyword and keeps its slot.
	require.Len(t, res.Records, 2)
	assert.Equal(t, "https://mytcas.com/programs/1", res.Records[0].SourceURL)
	assert.Equal(t, kwAI, res.Records[0].SearchKeyword)

	assert.Equal(t, 1, writer.calls)
	assert.Equal(t, res.Records, writer.records)
	require.Len(t, writer.noFee, 1)
	assert.True(t, writer.noFee[0].IsLink)
}

func TestScraperContinuesAfterSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{
		links: map[string][]string{kwAI: {"https://mytcas.com/programs/9"}},
		errs:  map[string]error{kwComp: fmt.Errorf("search: %w", repository.ErrCrawlTimeout)},
	}
	pages := &fakePages{pages: map[string]fakePage{
		"https://mytcas.com/programs/9": page("u", "p", "c", "20000"),
	}}
	writer := &fakeWriter{}

	res, err := NewScraper(searcher, pages, []repository.TableWriter{writer}, zaptest.NewLogger(t)).
		Run(context.Background(), []string{kwComp, kwAI})
	require.NoError(t, err)

	require.Len(t, res.Summary.Failures, 1)
	assert.Equal(t, entity.StageSearch, res.Summary.Failures[0].Stage)
	assert.Empty(t, res.Summary.Failures[0].URL)
	assert.Len(t, writer.records, 1)
}

func TestScraperEmptySearchIsNotAFailure(t *testing.T) {
	writer := &fakeWriter{}
	res, err := NewScraper(&fakeSearcher{}, &fakePages{}, []repository.TableWriter{writer}, zaptest.NewLogger(t)).
		Run(context.Background(), []string{kwComp})
	require.NoError(t, err)

	assert.Empty(t, res.Summary.Failures)
	assert.Equal(t, 1, writer.calls)
	assert.Empty(t, writer.records)
}

func TestScraperKeepsPreviousTablesWhenEverythingFails(t *testing.T) {
	searcher := &fakeSearcher{errs: map[string]error{kwComp: repository.ErrNavigationFailed}}
	writer := &fakeWriter{}

	res, err := NewScraper(searcher, &fakePages{}, []repository.TableWriter{writer}, zaptest.NewLogger(t)).
		Run(context.Background(), []string{kwComp})
	require.ErrorIs(t, err, ErrNothingCollected)
	assert.Len(t, res.Summary.Failures, 1)
	assert.Zero(t, writer.calls)
}

func TestScraperReportsWriterFailure(t *testing.T) {
	pages := &fakePages{pages: map[string]fakePage{"https://x/1": page("u", "p", "c", "1000")}}
	writer := &fakeWriter{err: errors.New("disk full")}

	_, err := NewScraper(&fakeSearcher{}, pages, []repository.TableWriter{writer}, zaptest.NewLogger(t)).
		RunURLs(context.Background(), kwComp, []string{"https://x/1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestScraperRunURLsSkipsSearch(t *testing.T) {
	searcher := &fakeSearcher{}
	pages := &fakePages{pages: map[string]fakePage{
		"https://x/1": page("u", "p", "c", "1000"),
		"https://x/2": page("u", "p", "c2", "ดูที่เว็บไซต์"),
	}}
	writer := &fakeWriter{}

	res, err := NewScraper(searcher, pages, []repository.TableWriter{writer}, zaptest.NewLogger(t)).
		RunURLs(context.Background(), kwAI, []string{"https://x/1", "https://x/2"})
	require.NoError(t, err)

	assert.Empty(t, searcher.calls)
	assert.Equal(t, []string{"https://x/1", "https://x/2"}, pages.opened)
	for _, r := range res.Records {
		assert.Equal(t, kwAI, r.SearchKeyword)
	}
	assert.Equal(t, 1, res.Summary.WithFee)
	assert.Equal(t, 1, res.Summary.NoFee)
}

func TestScraperStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pages := &fakePages{
		pages: map[string]fakePage{
			"https://x/1": page("u", "p", "c", "1000"),
			"https://x/2": page("u", "p", "c", "1000"),
		},
		onOpen: func(string) { cancel() },
	}
	writer := &fakeWriter{}

	_, err := NewScraper(&fakeSearcher{}, pages, []repository.TableWriter{writer}, zaptest.NewLogger(t)).
		RunURLs(ctx, kwComp, []string{"https://x/1", "https://x/2"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, pages.opened, 1)
	assert.Zero(t, writer.calls)
}
