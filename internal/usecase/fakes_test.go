package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/repository"
)

type fakePage struct {
	institution, program, campus, fee entity.Text
}

func (p fakePage) InstitutionName() entity.Text { return p.institution }
func (p fakePage) ProgramName() entity.Text     { return p.program }
func (p fakePage) Campus() entity.Text          { return p.campus }
func (p fakePage) TuitionFee() entity.Text      { return p.fee }

type fakeSearcher struct {
	links map[string][]string
	errs  map[string]error
	calls []string
}

func (s *fakeSearcher) Search(_ context.Context, keyword string) ([]string, error) {
	s.calls = append(s.calls, keyword)
	if err := s.errs[keyword]; err != nil {
		return nil, err
	}
	return s.links[keyword], nil
}

type fakePages struct {
	pages  map[string]fakePage
	errs   map[string]error
	onOpen func(url string)
	opened []string
}

func (p *fakePages) Open(_ context.Context, url string) (repository.PageFieldReader, error) {
	p.opened = append(p.opened, url)
	if p.onOpen != nil {
		p.onOpen(url)
	}
	if err := p.errs[url]; err != nil {
		return nil, err
	}
	return p.pages[url], nil
}

type fakeWriter struct {
	records []entity.ProgramRecord
	noFee   []entity.NoFeeRecord
	calls   int
	err     error
}

func (w *fakeWriter) Write(_ context.Context, records []entity.ProgramRecord, noFee []entity.NoFeeRecord) error {
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.records, w.noFee = records, noFee
	return nil
}

type fakeReader struct {
	source  string
	records []entity.ProgramRecord
	err     error
}

func (r fakeReader) Read(context.Context) ([]entity.ProgramRecord, error) { return r.records, r.err }
func (r fakeReader) Source() string                                    { return r.source }

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.entries[key]
	return b, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = payload
	return nil
}

func record(kw, inst, prog, campus, raw, url string) entity.ProgramRecord {
	return entity.ProgramRecord{
		SearchKeyword:   kw,
		InstitutionName: entity.Some(inst),
		ProgramName:     entity.Some(prog),
		Campus:          entity.Some(campus),
		TuitionFeeRaw:   entity.Some(raw),
		SourceURL:       url,
	}
}
