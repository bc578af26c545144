package chromedp_crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Options tune the browser and the interaction delays. Delays are tolerances
// for client-side rendering, not correctness guarantees.
type Options struct {
	Headless       bool
	UserAgent      string
	SearchTimeout  time.Duration
	ResultsTimeout time.Duration
	PageTimeout    time.Duration
	TypeDelay      time.Duration
	DropdownDelay  time.Duration
	SettleDelay    time.Duration
	// NoResultsSelector, when set, marks a results page that has no matches.
	NoResultsSelector string
}

// Session is one browser with one tab. All scraping runs sequentially through it.
type Session struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	opts        Options
	logger      *zap.Logger
	closeOnce   sync.Once
	closeErr    error
}

// NewSession starts a browser. The caller must Close it.
func NewSession(parent context.Context, opts Options, logger *zap.Logger) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar().Debugf))

	s := &Session{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		opts:        opts,
		logger:      logger,
	}

	// The first Run starts the browser; it must use the untimed tab context so
	// that later per-step timeouts do not tear the browser down.
	err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": "th-TH,th;q=0.9,en;q=0.8",
		}),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	logger.Info("browser session started", zap.Bool("headless", opts.Headless))
	return s, nil
}

// WithSession runs fn with a fresh session and closes it on every exit path.
func WithSession(ctx context.Context, opts Options, logger *zap.Logger, fn func(*Session) error) (err error) {
	s, err := NewSession(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.cancelTab()
		s.cancelAlloc()
		s.logger.Info("browser session closed")
	})
	return s.closeErr
}

// step derives a bounded context for one browser interaction.
func (s *Session) step(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	stepCtx, cancel := context.WithTimeout(s.ctx, timeout)
	// Propagate cancellation of the caller's context as well.
	stop := context.AfterFunc(ctx, cancel)
	return stepCtx, func() {
		stop()
		cancel()
	}
}
