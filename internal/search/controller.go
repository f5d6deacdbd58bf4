package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lps/internal/browser"
	"lps/internal/scraper"
)

// Options configures a Controller.
type Options struct {
	Kind      browser.Kind
	Prefix    string
	ImageWait time.Duration
	Buffer    int // capacity of each search's event channel
}

// Controller owns the running Worker and its Token. Submit and Clear reset
// the Consumer, so they must be called from the goroutine that ticks it.
type Controller struct {
	ctx      context.Context
	sessions SessionSource
	site     scraper.Site
	consumer *Consumer
	opts     Options
	logger   *slog.Logger

	mu      sync.Mutex
	current *Worker
	token   *Token
	closed  bool
}

// NewController binds a Controller to ctx, the lifetime of every session
// operation its workers perform.
func NewController(ctx context.Context, sessions SessionSource, site scraper.Site, consumer *Consumer, opts Options, logger *slog.Logger) *Controller {
	if opts.Buffer <= 0 {
		opts.Buffer = 256
	}
	return &Controller{
		ctx:      ctx,
		sessions: sessions,
		site:     site,
		consumer: consumer,
		opts:     opts,
		logger:   logger,
	}
}

// Submit cancels any running search and starts a new one for query. It
// returns without waiting for either worker. An empty query is ignored.
func (c *Controller) Submit(query string) (Request, bool) {
	q := Normalize(query, c.opts.Prefix)
	if q == "" {
		c.logger.Warn("search query is empty")
		return Request{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Warn("ignoring search after shutdown", slog.String("query", q))
		return Request{}, false
	}

	var prev <-chan struct{}
	if c.current != nil {
		c.logger.Debug("superseding search", slog.String("search_id", c.token.SearchID()))
		c.token.Cancel()
		prev = c.current.Done()
	}

	req := NewRequest(q, c.opts.Kind)
	token := NewToken(req.ID)
	events := make(chan Event, c.opts.Buffer)
	w := NewWorker(req, token, events, WorkerConfig{
		Site:      c.site,
		Sessions:  c.sessions,
		ImageWait: c.opts.ImageWait,
		Logger:    c.logger,
		After:     prev,
	})

	c.consumer.Attach(req.ID, events, w.Done())
	c.current, c.token = w, token

	c.logger.Info("searching",
		slog.String("query", q),
		slog.String("browser", req.Kind.String()),
		slog.String("search_id", req.ID))
	go w.Run(c.ctx)
	return req, true
}

// Current returns the most recent request, if any.
func (c *Controller) Current() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Request{}, false
	}
	return c.current.Request(), true
}

// Clear cancels the running search and wipes rendered results without
// waiting for the worker.
func (c *Controller) Clear() {
	c.cancel()
	c.consumer.Reset()
	c.logger.Info("results cleared")
}

// Stop cancels the running search and waits up to wait for its worker to
// exit. It reports whether the worker exited.
func (c *Controller) Stop(wait time.Duration) bool {
	w := c.cancel()
	if w == nil {
		return true
	}
	select {
	case <-w.Done():
		return true
	case <-time.After(wait):
		return false
	}
}

// Shutdown stops the running search, waiting at most timeout. A worker that
// does not exit in time is abandoned with a warning.
func (c *Controller) Shutdown(timeout time.Duration) {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	if !c.Stop(timeout) {
		c.logger.Warn("search worker did not finish in time", slog.String("timeout", timeout.String()))
		return
	}
	c.logger.Debug("search worker stopped")
}

func (c *Controller) cancel() *Worker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	if !c.token.Cancelled() {
		c.logger.Debug("cancelling search", slog.String("search_id", c.token.SearchID()))
	}
	c.token.Cancel()
	return c.current
}
