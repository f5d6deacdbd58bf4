package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"lps/internal/browser"
	"lps/internal/config"
	"lps/internal/scraper"
	"lps/internal/search"
	"lps/internal/sites/ebay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetPage = `<html><body><ul>
<li class="s-item"><a class="s-item__link" href="https://www.ebay.com/itm/1"><span role="heading">Red widget</span></a><span class="s-item__price">$1.00</span></li>
</ul></body></html>`

type pageSession struct{}

func (pageSession) Kind() browser.Kind                           { return browser.Chrome }
func (pageSession) Load(context.Context, string) (string, error) { return widgetPage, nil }
func (pageSession) Open(context.Context, string) error           { return nil }
func (pageSession) Close() error                                 { return nil }
func (pageSession) WaitAttribute(context.Context, string, string, time.Duration) (string, error) {
	return "", browser.ErrWaitTimeout
}

// syncRecorder is a Renderer that can be read from the test goroutine.
type syncRecorder struct {
	mu        sync.Mutex
	resets    int
	titles    []string
	completed int
}

func (r *syncRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
	r.titles = nil
	r.completed = 0
}

func (r *syncRecorder) Render(l scraper.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, l.Title)
}

func (r *syncRecorder) Failed(string, error) {}

func (r *syncRecorder) Complete(string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *syncRecorder) snapshot() (titles []string, completed, resets int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.titles...), r.completed, r.resets
}

func newInteractive(t *testing.T) (*search.Controller, *search.Consumer, *syncRecorder, config.Config) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	site, ok := scraper.Get(ebay.Name)
	require.True(t, ok)

	pool := browser.NewPool(browser.Config{}, logger,
		browser.WithLookup(func(browser.Kind) (string, bool) { return "/usr/bin/chrome", true }),
		browser.WithLauncher(func(context.Context, browser.Kind, string, browser.Config) (browser.ManagedSession, error) {
			return pageSession{}, nil
		}),
	)
	rec := &syncRecorder{}
	consumer := search.NewConsumer(rec, site.IsPlaceholder, logger)
	ctrl := search.NewController(context.Background(), pool, site, consumer, search.Options{
		Kind:      browser.Chrome,
		Prefix:    search.DefaultPrefix,
		ImageWait: 10 * time.Millisecond,
	}, logger)
	t.Cleanup(func() {
		ctrl.Shutdown(time.Second)
		_ = pool.Close()
	})

	cfg := config.Default()
	cfg.Tick = 5 * time.Millisecond
	cfg.StopTimeout = time.Second
	return ctrl, consumer, rec, cfg
}

func TestInteractiveSearchClearQuit(t *testing.T) {
	ctrl, consumer, rec, cfg := newInteractive(t)
	in, w := io.Pipe()
	var out strings.Builder

	done := make(chan error, 1)
	go func() { done <- runInteractive(context.Background(), ctrl, consumer, cfg, in, &out) }()

	_, err := io.WriteString(w, "widget\n")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		titles, completed, _ := rec.snapshot()
		return len(titles) == 1 && completed == 1
	}, 2*time.Second, 5*time.Millisecond)

	req, ok := ctrl.Current()
	require.True(t, ok)
	assert.Equal(t, "widget", req.Query)

	_, err = io.WriteString(w, ":clear\n")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		titles, completed, _ := rec.snapshot()
		return len(titles) == 0 && completed == 0
	}, time.Second, 5*time.Millisecond)

	_, err = io.WriteString(w, ":stop\n:quit\n")
	require.NoError(t, err)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("interactive loop did not return on :quit")
	}
	_ = w.Close()
	assert.Contains(t, out.String(), ":quit")
}

func TestInteractiveNumericQueryAndEOF(t *testing.T) {
	ctrl, consumer, _, cfg := newInteractive(t)

	err := runInteractive(context.Background(), ctrl, consumer, cfg, strings.NewReader("  \n123\n"), io.Discard)
	require.NoError(t, err)

	req, ok := ctrl.Current()
	require.True(t, ok)
	assert.Equal(t, "LPS 123", req.Query)
}

func TestInteractiveReturnsWhenContextDone(t *testing.T) {
	ctrl, consumer, _, cfg := newInteractive(t)
	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runInteractive(ctx, ctrl, consumer, cfg, in, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("interactive loop ignored cancellation")
	}
}

func TestReadLinesStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := readLines(ctx, strings.NewReader("a\nb\nc\n"))
	assert.Equal(t, "a", <-lines)

	cancel()
	closed := make(chan struct{})
	go func() {
		for range lines {
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine still blocked after cancel")
	}
}
