package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"lps/internal/browser"
	"lps/internal/extractor"
	"lps/internal/scraper"
)

// SessionSource hands out browser sessions. Workers borrow sessions and
// never close them.
type SessionSource interface {
	Acquire(ctx context.Context, kind browser.Kind) (browser.Session, error)
}

type State int32

const (
	Idle State = iota
	Running
	Completed
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ImageOutcome is the result of the best-effort zoom image lookup: a URL or
// a timeout.
type ImageOutcome struct {
	URL      string
	TimedOut bool
}

// OrMarker folds the outcome into a Listing.Image value.
func (o ImageOutcome) OrMarker() string {
	if o.TimedOut || o.URL == "" {
		return scraper.ImageUnavailable
	}
	return o.URL
}

// Worker runs a single search and streams its listings to out.
type Worker struct {
	req       Request
	token     *Token
	site      scraper.Site
	sessions  SessionSource
	out       chan<- Event
	after     <-chan struct{}
	imageWait time.Duration
	logger    *slog.Logger

	state atomic.Int32
	done  chan struct{}
}

// WorkerConfig carries the collaborators of a Worker.
type WorkerConfig struct {
	Site      scraper.Site
	Sessions  SessionSource
	ImageWait time.Duration
	Logger    *slog.Logger

	// After, when set, is waited on before the session is touched so that
	// two workers never drive the same session.
	After <-chan struct{}
}

func NewWorker(req Request, token *Token, out chan<- Event, cfg WorkerConfig) *Worker {
	return &Worker{
		req:       req,
		token:     token,
		site:      cfg.Site,
		sessions:  cfg.Sessions,
		out:       out,
		after:     cfg.After,
		imageWait: cfg.ImageWait,
		logger:    cfg.Logger.With(slog.String("search_id", req.ID)),
		done:      make(chan struct{}),
	}
}

func (w *Worker) State() State { return State(w.state.Load()) }

// Done is closed when Run returns.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) Request() Request { return w.req }

// Run drives the search to a terminal state. Completed and Failed searches
// end their stream with exactly one EventEnd.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	if w.after != nil {
		select {
		case <-w.after:
		case <-w.token.Done():
		}
	}
	if w.token.Cancelled() {
		w.setState(Cancelled)
		return
	}

	w.setState(Running)
	start := time.Now()
	count, err := w.search(ctx)

	switch {
	case errors.Is(err, errCancelled):
		w.setState(Cancelled)
		w.logger.Info("search stopped", slog.Int("listings", count))
		return
	case err != nil:
		w.logger.Error("search failed",
			slog.String("query", w.req.Query),
			slog.String("error", err.Error()))
		w.send(Event{SearchID: w.req.ID, Kind: EventError, Err: err})
		w.finish(Failed)
	default:
		w.logger.Info("search finished",
			slog.String("query", w.req.Query),
			slog.Int("listings", count),
			slog.String("duration", time.Since(start).String()))
		w.finish(Completed)
	}
}

func (w *Worker) finish(s State) {
	if !w.send(Event{SearchID: w.req.ID, Kind: EventEnd}) {
		s = Cancelled
	}
	w.setState(s)
}

func (w *Worker) search(ctx context.Context) (int, error) {
	searchURL := w.site.SearchURL(w.req.Query)

	sess, err := w.sessions.Acquire(ctx, w.req.Kind)
	if err != nil {
		return 0, err
	}
	if w.token.Cancelled() {
		return 0, errCancelled
	}

	w.logger.Debug("loading results", slog.String("url", searchURL))
	html, err := sess.Load(ctx, searchURL)
	if err != nil {
		return 0, &PageFetchError{URL: searchURL, Err: err}
	}
	doc, err := extractor.Parse(html)
	if err != nil {
		return 0, &PageFetchError{URL: searchURL, Err: err}
	}

	count := 0
	for _, c := range extractor.Extract(doc, w.site, w.logger) {
		if w.token.Cancelled() {
			return count, errCancelled
		}

		listing, err := w.listing(ctx, sess, c)
		if err != nil {
			w.logger.Warn("skipping listing",
				slog.String("link", c.Link),
				slog.String("error", err.Error()))
			continue
		}

		if w.token.Cancelled() {
			return count, errCancelled
		}
		if !w.send(Event{SearchID: w.req.ID, Kind: EventListing, Listing: listing}) {
			return count, errCancelled
		}
		count++
	}
	return count, nil
}

func (w *Worker) listing(ctx context.Context, sess browser.Session, c scraper.Candidate) (scraper.Listing, error) {
	img, err := w.lookupImage(ctx, sess, c.Link)
	if err != nil {
		return scraper.Listing{}, fmt.Errorf("%w: %v", extractor.ErrItem, err)
	}
	return scraper.Listing{
		SearchID: w.req.ID,
		Source:   w.site.Name(),
		Title:    c.Title,
		Price:    c.Price,
		Image:    img.OrMarker(),
		Link:     c.Link,
	}, nil
}

// lookupImage opens the listing page and waits briefly for the zoom image.
// Running out of time is an outcome, not an error.
func (w *Worker) lookupImage(ctx context.Context, sess browser.Session, link string) (ImageOutcome, error) {
	if err := sess.Open(ctx, link); err != nil {
		return ImageOutcome{}, err
	}
	selector, attr := w.site.ZoomImage()
	v, err := sess.WaitAttribute(ctx, selector, attr, w.imageWait)
	if errors.Is(err, browser.ErrWaitTimeout) {
		return ImageOutcome{TimedOut: true}, nil
	}
	if err != nil {
		return ImageOutcome{}, err
	}
	return ImageOutcome{URL: v}, nil
}

// send delivers ev unless the search is cancelled first.
func (w *Worker) send(ev Event) bool {
	select {
	case <-w.token.Done():
		return false
	default:
	}
	select {
	case w.out <- ev:
		return true
	case <-w.token.Done():
		return false
	}
}

func (w *Worker) setState(s State) {
	w.state.Store(int32(s))
	w.logger.Debug("search state", slog.String("state", s.String()))
}
