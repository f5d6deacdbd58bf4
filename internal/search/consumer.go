package search

import (
	"context"
	"log/slog"
	"time"

	"lps/internal/scraper"
)

// Renderer displays listings. Only the Consumer calls it, always from the
// goroutine that ticks the Consumer.
type Renderer interface {
	Reset()
	Render(l scraper.Listing)
	Failed(searchID string, err error)
	Complete(searchID string, count int)
}

// Consumer drains the event stream of the current search. It is owned by a
// single goroutine and never blocks on the stream.
type Consumer struct {
	renderer    Renderer
	placeholder func(title string) bool
	logger      *slog.Logger

	searchID string
	events   <-chan Event
	worker   <-chan struct{}
	rendered int
	finished bool
	ended    bool
}

// NewConsumer returns a Consumer rendering to r. placeholder, when set,
// reports titles that must never be rendered.
func NewConsumer(r Renderer, placeholder func(string) bool, logger *slog.Logger) *Consumer {
	return &Consumer{renderer: r, placeholder: placeholder, logger: logger}
}

// Attach resets rendered state and starts following a new stream. worker is
// closed when the producing Worker exits.
func (c *Consumer) Attach(searchID string, events <-chan Event, worker <-chan struct{}) {
	c.Reset()
	c.searchID = searchID
	c.events = events
	c.worker = worker
}

// Reset detaches from the current stream and clears rendered results.
func (c *Consumer) Reset() {
	c.searchID = ""
	c.events = nil
	c.worker = nil
	c.rendered = 0
	c.finished = false
	c.ended = false
	c.renderer.Reset()
}

// Finished reports whether the current stream is over, by end marker or
// because its worker exited.
func (c *Consumer) Finished() bool { return c.events == nil || c.finished }

// Ended reports whether the current stream delivered its end marker.
func (c *Consumer) Ended() bool { return c.ended }

func (c *Consumer) Rendered() int { return c.rendered }

func (c *Consumer) SearchID() string { return c.searchID }

// Tick renders every event that is ready and returns.
func (c *Consumer) Tick() {
	if c.Finished() {
		return
	}
	for {
		select {
		case ev := <-c.events:
			if c.handle(ev) {
				return
			}
		default:
			if !c.workerGone() {
				return
			}
			// Sends made before the worker exited are visible now.
			if len(c.events) > 0 {
				continue
			}
			c.finished = true
			c.logger.Debug("search stream closed without end marker",
				slog.String("search_id", c.searchID),
				slog.Int("listings", c.rendered))
			return
		}
	}
}

// Run ticks every interval until the stream finishes or ctx is done.
func (c *Consumer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		c.Tick()
		if c.Finished() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// handle renders ev and reports whether it ended the stream.
func (c *Consumer) handle(ev Event) bool {
	if ev.SearchID != c.searchID {
		return false
	}
	switch ev.Kind {
	case EventListing:
		if c.placeholder != nil && c.placeholder(ev.Listing.Title) {
			return false
		}
		c.rendered++
		c.logger.Debug("listing",
			slog.Int("n", c.rendered),
			slog.String("source", ev.Listing.Source),
			slog.String("title", ev.Listing.Title),
			slog.String("price", ev.Listing.Price),
			slog.String("image", ev.Listing.Image),
			slog.String("link", ev.Listing.Link))
		c.renderer.Render(ev.Listing)
	case EventError:
		c.renderer.Failed(c.searchID, ev.Err)
	case EventEnd:
		c.finished = true
		c.ended = true
		c.logger.Info("search completed", slog.Int("listings", c.rendered))
		c.renderer.Complete(c.searchID, c.rendered)
		return true
	}
	return false
}

func (c *Consumer) workerGone() bool {
	if c.worker == nil {
		return false
	}
	select {
	case <-c.worker:
		return true
	default:
		return false
	}
}
