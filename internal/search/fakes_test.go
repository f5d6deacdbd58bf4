package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"lps/internal/browser"
	"lps/internal/scraper"
	"lps/internal/sites/ebay"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSite() scraper.Site {
	s, ok := scraper.Get(ebay.Name)
	if !ok {
		panic("ebay site not registered")
	}
	return s
}

type item struct {
	title, price, link string
}

// resultsPage renders items the way the eBay results page marks them up.
func resultsPage(items ...item) string {
	var sb strings.Builder
	sb.WriteString("<html><body><ul>")
	for _, it := range items {
		sb.WriteString(`<li class="s-item">`)
		sb.WriteString(fmt.Sprintf(`<a class="s-item__link" href="%s"><span role="heading">%s</span></a>`, it.link, it.title))
		if it.price != "" {
			sb.WriteString(fmt.Sprintf(`<span class="s-item__price">%s</span>`, it.price))
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul></body></html>")
	return sb.String()
}

// fakeSession serves canned results pages keyed by a substring of the URL.
type fakeSession struct {
	mu     sync.Mutex
	pages  map[string]string
	images map[string]string // link -> zoom image; missing links time out

	loadErr   error
	openErr   map[string]error
	gate      chan struct{} // when set, Load blocks until closed
	loading   chan struct{} // closed on the first Load call
	loadOnce  sync.Once
	onOpen    func(link string)
	loads     []string
	opens     []string
	closes    int
	lastWaits []time.Duration
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		pages:   map[string]string{},
		images:  map[string]string{},
		openErr: map[string]error{},
		loading: make(chan struct{}),
	}
}

func (s *fakeSession) Kind() browser.Kind { return browser.Chrome }

func (s *fakeSession) Load(ctx context.Context, url string) (string, error) {
	s.mu.Lock()
	s.loads = append(s.loads, url)
	gate := s.gate
	s.mu.Unlock()
	s.loadOnce.Do(func() { close(s.loading) })

	if gate != nil {
		<-gate
	}
	if s.loadErr != nil {
		return "", s.loadErr
	}
	for key, page := range s.pages {
		if strings.Contains(url, key) {
			return page, nil
		}
	}
	return resultsPage(), nil
}

func (s *fakeSession) Open(ctx context.Context, link string) error {
	s.mu.Lock()
	s.opens = append(s.opens, link)
	hook := s.onOpen
	err := s.openErr[link]
	s.mu.Unlock()
	if hook != nil {
		hook(link)
	}
	return err
}

func (s *fakeSession) WaitAttribute(ctx context.Context, selector, attr string, wait time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastWaits = append(s.lastWaits, wait)
	last := s.opens[len(s.opens)-1]
	if img, ok := s.images[last]; ok {
		return img, nil
	}
	return "", browser.ErrWaitTimeout
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *fakeSession) Loads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loads...)
}

// fakePool hands out one session and counts acquisitions.
type fakePool struct {
	mu       sync.Mutex
	session  *fakeSession
	err      error
	acquired int
}

func (p *fakePool) Acquire(ctx context.Context, kind browser.Kind) (browser.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired++
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

// recorder is a Renderer that remembers every call.
type recorder struct {
	resets    int
	listings  []scraper.Listing
	failures  []error
	completed []string
}

func (r *recorder) Reset() {
	r.resets++
	r.listings = nil
	r.failures = nil
	r.completed = nil
}

func (r *recorder) Render(l scraper.Listing) { r.listings = append(r.listings, l) }

func (r *recorder) Failed(searchID string, err error) { r.failures = append(r.failures, err) }

func (r *recorder) Complete(searchID string, count int) { r.completed = append(r.completed, searchID) }

// collect reads events until the worker is done and the channel is empty.
func collect(w *Worker, events <-chan Event) []Event {
	<-w.Done()
	var out []Event
	for {
		select {
		case ev := <-events:
			out = append(out, ev)
		default:
			return out
		}
	}
}
