package browser

import (
	"context"
	"time"
)

// Session is a live browser automation handle. It keeps a single page, so a
// Session must not be driven by two goroutines at once.
type Session interface {
	Kind() Kind

	// Load navigates to url, waits for the load event and returns the
	// rendered document.
	Load(ctx context.Context, url string) (string, error)

	// Open navigates to url and waits for the load event.
	Open(ctx context.Context, url string) error

	// WaitAttribute waits up to wait for selector to match and returns attr
	// of the first match. It returns ErrWaitTimeout when nothing matched.
	WaitAttribute(ctx context.Context, selector, attr string, wait time.Duration) (string, error)
}

// ManagedSession is a Session as held by the Pool, which alone may close it.
type ManagedSession interface {
	Session
	Close() error
}

// Config controls how sessions are launched.
type Config struct {
	Headless        bool
	ProxyURL        string
	UserAgent       string
	PageTimeout     time.Duration
	DownloadBrowser bool // let chrome fall back to rod's managed download
}
