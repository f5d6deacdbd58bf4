package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LaunchFunc starts a session of kind. bin is the detected executable, or
// empty when chrome should be downloaded.
type LaunchFunc func(ctx context.Context, kind Kind, bin string, cfg Config) (ManagedSession, error)

// Pool lazily launches one session per browser kind and keeps it for the
// life of the process.
type Pool struct {
	cfg    Config
	logger *slog.Logger
	launch LaunchFunc
	lookup func(Kind) (string, bool)

	mu       sync.Mutex
	sessions map[Kind]ManagedSession
	pending  map[Kind]*launch
	closed   bool
}

// launch is a session start in flight. session and err are set before done
// is closed.
type launch struct {
	done    chan struct{}
	session ManagedSession
	err     error
}

type PoolOption func(*Pool)

// WithLauncher replaces the real browser launch.
func WithLauncher(fn LaunchFunc) PoolOption {
	return func(p *Pool) { p.launch = fn }
}

// WithLookup replaces install detection.
func WithLookup(fn func(Kind) (string, bool)) PoolOption {
	return func(p *Pool) { p.lookup = fn }
}

func NewPool(cfg Config, logger *slog.Logger, opts ...PoolOption) *Pool {
	p := &Pool{
		cfg:      cfg,
		logger:   logger,
		launch:   Launch,
		lookup:   LookPath,
		sessions: make(map[Kind]ManagedSession),
		pending:  make(map[Kind]*launch),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Launch starts a real browser session.
func Launch(ctx context.Context, kind Kind, bin string, cfg Config) (ManagedSession, error) {
	switch kind {
	case Chrome:
		return NewBrowser(ctx, bin, cfg)
	case Firefox:
		return NewFirefoxBrowser(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown browser kind %q", kind)
	}
}

// Acquire returns the cached session for kind, launching it on first use.
// Concurrent callers share one launch. A caller whose ctx ends stops waiting
// but the launch carries on, and a failed launch is not cached.
func (p *Pool) Acquire(ctx context.Context, kind Kind) (Session, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if s, ok := p.sessions[kind]; ok {
		p.mu.Unlock()
		return s, nil
	}
	l, ok := p.pending[kind]
	if !ok {
		bin, found := p.lookup(kind)
		if !found {
			if kind != Chrome || !p.cfg.DownloadBrowser {
				p.mu.Unlock()
				return nil, &EnvironmentError{Kind: kind, Reason: fmt.Sprintf("%s is not installed", kind)}
			}
			p.logger.Info("no chrome installation found, downloading managed browser")
		}
		l = &launch{done: make(chan struct{})}
		p.pending[kind] = l
		go p.start(ctx, kind, bin, l)
	}
	p.mu.Unlock()

	select {
	case <-l.done:
		if l.err != nil {
			return nil, l.err
		}
		return l.session, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// start runs one launch and publishes its result. A session that comes up
// after Close is closed straight away.
func (p *Pool) start(ctx context.Context, kind Kind, bin string, l *launch) {
	begin := time.Now()
	s, err := p.launch(ctx, kind, bin, p.cfg)

	p.mu.Lock()
	delete(p.pending, kind)
	closed := p.closed
	switch {
	case err != nil:
		l.err = fmt.Errorf("start %s session: %w", kind, err)
	case closed:
		l.err = ErrPoolClosed
	default:
		p.sessions[kind] = s
		l.session = s
	}
	close(l.done)
	p.mu.Unlock()

	if err != nil {
		return
	}
	if closed {
		p.logger.Debug("closing session started after shutdown", slog.String("browser", kind.String()))
		if cerr := s.Close(); cerr != nil {
			p.logger.Warn("failed to close late session",
				slog.String("browser", kind.String()),
				slog.String("error", cerr.Error()))
		}
		return
	}
	p.logger.Info("browser session started",
		slog.String("browser", s.Kind().String()),
		slog.String("bin", bin),
		slog.String("duration", time.Since(begin).String()))
}

// Close tears down every cached session without waiting for launches in
// flight. Only process shutdown calls it.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	sessions := p.sessions
	p.sessions = make(map[Kind]ManagedSession)
	p.mu.Unlock()

	var errs []error
	for kind, s := range sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", kind, err))
		}
	}
	return errors.Join(errs...)
}
