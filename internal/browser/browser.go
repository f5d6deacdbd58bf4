package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Browser wraps a rod.Browser and the one page every search reuses.
type Browser struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	page        *rod.Page
	pageTimeout time.Duration
}

// NewBrowser launches chromium from bin. An empty bin downloads rod's
// managed browser first.
func NewBrowser(ctx context.Context, bin string, cfg Config) (*Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bin == "" {
		path, err := launcher.NewBrowser().Get()
		if err != nil {
			return nil, fmt.Errorf("download browser: %w", err)
		}
		bin = path
	}

	// ctx bounds the launch and the process lifetime, so pass the pool's
	// context here and never a single search's.
	l := launcher.New().Context(ctx).Headless(cfg.Headless).Bin(bin).NoSandbox(true)
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	rb := rod.New().ControlURL(url)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := stealth.Page(rb)
	if err != nil {
		_ = rb.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua})

	return &Browser{
		browser:     rb,
		launcher:    l,
		page:        page,
		pageTimeout: pageTimeout(cfg),
	}, nil
}

func (b *Browser) Kind() Kind { return Chrome }

func (b *Browser) Open(ctx context.Context, url string) error {
	p := b.page.Context(ctx).Timeout(b.pageTimeout)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for page load: %w", err)
	}
	return nil
}

func (b *Browser) Load(ctx context.Context, url string) (string, error) {
	if err := b.Open(ctx, url); err != nil {
		return "", err
	}

	// Let scripts finish filling in results before reading the DOM.
	wait := b.page.Context(ctx).Timeout(b.pageTimeout).WaitRequestIdle(
		500*time.Millisecond, nil, nil,
		[]proto.NetworkResourceType{proto.NetworkResourceTypeImage, proto.NetworkResourceTypeMedia},
	)
	wait()

	html, err := b.page.Context(ctx).Timeout(10 * time.Second).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

func (b *Browser) WaitAttribute(ctx context.Context, selector, attr string, wait time.Duration) (string, error) {
	el, err := b.page.Context(ctx).Timeout(wait).Element(selector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrWaitTimeout
		}
		return "", fmt.Errorf("failed to find %q: %w", selector, err)
	}
	v, err := el.Attribute(attr)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", attr, err)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// Close closes the browser and kills the launched process.
func (b *Browser) Close() error {
	if b.page != nil {
		_ = b.page.Close()
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return nil
}

func pageTimeout(cfg Config) time.Duration {
	if cfg.PageTimeout > 0 {
		return cfg.PageTimeout
	}
	return 30 * time.Second
}
