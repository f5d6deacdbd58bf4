package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// FirefoxBrowser drives headless Firefox through playwright.
type FirefoxBrowser struct {
	pw          *playwright.Playwright
	browser     playwright.Browser
	page        playwright.Page
	pageTimeout time.Duration
}

// NewFirefoxBrowser installs the playwright driver and firefox build if
// needed, then launches it.
func NewFirefoxBrowser(ctx context.Context, cfg Config) (*FirefoxBrowser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runOpts := &playwright.RunOptions{Browsers: []string{"firefox"}, Verbose: false}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("install firefox driver: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = pw.Stop()
		return nil, err
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(cfg.Headless)}
	if cfg.ProxyURL != "" {
		launchOpts.Proxy = &playwright.Proxy{Server: cfg.ProxyURL}
	}
	b, err := pw.Firefox.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch firefox: %w", err)
	}

	pageOpts := playwright.BrowserNewPageOptions{}
	if cfg.UserAgent != "" {
		pageOpts.UserAgent = playwright.String(cfg.UserAgent)
	}
	page, err := b.NewPage(pageOpts)
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &FirefoxBrowser{
		pw:          pw,
		browser:     b,
		page:        page,
		pageTimeout: pageTimeout(cfg),
	}, nil
}

func (f *FirefoxBrowser) Kind() Kind { return Firefox }

func (f *FirefoxBrowser) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := f.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(f.pageTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	return nil
}

func (f *FirefoxBrowser) Load(ctx context.Context, url string) (string, error) {
	if err := f.Open(ctx, url); err != nil {
		return "", err
	}
	html, err := f.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

func (f *FirefoxBrowser) WaitAttribute(ctx context.Context, selector, attr string, wait time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := f.page.Locator(selector).First().GetAttribute(attr, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(float64(wait.Milliseconds())),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return "", ErrWaitTimeout
		}
		return "", fmt.Errorf("failed to read %s of %q: %w", attr, selector, err)
	}
	return v, nil
}

func (f *FirefoxBrowser) Close() error {
	var errs []error
	if f.browser != nil {
		errs = append(errs, f.browser.Close())
	}
	if f.pw != nil {
		errs = append(errs, f.pw.Stop())
	}
	return errors.Join(errs...)
}
