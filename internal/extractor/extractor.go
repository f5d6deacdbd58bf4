package extractor

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lps/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

// ErrItem is matched by every ItemError.
var ErrItem = errors.New("extraction item error")

// ItemError describes one result node that could not be turned into a
// Candidate. It never aborts extraction of the remaining nodes.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

func (e *ItemError) Is(target error) bool { return target == ErrItem }

// Parse reads a rendered page into a queryable document.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}

// Extract returns the candidates of doc in page order. Items that fail to
// parse are logged and skipped; placeholder rows are dropped silently.
func Extract(doc *goquery.Document, site scraper.Site, logger *slog.Logger) []scraper.Candidate {
	var (
		candidates []scraper.Candidate
		skipped    int
	)
	doc.Find(site.ItemSelector()).Each(func(i int, item *goquery.Selection) {
		c, err := parseItem(site, item)
		if site.IsPlaceholder(c.Title) {
			return
		}
		if err != nil {
			skipped++
			logger.Warn("skipping listing",
				slog.String("site", site.Name()),
				slog.String("error", (&ItemError{Index: i, Err: err}).Error()))
			return
		}
		candidates = append(candidates, c)
	})

	logger.Debug("extracted candidates",
		slog.String("site", site.Name()),
		slog.Int("count", len(candidates)),
		slog.Int("skipped", skipped))
	return candidates
}

// parseItem runs the site parser with panics turned into errors. The
// returned Candidate may be partially filled when err is non-nil.
func parseItem(site scraper.Site, item *goquery.Selection) (c scraper.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	c, err = site.ParseItem(item)
	if err != nil {
		return c, err
	}
	if c.Title == "" {
		return c, errors.New("missing title")
	}
	if c.Link == "" {
		return c, errors.New("missing link")
	}
	return c, nil
}
