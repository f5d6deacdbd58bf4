package display

import (
	"lps/internal/formatter"
	"lps/internal/scraper"
)

// Collector keeps the listings of the current search for export.
type Collector struct {
	listings []scraper.Listing
	errs     []error
	complete bool
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Reset() {
	c.listings = nil
	c.errs = nil
	c.complete = false
}

func (c *Collector) Render(l scraper.Listing) { c.listings = append(c.listings, l) }

func (c *Collector) Failed(searchID string, err error) { c.errs = append(c.errs, err) }

func (c *Collector) Complete(searchID string, count int) { c.complete = true }

func (c *Collector) Listings() []scraper.Listing { return c.listings }

// Errors returns the failures reported for the current search.
func (c *Collector) Errors() []error { return c.errs }

// Completed reports whether the current search delivered its end marker.
func (c *Collector) Completed() bool { return c.complete }

// Content packages the collected listings for formatter.Format.
func (c *Collector) Content(query string) *formatter.ListingContent {
	return formatter.NewListingContent(query, c.listings)
}
