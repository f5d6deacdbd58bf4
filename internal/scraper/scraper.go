package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ImageUnavailable stands in for Listing.Image when no image URL was found.
// Renderers show a placeholder for it and never fetch it.
const ImageUnavailable = "Image Not Available"

// Listing is one scraped item as delivered to the rendering layer.
type Listing struct {
	SearchID string `json:"-"`
	Source   string `json:"source"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Link     string `json:"link"`
}

// HasImage reports whether Image is a real URL rather than the marker.
func (l Listing) HasImage() bool {
	return l.Image != "" && l.Image != ImageUnavailable
}

// SourceDomain renders Source as a marketplace domain, e.g. "Ebay.com".
func (l Listing) SourceDomain() string {
	if l.Source == "" {
		return ""
	}
	s := strings.ToLower(l.Source)
	return strings.ToUpper(s[:1]) + s[1:] + ".com"
}

// Candidate is an item parsed from a results page before its image is
// resolved.
type Candidate struct {
	Title string
	Price string
	Link  string
}

// Site knows the URL scheme and markup of one marketplace.
type Site interface {
	Name() string

	// SearchURL builds the results URL for an already normalized query.
	SearchURL(query string) string

	// ItemSelector matches one node per result on the results page.
	ItemSelector() string

	// ParseItem reads a Candidate out of one result node.
	ParseItem(item *goquery.Selection) (Candidate, error)

	// IsPlaceholder reports rows that are site furniture, not listings.
	IsPlaceholder(title string) bool

	// ZoomImage names the element and attribute holding a high resolution
	// image on a listing page.
	ZoomImage() (selector, attr string)
}

// Content is a set of listings that can be exported in several formats.
type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}
