package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"lps/internal/scraper"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// ListingContent holds the listings of one search and implements
// scraper.Content.
type ListingContent struct {
	query    string
	listings []scraper.Listing
}

func NewListingContent(query string, listings []scraper.Listing) *ListingContent {
	return &ListingContent{query: query, listings: listings}
}

func (c *ListingContent) ToText() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Search: %s\n\n", c.query))
	for i, l := range c.listings {
		sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n   From: %s\n   %s\n", i+1, l.Title, l.Price, l.SourceDomain(), l.Link))
		if l.HasImage() {
			sb.WriteString("   Image: " + l.Image + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (c *ListingContent) ToHTML() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>Search: %s</h1>\n<ol>\n", html.EscapeString(c.query)))
	for _, l := range c.listings {
		sb.WriteString("  <li>")
		if l.HasImage() {
			sb.WriteString(fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(l.Image), html.EscapeString(l.Title)))
		}
		sb.WriteString(fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(l.Link), html.EscapeString(l.Title)))
		sb.WriteString(fmt.Sprintf("<p>%s, from %s</p>", html.EscapeString(l.Price), html.EscapeString(l.SourceDomain())))
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</ol>\n")
	return sb.String(), nil
}

// ToMarkdown converts the HTML rendering, so both formats list the same
// fields.
func (c *ListingContent) ToMarkdown() (string, error) {
	h, err := c.ToHTML()
	if err != nil {
		return "", err
	}
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(h)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return out, nil
}

func (c *ListingContent) ToJSON() ([]byte, error) {
	type jsonResult struct {
		Query    string            `json:"query"`
		Count    int               `json:"count"`
		Listings []scraper.Listing `json:"listings"`
	}
	listings := c.listings
	if listings == nil {
		listings = []scraper.Listing{}
	}
	return json.Marshal(jsonResult{Query: c.query, Count: len(listings), Listings: listings})
}

func (c *ListingContent) ToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Source", "Title", "Price", "Image", "Link"})
	for _, l := range c.listings {
		_ = w.Write([]string{l.Source, l.Title, l.Price, l.Image, l.Link})
	}
	w.Flush()
	return buf.String(), w.Error()
}
