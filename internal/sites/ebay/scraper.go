package ebay

import (
	"errors"
	"net/url"
	"strings"

	"lps/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

// Name is the source tag carried by every eBay listing.
const Name = "eBay"

// placeholderTitle heads the promotional row eBay puts above real results.
const placeholderTitle = "Shop on eBay"

func init() {
	scraper.Register(&Site{})
}

// Site scrapes www.ebay.com search results.
type Site struct{}

func (s *Site) Name() string { return Name }

func (s *Site) SearchURL(query string) string {
	return "https://www.ebay.com/sch/i.html?_from=R40&_nkw=" + escape(query) + "&_sacat=0"
}

// escape percent-encodes q, spaces included.
func escape(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}

func (s *Site) ItemSelector() string { return "li.s-item" }

func (s *Site) ParseItem(item *goquery.Selection) (scraper.Candidate, error) {
	var c scraper.Candidate

	heading := item.Find(`span[role="heading"]`).First()
	if heading.Length() == 0 {
		return c, errors.New("missing title")
	}
	c.Title = strings.TrimSpace(heading.Text())

	price := item.Find("span.s-item__price").First()
	if price.Length() == 0 {
		return c, errors.New("missing price")
	}
	c.Price = strings.TrimSpace(price.Text())

	href, ok := item.Find("a.s-item__link").First().Attr("href")
	if !ok {
		return c, errors.New("missing link")
	}
	c.Link = strings.TrimSpace(href)

	return c, nil
}

func (s *Site) IsPlaceholder(title string) bool {
	return strings.TrimSpace(title) == placeholderTitle
}

func (s *Site) ZoomImage() (selector, attr string) {
	return "img[data-zoom-src]", "data-zoom-src"
}
