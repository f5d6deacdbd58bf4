package display

import "lps/internal/scraper"

// Renderer matches search.Renderer.
type Renderer interface {
	Reset()
	Render(l scraper.Listing)
	Failed(searchID string, err error)
	Complete(searchID string, count int)
}

// Multi fans every call out to each renderer in order.
type Multi []Renderer

func (m Multi) Reset() {
	for _, r := range m {
		r.Reset()
	}
}

func (m Multi) Render(l scraper.Listing) {
	for _, r := range m {
		r.Render(l)
	}
}

func (m Multi) Failed(searchID string, err error) {
	for _, r := range m {
		r.Failed(searchID, err)
	}
}

func (m Multi) Complete(searchID string, count int) {
	for _, r := range m {
		r.Complete(searchID, count)
	}
}
