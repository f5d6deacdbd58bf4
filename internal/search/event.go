package search

import "lps/internal/scraper"

type EventKind int

const (
	EventListing EventKind = iota
	EventError
	// EventEnd is the end-of-stream marker of a search that completed or
	// failed. Cancelled searches may end without it.
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventListing:
		return "listing"
	case EventError:
		return "error"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is what a Worker hands to the Consumer.
type Event struct {
	SearchID string
	Kind     EventKind
	Listing  scraper.Listing
	Err      error
}
