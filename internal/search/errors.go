package search

import (
	"errors"
	"fmt"
)

var (
	// ErrPageFetch is matched by every PageFetchError.
	ErrPageFetch = errors.New("failed to fetch search results")

	// errCancelled ends a search whose token was set. It is a normal exit,
	// never reported to the user.
	errCancelled = errors.New("search cancelled")
)

// PageFetchError is a failure to load or read the results page itself.
type PageFetchError struct {
	URL string
	Err error
}

func (e *PageFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *PageFetchError) Unwrap() error { return e.Err }

func (e *PageFetchError) Is(target error) bool { return target == ErrPageFetch }
