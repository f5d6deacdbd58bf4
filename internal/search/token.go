package search

import (
	"sync"
	"sync/atomic"
)

// Token is the cancellation flag of a single Request. It is set at most
// once and never reused.
type Token struct {
	searchID string
	set      atomic.Bool
	once     sync.Once
	done     chan struct{}
}

func NewToken(searchID string) *Token {
	return &Token{searchID: searchID, done: make(chan struct{})}
}

// Cancel sets the flag. Extra calls do nothing.
func (t *Token) Cancel() {
	t.once.Do(func() {
		t.set.Store(true)
		close(t.done)
	})
}

func (t *Token) Cancelled() bool { return t.set.Load() }

// Done is closed once Cancel has been called.
func (t *Token) Done() <-chan struct{} { return t.done }

func (t *Token) SearchID() string { return t.searchID }
