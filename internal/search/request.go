package search

import (
	"strings"
	"time"
	"unicode"

	"lps/internal/browser"

	"github.com/google/uuid"
)

// DefaultPrefix namespaces bare numeric queries.
const DefaultPrefix = "LPS"

// Normalize trims query and rewrites integer input to "<prefix> <n>",
// keeping the digits as typed.
func Normalize(query, prefix string) string {
	q := strings.TrimSpace(query)
	if prefix != "" && isInteger(q) {
		return prefix + " " + q
	}
	return q
}

// isInteger accepts an optional sign followed by decimal digits of any
// script, with single underscores allowed between digits.
func isInteger(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	prevDigit := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			prevDigit = true
		case r == '_' && prevDigit:
			prevDigit = false
		default:
			return false
		}
	}
	return prevDigit
}

// Request is one submitted search. A new submit supersedes it; it is never
// mutated.
type Request struct {
	ID        string
	Query     string
	Kind      browser.Kind
	Submitted time.Time
}

func NewRequest(query string, kind browser.Kind) Request {
	return Request{
		ID:        uuid.NewString(),
		Query:     query,
		Kind:      kind,
		Submitted: time.Now(),
	}
}
