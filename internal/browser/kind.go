package browser

import (
	"fmt"
	"strings"
)

// Kind identifies which browser engine drives a Session.
type Kind string

const (
	Chrome  Kind = "chrome"
	Firefox Kind = "firefox"
)

func (k Kind) String() string { return string(k) }

// ParseKind accepts "chrome" or "firefox" in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Chrome:
		return Chrome, nil
	case Firefox:
		return Firefox, nil
	default:
		return "", fmt.Errorf("unknown browser %q (want chrome or firefox)", s)
	}
}

// DefaultKind picks the browser for an operating system as reported by
// runtime.GOOS. Other systems must name a browser explicitly.
func DefaultKind(goos string) (Kind, error) {
	switch goos {
	case "linux":
		return Firefox, nil
	case "windows":
		return Chrome, nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s (pass --browser)", goos)
	}
}
