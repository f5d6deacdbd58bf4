package browser

import (
	"errors"
	"fmt"
)

var (
	// ErrEnvironmentUnavailable is matched by errors.Is for every
	// EnvironmentError.
	ErrEnvironmentUnavailable = errors.New("browser environment unavailable")

	// ErrWaitTimeout is returned by Session.WaitAttribute when the element
	// did not show up within the wait budget.
	ErrWaitTimeout = errors.New("wait timed out")

	ErrPoolClosed = errors.New("session pool closed")
)

// EnvironmentError reports that a browser kind cannot be used on this host.
type EnvironmentError struct {
	Kind   Kind
	Reason string
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Kind, e.Reason)
}

func (e *EnvironmentError) Is(target error) bool {
	return target == ErrEnvironmentUnavailable
}
