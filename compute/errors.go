package compute

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrClosed = errors.New("compute module closed")

	// errTimeout is the cancel cause of the per-invocation timeout.
	errTimeout = errors.New("compute invocation timed out")
)

// ExitError reports a guest that exited with a non-zero status. Stderr holds
// whatever the guest wrote to its standard error before exiting.
type ExitError struct {
	Code   uint32
	Stderr string
}

func (e *ExitError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	return fmt.Sprintf("exit status %d", e.Code)
}
