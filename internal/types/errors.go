package types

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for configuration and extraction failures.
var (
	ErrInvalidURL      = errors.New("invalid URL")
	ErrUnknownSite     = errors.New("unknown site")
	ErrUnknownCategory = errors.New("unknown category")
	ErrMissingName     = errors.New("listing has no name")
)

// FetchError wraps failures from the page fetcher. Exactly one of the
// following holds: StatusCode > 0 (non-2xx response), the wrapped error is a
// timeout, or the wrapped error is a transport failure.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a request timeout.
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// ExtractError wraps markup-level failures from the listing extractor.
// Per-element problems are not errors; they are reported as skips.
type ExtractError struct {
	Site string
	URL  string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s (%s): %v", e.URL, e.Site, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// MergeError wraps a failed merge-batch commit. The batch is rolled back as
// a whole; callers must not treat it as a zero-count success.
type MergeError struct {
	Backend string
	Err     error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge commit (%s): %v", e.Backend, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }
