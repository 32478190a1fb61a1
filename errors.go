package gridcache

import (
	"fmt"
)

// InvalidateError reports a failed invalidation. The remote destroy is the
// authoritative part; LocalErr is carried for completeness and may be nil.
type InvalidateError struct {
	Key       string
	LocalErr  error
	RemoteErr error
}

func (e *InvalidateError) Error() string {
	if e.LocalErr != nil {
		return fmt.Sprintf("invalidate %q failed: remote=%v; local=%v", e.Key, e.RemoteErr, e.LocalErr)
	}
	return fmt.Sprintf("invalidate %q: remote destroy failed: %v", e.Key, e.RemoteErr)
}

func (e *InvalidateError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.RemoteErr != nil {
		errs = append(errs, e.RemoteErr)
	}
	if e.LocalErr != nil {
		errs = append(errs, e.LocalErr)
	}
	return errs
}
