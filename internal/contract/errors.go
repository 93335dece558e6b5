package contract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRef is returned for a git reference that git would read as an option.
var ErrInvalidRef = errors.New("invalid git reference")

// ValidateRef rejects references that begin with a dash.
func ValidateRef(ref string) error {
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("%w: %q must not begin with '-'", ErrInvalidRef, ref)
	}
	return nil
}

// UpstreamError reports a failure of the version control layer, such as a
// path that is not a repository or a corrupted object. It is never retried.
type UpstreamError struct {
	Op  string // The git operation that failed
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
