// ABOUTME: Upstream error type for People API and transport failures
// ABOUTME: Wraps the original error so googleapi.Error stays reachable
package contacts

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ErrUpstream matches every UpstreamError via errors.Is.
var ErrUpstream = errors.New("upstream contacts API failure")

// UpstreamError is a failed People API call.
type UpstreamError struct {
	Op  string
	Err error
}

func upstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to %s contact(s): %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// StatusCode returns the HTTP status reported by Google, or 0 for transport
// failures.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
