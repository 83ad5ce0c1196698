package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrUpstreamUnavailable = errors.New("gateway: upstream unavailable")
	ErrInvalidBackendURL   = errors.New("gateway: invalid backend url")
	ErrBodyTooLarge        = errors.New("gateway: body too large")
)

// UpstreamError wraps a failed round trip to the panel backend.
type UpstreamError struct {
	Path string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gateway: upstream %s: %v", e.Path, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamUnavailable, e.Err}
}
