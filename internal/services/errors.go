package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a search or lookup legitimately yielded nothing.
	// Callers surface it as an empty-result message, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrSelectionCanceled means the user aborted a card or variant pick.
	// It silently ends the workflow; nothing is persisted and no error is
	// shown.
	ErrSelectionCanceled = errors.New("selection canceled")

	// ErrInvalidInput means bad or missing input that the caller should fix
	// before retrying.
	ErrInvalidInput = errors.New("invalid input")
)

// UpstreamError wraps a failed call to an external API. Upstream failures
// are reported once and never retried automatically.
type UpstreamError struct {
	API string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.API, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(api string, err error) error {
	return &UpstreamError{API: api, Err: err}
}

// IsUpstream reports whether err came from an external API call.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
