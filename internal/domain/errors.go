package domain

import (
	"errors"
	"fmt"
)

// ErrNoProvidersAvailable indicates the routing table resolved to an empty
// candidate list; the request fails before any adapter is invoked.
var ErrNoProvidersAvailable = errors.New("no providers available")

// ProviderError wraps any transport, auth, quota, or timeout failure from
// a single provider adapter. The fallback loop recovers from it locally by
// advancing to the next candidate.
type ProviderError struct {
	ProviderID string
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.ProviderID, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError constructs a ProviderError for the given adapter.
func NewProviderError(providerID string, err error) *ProviderError {
	return &ProviderError{ProviderID: providerID, Err: err}
}

// AllProvidersFailedError indicates every candidate in the resolved list
// was tried and failed. It carries the last candidate's error for
// diagnostics.
type AllProvidersFailedError struct {
	Attempts int
	LastErr  error
}

func (e *AllProvidersFailedError) Error() string {
	return fmt.Sprintf("all providers failed after %d attempts, last error: %v", e.Attempts, e.LastErr)
}

func (e *AllProvidersFailedError) Unwrap() error {
	return e.LastErr
}
