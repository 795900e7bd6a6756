package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers unknown locations, unknown recommendation ids and
	// the case where no playlist candidate is left to show.
	ErrNotFound = errors.New("domain: not found")

	// ErrUpstreamUnavailable indicates the weather or catalog provider could
	// not be reached or answered with a non-2xx status. Retryable.
	ErrUpstreamUnavailable = errors.New("domain: upstream unavailable")

	// ErrConfigurationMissing indicates a required credential is absent.
	ErrConfigurationMissing = errors.New("domain: configuration missing")
)

// UpstreamError provides context for a failed provider call.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, ErrUpstreamUnavailable.Error())
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
