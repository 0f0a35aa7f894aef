package domain

import "fmt"

// ValidationError reports malformed caller input. It is never retried and is
// surfaced to the caller immediately.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UpstreamError reports a provider HTTP call that failed after exhausting
// retries, or an unparseable payload shape. It always carries the provider
// identity; Status is zero when no HTTP response was received.
type UpstreamError struct {
	Provider string
	URL      string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: upstream request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// CacheError reports a cache backend operation failure. Callers at the cache
// boundary swallow it and degrade to a miss; it never reaches serving code.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
