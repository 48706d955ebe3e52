package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks well-formed lookups with no answer, e.g. a weather
// query whose day series has no complete sample. Distinct from validation
// and upstream failures so callers can map it without string matching.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed caller input, rejected before any
// computation or remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UpstreamError reports a failed remote fetch (feed, region reference, or
// weather archive). Upstream failures are surfaced as-is and never retried.
type UpstreamError struct {
	Source string // "firms", "naturalearth", "open-meteo"
	Status int    // HTTP status when available, 0 otherwise
	Detail string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s upstream error: status %d: %s", e.Source, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s upstream error: %s", e.Source, e.Detail)
}
