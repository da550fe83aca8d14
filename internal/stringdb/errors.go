package stringdb

import "fmt"

// UpstreamError is returned when the interaction database cannot be reached,
// times out, or answers with a non-success status. Callers treat it as a
// query with zero interactions.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("STRING API error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("Network error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
