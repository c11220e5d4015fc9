package esv

import "fmt"

// FetchError is returned when the remote passage endpoint could not be
// reached, answered with a non-success status, or returned an unusable body.
// StatusCode is 0 when no response was received.
type FetchError struct {
	Query      string
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("passage fetch failed for %q: %s", e.Query, e.Message)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
