// Package corpus loads the local verse-keyed dataset and indexes it by book and chapter.
package corpus

import "fmt"

// LoadError represents a failure to fetch or decode the corpus data.
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corpus load error (%s): %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("corpus load error (%s): %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
