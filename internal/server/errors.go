package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/lifeofword/internal/corpus"
	"github.com/jonathan/lifeofword/internal/plan"
	"github.com/jonathan/lifeofword/internal/reader"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrCorpusUnavailable indicates the server was started without a corpus source
type ErrCorpusUnavailable struct{}

func (e *ErrCorpusUnavailable) Error() string {
	return "local corpus not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation    *ErrValidation
		unknownBook   *plan.UnknownBookError
		notIndexed    *plan.BookNotIndexedError
		invalidRef    *plan.InvalidReferenceError
		noVerses      *plan.NoVersesFoundError
		segmentRange  *reader.SegmentRangeError
		corpusLoad    *corpus.LoadError
		noCorpusSetup *ErrCorpusUnavailable
	)

	switch {
	case errors.As(err, &validation),
		errors.As(err, &unknownBook),
		errors.As(err, &notIndexed),
		errors.As(err, &invalidRef),
		errors.As(err, &noVerses),
		errors.As(err, &segmentRange):
		return http.StatusBadRequest
	case errors.As(err, &corpusLoad), errors.As(err, &noCorpusSetup):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
