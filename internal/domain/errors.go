package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrExtractionMiss marks a field that could not be located in a markup fragment.
	ErrExtractionMiss = errors.New("extraction miss")
	// ErrDateParse marks a date string no known format could read.
	ErrDateParse = errors.New("date parse error")
	// ErrFetchFailure marks a navigation or markup retrieval failure.
	ErrFetchFailure = errors.New("fetch failure")
	// ErrDegenerateSummaryInput marks input with nothing to rank.
	ErrDegenerateSummaryInput = errors.New("degenerate summary input")

	ErrUnknownTopic       = errors.New("unknown topic")
	ErrUnknownAssetClass  = errors.New("unknown asset class")
	ErrLexiconUnavailable = errors.New("sentiment lexicon unavailable")
)

// ExtractionMissError reports which field was missing for which publisher.
type ExtractionMissError struct {
	Field     string
	Publisher string
}

func (e *ExtractionMissError) Error() string {
	return fmt.Sprintf("%s: %s not found", e.Publisher, e.Field)
}

func (e *ExtractionMissError) Unwrap() error { return ErrExtractionMiss }

// DateParseError carries the raw string every date stage rejected.
type DateParseError struct {
	Raw string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse date %q", e.Raw)
}

func (e *DateParseError) Unwrap() error { return ErrDateParse }

// FetchFailureError wraps the underlying navigation error for a URL.
type FetchFailureError struct {
	URL string
	Err error
}

func (e *FetchFailureError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s failed", e.URL)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Is lets errors.Is match both the sentinel and the wrapped cause.
func (e *FetchFailureError) Is(target error) bool { return target == ErrFetchFailure }

func (e *FetchFailureError) Unwrap() error { return e.Err }
