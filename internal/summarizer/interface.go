package summarizer

import (
	"context"
	"fmt"
)

// Summarizer sends a transcript to the language model and returns the
// raw response text. Parsing the response is the caller's concern.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// SummarizationError wraps a failure of the underlying model service,
// so callers can tell "service failed" apart from "service answered
// but the answer was unparseable".
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarize: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}
