package pipeline

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/audio-sentinel/internal/store"
)

// Pipeline turns uploaded audio recordings into persisted summary records
type Pipeline interface {
	Ingest(ctx context.Context, files []File, opts Options) (*Result, error)
	Progress() *Progress
}

// File is one uploaded recording.
type File struct {
	Name string
	Data []byte
}

// Options apply to a whole ingestion call. Latitude/Longitude, when both
// set, override Location.
type Options struct {
	Location   string
	CaseNumber *int
	Latitude   *float64
	Longitude  *float64
}

// FileFailure records why a single file produced no record.
type FileFailure struct {
	Filename string
	Err      error
}

// Result is a partial-success report: files that made it through and
// files that failed, in upload order.
type Result struct {
	SavedFiles []string
	Records    []store.SummaryRecord
	Failures   []FileFailure
}

// ValidationError reports malformed ingestion input, raised before any
// file is processed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate ingestion input: %s", e.Msg)
}
