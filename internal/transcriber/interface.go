package transcriber

import (
	"context"
	"fmt"
)

// Transcriber defines the interface for speech-to-text conversion
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// TranscriptionError reports a failed transcription attempt for one
// audio file.
type TranscriptionError struct {
	Path string
	Err  error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.Path, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}
