// Package transcriber turns recorded testimonial videos into text.
package transcriber

import (
	"context"
	"io"
)

// Result is the outcome of a transcription.
type Result struct {
	Text            string
	Language        string
	DurationSeconds *int
}

// Transcriber converts a video stream to text.
type Transcriber interface {
	Transcribe(ctx context.Context, video io.Reader, contentType string) (Result, error)
}

// Noop is used when no transcription backend is configured. It returns an
// empty transcript so processing still completes.
type Noop struct{}

func (Noop) Transcribe(_ context.Context, video io.Reader, _ string) (Result, error) {
	_, err := io.Copy(io.Discard, video)
	return Result{}, err
}
