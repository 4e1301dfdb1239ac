package services

import "fmt"

// ExtractionError means a PDF could not be read. No partial text is returned.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from PDF: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// InvalidURLError is returned for URLs that are not YouTube URLs at all.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid YouTube URL: %q", e.URL)
}

// ResolutionError is returned when a YouTube URL carries no recognizable video id.
type ResolutionError struct {
	URL string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not extract video ID from URL: %q", e.URL)
}

// GenerationError wraps a failed or empty language model call.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnavailableError struct{ Message string }

func (e *UnavailableError) Error() string { return e.Message }
