package service

import (
	"errors"
	"fmt"
)

// FailureMessage is the only text shown to users when a generation fails.
const FailureMessage = "Failed to generate the report. Please try again."

var (
	ErrGenerationInFlight = errors.New("a report generation is already in progress")
	ErrHistoryNotFound    = errors.New("history entry not found")
)

// GenerationError wraps a transport or service failure of the AI backend.
type GenerationError struct {
	Provider string
	Cause    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: generate report: %v", e.Provider, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// MalformedResponseError means the backend answered but the text is not a report.
type MalformedResponseError struct {
	Raw   string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed report response: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }
