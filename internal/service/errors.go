package service

import (
	"errors"
	"fmt"
)

var (
	ErrUserExists         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	// ErrNotFound is returned when a note or task is absent or not visible to the caller.
	ErrNotFound = errors.New("not found")

	ErrTranscriptionUnavailable = errors.New("failed to start transcription service")
	ErrTranscriptionFailed      = errors.New("transcription process failed")
	ErrTranscriptionTimeout     = errors.New("transcription timed out")
	ErrAudioUpload              = errors.New("failed to store audio")
	ErrSynthesisFailed          = errors.New("failed to synthesize speech")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}
