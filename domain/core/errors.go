package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Lookup errors
	ErrDataUnavailable = errors.New("salary data unavailable")
	ErrRecordNotFound  = errors.New("employee record not found")
	ErrEmptyID         = errors.New("employee id is empty")

	// Rendering errors
	ErrMissingFont = errors.New("font resource missing")

	// Update errors
	ErrUploadFailure     = errors.New("dataset upload failed")
	ErrInvalidCredential = errors.New("invalid credential")

	// Remote store errors
	ErrBlobNotFound      = errors.New("remote object not found")
	ErrRevisionConflict  = errors.New("remote revision conflict")
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

// Error constructors with context
func NewDataUnavailableError(source string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDataUnavailable, source)
	}
	return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, source, err)
}

func NewRecordNotFoundError(id string) error {
	return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

func NewMissingFontError(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMissingFont, path, err)
}

func NewUploadError(stage string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUploadFailure, stage, err)
}

func NewBlobNotFoundError(key string) error {
	return fmt.Errorf("%w: %s", ErrBlobNotFound, key)
}

// Error checking helpers
func IsBlobNotFound(err error) bool {
	return errors.Is(err, ErrBlobNotFound)
}

func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}

func IsMissingFont(err error) bool {
	return errors.Is(err, ErrMissingFont)
}

func IsUploadFailure(err error) bool {
	return errors.Is(err, ErrUploadFailure)
}

func IsInvalidCredential(err error) bool {
	return errors.Is(err, ErrInvalidCredential)
}
