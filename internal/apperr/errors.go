// Package apperr defines the sentinel errors shared across service layers.
package apperr

import "errors"

var (
	// ErrInvalidName means the note identifier was blank or unsanitizable.
	ErrInvalidName = errors.New("invalid note name")
	// ErrInvalidPath means the resolved file path escaped the storage root.
	ErrInvalidPath = errors.New("invalid file path")
	// ErrNotFound means the target note does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means create targeted a note that already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrTooLarge means the content would exceed the note size ceiling.
	ErrTooLarge = errors.New("content too large")
)
