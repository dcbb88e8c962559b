// Package errors provides sentinel and typed errors for the htpack pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Archive errors
var (
	// ErrCorruptArchive is returned when a submitted archive cannot be read as a zip file.
	ErrCorruptArchive = errors.New("archive is corrupt or not a zip file")

	// ErrEmptyOverrideTree is returned when the overrides directory contains no files.
	ErrEmptyOverrideTree = errors.New("overrides directory contains no files")
)

// Catalog errors
var (
	// ErrPatchNotFound is returned when no version record exists for a patch id.
	ErrPatchNotFound = errors.New("patch not found")

	// ErrVersionNotFound is returned when a version record has no entry for the requested version.
	ErrVersionNotFound = errors.New("patch version not found")

	// ErrDigestMismatch is returned when a stored digest does not match the file content.
	ErrDigestMismatch = errors.New("digest mismatch")
)

// ValidationError reports a missing or malformed submission field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: field %q %s", e.Field, e.Reason)
}

// NewValidation returns a ValidationError for the given field.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StructureError reports an archive whose root layout is not a single
// overrides directory.
type StructureError struct {
	Found []string
}

func (e *StructureError) Error() string {
	if len(e.Found) == 0 {
		return "archive contains no entries"
	}
	return fmt.Sprintf("archive root must be a single overrides directory, found: %s", strings.Join(e.Found, ", "))
}

// StateError reports a persisted state file that exists but cannot be parsed.
// Corrupt state is always surfaced, never silently replaced.
type StateError struct {
	Path string
	Err  error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("persisted state %s is corrupt: %v", e.Path, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
