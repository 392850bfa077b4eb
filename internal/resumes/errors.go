package resumes

import "errors"

var (
	// ErrMissingField indicates a required scalar field was absent or blank.
	ErrMissingField = errors.New("missing field")

	// ErrMalformedWorkHistory indicates workHistory is not a JSON array of {company, position} objects.
	ErrMalformedWorkHistory = errors.New("malformed work history")

	// ErrDuplicateID indicates a record with the same id is already stored.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrNotFound indicates an entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInternal wraps failures that are not the caller's fault and not the generator's.
	ErrInternal = errors.New("internal error")
)

// MissingFieldError names the first required field that was missing.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string { return "missing field: " + e.Field }

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }
