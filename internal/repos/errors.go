package repos

import (
	"context"
	"errors"
	"fmt"
	"net"

	"gorm.io/gorm"
)

// Storage failure taxonomy. A failed write is always surfaced as one of
// these; the repo layer never reports a failed write as success.
var (
	// ErrMissingRequiredField means the row could not be written because a
	// NOT NULL column had no value and none could be derived.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrConstraintViolation means the store rejected the write (unique or
	// NOT NULL constraint). The offending column is carried by FieldError.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrUnavailable means the store could not be reached; callers may retry
	// with backoff.
	ErrUnavailable = errors.New("storage unavailable")
)

// FieldError names the column behind a missing-field or constraint failure.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error { return e.Err }

func missingField(field string) error {
	return &FieldError{Field: field, Err: ErrMissingRequiredField}
}

func constraintViolation(field string) error {
	return &FieldError{Field: field, Err: ErrConstraintViolation}
}

// mapStorageError classifies a gorm error. conflictField names the column a
// duplicate-key failure would be attributed to.
func mapStorageError(err error, conflictField string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraintViolation(conflictField)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gorm.ErrInvalidDB) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
