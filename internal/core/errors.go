package core

import "errors"

// ValidationError marks malformed input caught before any aggregation or
// write proceeds: unknown frequency, non-positive amount, type/category
// mismatch, missing required fields. It is never coerced or defaulted away.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// IntegrityViolation marks an operation that would break an invariant:
// editing or deleting a default category, deleting a category still
// referenced, duplicating a custom category name+type for a user. The
// operation is rejected whole; nothing is partially applied.
type IntegrityViolation struct {
	Reason string
}

func (e *IntegrityViolation) Error() string {
	return e.Reason
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsIntegrity reports whether err is (or wraps) an IntegrityViolation.
func IsIntegrity(err error) bool {
	var iv *IntegrityViolation
	return errors.As(err, &iv)
}

// ErrNotFound is returned by the store when a row does not exist or does not
// belong to the requesting user.
var ErrNotFound = errors.New("not found")
