package matching

import (
	"errors"
	"fmt"
)

// CriteriaError reports malformed filter input. Caller error: surfaced
// immediately, never retried automatically.
type CriteriaError struct {
	Field   string
	Message string
}

func (e *CriteriaError) Error() string {
	return fmt.Sprintf("invalid criteria: %s: %s", e.Field, e.Message)
}

func newCriteriaError(field, msg string) error {
	return &CriteriaError{Field: field, Message: msg}
}

// IsInvalidCriteria reports whether err is a criteria validation failure.
func IsInvalidCriteria(err error) bool {
	var ce *CriteriaError
	return errors.As(err, &ce)
}
