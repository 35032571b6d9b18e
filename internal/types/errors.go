package types

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update or status change targets an id
// that does not exist. It is distinct from constraint violations, which
// come back from the storage layer wrapped but otherwise verbatim.
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed or out-of-range input field, caught
// before the write reaches the store.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Msg)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
