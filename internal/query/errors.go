package query

import (
	"errors"

	"github.com/salesapi/accounts/internal/repository"
)

var (
	// ErrAccountNotFound is returned when the requested account does not exist.
	ErrAccountNotFound = repository.ErrAccountNotFound
	// ErrInternalFailure hides storage errors from callers. The cause is logged.
	ErrInternalFailure = errors.New("internal failure")
)

// ValidationError reports caller input that cannot be served.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
