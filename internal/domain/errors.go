package domain

import "errors"

// Domain errors (no external dependencies). Callers match with errors.Is and
// add context with fmt.Errorf("...: %w", err).
var (
	ErrNotFound      = errors.New("resource not found")
	ErrValidation    = errors.New("invalid input")
	ErrDuplicate     = errors.New("duplicate resource")
	ErrPermission    = errors.New("permission denied")
	ErrConflict      = errors.New("conflict with current state")
	ErrUpstream      = errors.New("upstream failure")
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already registered")
)

// IsDomain reports whether err wraps one of the sentinels above. Anything
// else is an infrastructure failure whose text is not fit for operators.
func IsDomain(err error) bool {
	for _, sentinel := range []error{
		ErrNotFound, ErrValidation, ErrDuplicate, ErrPermission,
		ErrConflict, ErrUpstream, ErrUserNotFound, ErrUsernameTaken,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
