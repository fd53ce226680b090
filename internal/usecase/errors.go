package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
	ErrUnauthorized          = crerr.New("unauthorized")
	// ErrTransport covers network, DNS, timeout and non-2xx failures.
	ErrTransport = crerr.New("prediction service transport failure")
	// ErrShape marks a response that parsed but had the wrong structure.
	ErrShape = crerr.New("prediction service response has unexpected shape")
)

// IsRecoverable reports whether err belongs to the upstream failure
// taxonomy that callers degrade from instead of surfacing.
func IsRecoverable(err error) bool {
	return crerr.Is(err, ErrTransport) ||
		crerr.Is(err, ErrShape) ||
		crerr.Is(err, ErrNotFound) ||
		crerr.Is(err, ErrDependencyUnavailable)
}
