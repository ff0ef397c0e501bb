package errors

import (
	"errors"
	"net/http"
)

// Sentinel errors shared by the services. Transports map them to HTTP status codes.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknown         = errors.New("unknown")
	ErrNotFound        = errors.New("not found")

	// ErrNoRoutes is returned when not even a locally approximated route could be built.
	ErrNoRoutes = errors.New("no routes available")
)

// StatusCode maps an error wrapping one of the sentinels above to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknown):
		return http.StatusNotFound
	case errors.Is(err, ErrNoRoutes):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
