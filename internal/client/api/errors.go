package api

import "errors"

var (
	// ErrUnavailable means the backend could not be reached at all.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized means the backend rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServer means the backend rejected the request; the wrapping error
	// carries the backend's message when one was returned.
	ErrServer = errors.New("server error")
)
