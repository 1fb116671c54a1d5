// Package common defines sentinel errors shared across the PropKeeper client
// layers. Callers should use errors.Is to match these values; concrete errors
// may wrap a sentinel together with a diagnostic message.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Transport-derived errors.
	ErrNetwork            = errors.New("network unreachable")
	ErrServer             = errors.New("server rejected request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknown            = errors.New("unknown error")

	// Client-side validation. Never sent to the network.
	ErrInvalidData = errors.New("invalid data")

	// Bridging errors (an awaited callback or lookup took too long).
	ErrTimeout = errors.New("timed out")

	// Capability errors.
	ErrPermissionDenied = errors.New("permission denied")
	ErrSettingsRequired = errors.New("permission denied permanently, settings navigation required")
)
