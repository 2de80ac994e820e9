package service

import "errors"

// Service error sentinels. The API layer maps ErrInvalidInput to a 400
// response and everything else to a generic 500.
var (
	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = errors.New("photofind: client is closed")

	// ErrInvalidInput indicates the caller supplied an unusable request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDependencyUnavailable indicates the embedding provider or storage
	// failed. Detail stays in the wrapped cause and is logged, never
	// surfaced to callers.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
