// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"errors"
	"fmt"
)

// ErrAuthentication indicates authentication failure.
var ErrAuthentication = errors.New("authentication failed")

// ServerError carries an HTTP status and a public message for an internal
// failure. The cause is logged but never written to the response body.
type ServerError struct {
	statusCode int
	message    string
	cause      error
}

// NewServerError creates a new ServerError.
func NewServerError(statusCode int, message string, cause error) *ServerError {
	return &ServerError{
		statusCode: statusCode,
		message:    message,
		cause:      cause,
	}
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("server error %d: %s: %v", e.statusCode, e.message, e.cause)
	}
	return fmt.Sprintf("server error %d: %s", e.statusCode, e.message)
}

// Unwrap returns the underlying cause.
func (e *ServerError) Unwrap() error {
	return e.cause
}

// StatusCode returns the HTTP status code.
func (e *ServerError) StatusCode() int {
	return e.statusCode
}

// Message returns the public error message.
func (e *ServerError) Message() string {
	return e.message
}
