package api

import (
	"errors"
)

// Fallback messages used when the response does not carry its own.
const (
	msgRequestFailed    = "request failed"
	msgNetworkError     = "network error"
	msgInvalidResponse  = "invalid response format"
	msgNotAuthenticated = "user not authenticated"
)

// ErrNotAuthenticated is returned by library calls made without a session token.
var ErrNotAuthenticated = errors.New(msgNotAuthenticated)

// ErrInvalidResponse indicates a 2xx response whose body had an unexpected shape.
var ErrInvalidResponse = errors.New(msgInvalidResponse)

// ErrorKind classifies a failed call.
type ErrorKind string

const (
	KindNetwork         ErrorKind = "network"         // transport failure or unreadable body
	KindStatus          ErrorKind = "status"          // non-2xx status code
	KindMalformed       ErrorKind = "malformed"       // body parsed but shape was wrong
	KindUnauthenticated ErrorKind = "unauthenticated" // no token available
)

// Error is the single error type returned by the client. Message is the
// human-readable text shown to users.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotAuthenticated builds the error used when a token is required but absent.
func NotAuthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: msgNotAuthenticated, Err: ErrNotAuthenticated}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// KindOf returns the kind carried by err, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
