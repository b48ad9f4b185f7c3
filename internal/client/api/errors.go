package api

import (
	"fmt"
	"net/http"
)

// ValidationError reports a missing required field caught before any
// request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func required(field, value string) error {
	if trimmed(value) == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// RequestError is a transport failure or a non-2xx response. Invalid
// credentials arrive as a RequestError like any other status.
type RequestError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.Path, e.Err)
	}
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: %s %s: %d %s", e.Op, e.Method, e.Path, e.StatusCode, msg)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the server answered 401.
func (e *RequestError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}
