package api

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError means no usable envelope came back: the request could not be
// sent, the connection failed, or the body was not a decodable envelope.
type TransportError struct {
	Op     string
	Status int // zero when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected response (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AppError is a `success=false` envelope.
type AppError struct {
	Op      string
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// IsNotFound reports whether err is an application error with status 404.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Status == http.StatusNotFound
}

// UserMessage returns the text a user should see for err: the server's own
// message for application errors, the underlying cause for transport errors.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Status != 0 {
			return fmt.Sprintf("unexpected response (status %d)", transportErr.Status)
		}
		return transportErr.Err.Error()
	}
	return err.Error()
}
