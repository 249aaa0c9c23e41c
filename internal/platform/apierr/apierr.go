package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error that knows how it should be rendered to an HTTP caller.
// Message is the short public summary; Err carries the cause and ends up in
// the "details" field of the response body.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" && e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Details returns the cause text, or "" when there is none.
func (e *Error) Details() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Wrap(status int, code, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "bad_request", Message: message}
}

func Unauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "Unauthorized"}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "forbidden", Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "internal", Message: message, Err: err}
}

// As extracts an *Error from err, wrapping unknown errors as a 500.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	return Internal("internal error", err)
}
