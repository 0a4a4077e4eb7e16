package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failed call. Every error the Client returns has exactly
// one Kind.
type Kind string

const (
	KindTimeout            Kind = "Timeout"
	KindNetworkUnreachable Kind = "NetworkUnreachable"
	KindUnauthorized       Kind = "Unauthorized"
	KindServerError        Kind = "ServerError"
	KindValidationError    Kind = "ValidationError"
)

// Error is a classified API failure.
type Error struct {
	Kind Kind
	// Status is the HTTP status, or 0 when no response arrived.
	Status int
	// Code is the server's machine-readable error code.
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or "" when err did not come
// from a Client.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports a 404. The server uses it for resources that are absent
// and for ones owned by someone else.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsConflict reports a 409, returned for duplicate unique fields.
func IsConflict(err error) bool {
	return StatusOf(err) == http.StatusConflict
}

// IsTransport reports a failure where no response was received.
func IsTransport(err error) bool {
	k := KindOf(err)
	return k == KindTimeout || k == KindNetworkUnreachable
}

// classifyTransport turns an http.Client error into a Timeout or
// NetworkUnreachable.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "request timed out", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: "request timed out", Err: err}
	}
	return &Error{Kind: KindNetworkUnreachable, Message: "could not reach the server", Err: err}
}

// classifyStatus maps a non-2xx response.
func classifyStatus(status int, body errorBody) *Error {
	e := &Error{
		Status:  status,
		Code:    body.Error,
		Message: body.Message,
		Fields:  body.Fields,
	}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case status >= http.StatusInternalServerError:
		e.Kind = KindServerError
	default:
		e.Kind = KindValidationError
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// errorBody is the server's error envelope.
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
