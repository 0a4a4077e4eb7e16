// Package apperr defines the error taxonomy shared by the server modules.
//
// Errors cross module boundaries as request-reply payloads, which only carry
// the error text. Error() therefore renders the kind as a "[kind]" prefix and
// Parse recovers it on the calling side.
package apperr

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

var kinds = []Kind{KindValidation, KindNotFound, KindUnauthorized, KindConflict, KindInternal}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field validation detail.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.Kind))
	b.WriteString("] ")
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(e.Fields[k])
		}
		b.WriteString("}")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a validation error with optional field detail.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Field is a shorthand for a validation error on a single field.
func Field(field, message string) *Error {
	return Validation(message, map[string]string{field: message})
}

// NotFound returns a not-found error for the named resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Unauthorized returns an unauthorized error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Conflict returns a conflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an application error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// HTTPStatus maps a kind to its HTTP status code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Parse recovers an application error from err's text. Errors that already
// carry an *Error are returned as is. Errors without a kind marker become
// internal errors wrapping err.
func Parse(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	text := err.Error()
	for _, k := range kinds {
		marker := "[" + string(k) + "] "
		idx := strings.Index(text, marker)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(marker):]
		message, fields := splitFields(rest)
		if k == KindInternal {
			return Internal(message, err)
		}
		return &Error{Kind: k, Message: message, Fields: fields}
	}
	return Internal("unexpected error", err)
}

// splitFields separates "message {a=x; b=y}" into its parts.
func splitFields(s string) (string, map[string]string) {
	open := strings.Index(s, " {")
	if open < 0 {
		return s, nil
	}
	end := strings.Index(s[open:], "}")
	if end < 0 {
		return s, nil
	}
	body := s[open+2 : open+end]
	fields := make(map[string]string)
	for _, pair := range strings.Split(body, "; ") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		fields[k] = v
	}
	return s[:open], fields
}
