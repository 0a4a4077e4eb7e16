package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
	}{
		{name: "not found", err: NotFound("todo")},
		{name: "conflict", err: Conflict("Email already exists")},
		{name: "unauthorized", err: Unauthorized("Invalid credentials")},
		{name: "validation with fields", err: Validation("invalid todo", map[string]string{
			"title":    "title is required",
			"priority": "priority must be one of low, medium, high",
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Simulate the error text arriving from another module.
			remote := fmt.Errorf("service call failed: %s", tt.err.Error())

			got := Parse(remote)
			if got.Kind != tt.err.Kind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.err.Kind)
			}
			if got.Message != tt.err.Message {
				t.Errorf("Message = %q, want %q", got.Message, tt.err.Message)
			}
			if len(got.Fields) != len(tt.err.Fields) {
				t.Fatalf("Fields = %v, want %v", got.Fields, tt.err.Fields)
			}
			for k, v := range tt.err.Fields {
				if got.Fields[k] != v {
					t.Errorf("Fields[%q] = %q, want %q", k, got.Fields[k], v)
				}
			}
		})
	}
}

func TestParse_Unclassified(t *testing.T) {
	err := errors.New("nats: timeout")

	got := Parse(err)
	if got.Kind != KindInternal {
		t.Errorf("Kind = %v, want %v", got.Kind, KindInternal)
	}
	if !errors.Is(got, err) {
		t.Error("parsed error does not wrap the original")
	}
}

func TestParse_Local(t *testing.T) {
	orig := NotFound("category")
	wrapped := fmt.Errorf("lookup: %w", orig)

	if got := Parse(wrapped); got != orig {
		t.Errorf("Parse() = %v, want the original error", got)
	}
	if Parse(nil) != nil {
		t.Error("Parse(nil) should be nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
		{Kind("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.kind); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("x: %w", Conflict("dup"))); got != KindConflict {
		t.Errorf("KindOf() = %v, want %v", got, KindConflict)
	}
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("KindOf() = %v, want %v", got, KindInternal)
	}
	if !Is(Field("title", "title is required"), KindValidation) {
		t.Error("Is() = false, want true")
	}
}
