package todo

import (
	"strings"
	"testing"
	"time"
)

func TestTodo_SetCompleted(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	td := &Todo{}

	if !td.SetCompleted(true, t0) {
		t.Error("SetCompleted(true) on open todo should report a transition")
	}
	if td.CompletedAt == nil || !td.CompletedAt.Equal(t0) {
		t.Fatalf("CompletedAt = %v, want %v", td.CompletedAt, t0)
	}

	// Completing again keeps the original timestamp.
	if td.SetCompleted(true, t1) {
		t.Error("SetCompleted(true) on completed todo should not report a transition")
	}
	if !td.CompletedAt.Equal(t0) {
		t.Errorf("CompletedAt = %v, want unchanged %v", td.CompletedAt, t0)
	}

	td.SetCompleted(false, t1)
	if td.Completed || td.CompletedAt != nil {
		t.Errorf("after reopen Completed = %v, CompletedAt = %v, want false, nil", td.Completed, td.CompletedAt)
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"valid", "Buy milk", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"exactly 100", strings.Repeat("a", 100), false},
		{"101", strings.Repeat("a", 101), true},
		{"multibyte 100", strings.Repeat("é", 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTitle(tt.title) != ""
			if got != tt.wantErr {
				t.Errorf("ValidateTitle(%q) error = %v, want %v", tt.title, got, tt.wantErr)
			}
		})
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !ValidPriority(p) {
			t.Errorf("ValidPriority(%q) = false, want true", p)
		}
	}
	if ValidPriority("urgent") {
		t.Error("ValidPriority(\"urgent\") = true, want false")
	}
	if ValidateDescription(strings.Repeat("x", 501)) == "" {
		t.Error("ValidateDescription() accepted 501 characters")
	}
}
