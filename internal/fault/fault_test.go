package fault

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestEnum_MessageNamesAllowedValues(t *testing.T) {
	err := Enum("status", "archived", "todo", "in_progress", "completed", "cancelled")
	msg := err.Error()
	if !strings.Contains(msg, "archived") {
		t.Errorf("message %q should name the offending value", msg)
	}
	if !strings.Contains(msg, "todo, in_progress, completed, cancelled") {
		t.Errorf("message %q should list allowed values", msg)
	}
	if !IsValidation(err) {
		t.Error("Enum should produce a ValidationError")
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("thread", "t-1")
	if !IsNotFound(err) {
		t.Error("IsNotFound = false")
	}
	if got := err.Error(); got != "thread t-1 not found" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUpstream_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("openai", cause)
	if !IsUpstream(err) {
		t.Error("IsUpstream = false")
	}
	if !errors.Is(err, cause) {
		t.Error("Upstream should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "openai") {
		t.Errorf("Error() = %q, want provider name", err.Error())
	}
}

func TestTaxonomy_DoesNotCrossMatch(t *testing.T) {
	tests := []struct {
		name string
		err  error
		val  bool
		nf   bool
		conf bool
		up   bool
	}{
		{"validation", Validation("bad input"), true, false, false, false},
		{"not found", NotFound("task", "x"), false, true, false, false},
		{"conflict", Conflict("duplicate endpoint"), false, false, true, false},
		{"upstream", Upstream("webpush", errors.New("boom")), false, false, false, true},
		{"plain", errors.New("plain"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsValidation(tt.err) != tt.val {
				t.Errorf("IsValidation = %v, want %v", IsValidation(tt.err), tt.val)
			}
			if IsNotFound(tt.err) != tt.nf {
				t.Errorf("IsNotFound = %v, want %v", IsNotFound(tt.err), tt.nf)
			}
			if IsConflict(tt.err) != tt.conf {
				t.Errorf("IsConflict = %v, want %v", IsConflict(tt.err), tt.conf)
			}
			if IsUpstream(tt.err) != tt.up {
				t.Errorf("IsUpstream = %v, want %v", IsUpstream(tt.err), tt.up)
			}
		})
	}
}

func TestWrapped_StillMatches(t *testing.T) {
	err := fmt.Errorf("followup: generate: %w", Validation("not in waiting-on status"))
	if !IsValidation(err) {
		t.Error("wrapped ValidationError should still match")
	}
}
