package util

import (
	"strings"
	"testing"
)

func TestValidateID_Valid(t *testing.T) {
	valid := []string{
		"u1",
		"user-42",
		"alice@example.com",
		"conv_2026.10.14",
		"A",
		strings.Repeat("a", 64),
	}
	for _, id := range valid {
		if err := ValidateID("owner", id); err != nil {
			t.Errorf("ValidateID(%q) returned unexpected error: %v", id, err)
		}
	}
}

func TestValidateID_Invalid(t *testing.T) {
	tests := []struct {
		id      string
		wantErr string
	}{
		{"", "must not be empty"},
		{strings.Repeat("a", 65), "at most 64 characters"},
		{"has space", "invalid characters"},
		{"semi;colon", "invalid characters"},
		{"-leading", "must start with an alphanumeric"},
		{"_leading", "must start with an alphanumeric"},
	}
	for _, tt := range tests {
		err := ValidateID("owner", tt.id)
		if err == nil {
			t.Errorf("ValidateID(%q) expected error, got nil", tt.id)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("ValidateID(%q) error = %q, want it to contain %q", tt.id, err, tt.wantErr)
		}
		if !strings.HasPrefix(err.Error(), "owner") {
			t.Errorf("ValidateID(%q) error = %q, want it to name the field", tt.id, err)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  Log-Level "); got != "log-level" {
		t.Errorf("NormalizeKey() = %q, want %q", got, "log-level")
	}
}
