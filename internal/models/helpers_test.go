package models

import "testing"

func ptr[T any](v T) *T { return &v }

func TestDerefOr(t *testing.T) {
	tests := []struct {
		name     string
		in       *string
		fallback string
		want     string
	}{
		{"nil", nil, "N/A", "N/A"},
		{"empty", ptr(""), "Member", "Member"},
		{"set", ptr("Captain"), "Member", "Captain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerefOr(tt.in, tt.fallback); got != tt.want {
				t.Errorf("DerefOr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlag(t *testing.T) {
	if Flag(nil) {
		t.Error("Flag(nil) = true, want false")
	}
	if Flag(ptr(Bool(false))) {
		t.Error("Flag(false) = true, want false")
	}
	if !Flag(ptr(Bool(true))) {
		t.Error("Flag(true) = false, want true")
	}
}
