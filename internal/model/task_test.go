package model

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Status
		ok    bool
	}{
		{"yet to start", "Yet to start", StatusYetToStart, true},
		{"in progress", "In progress", StatusInProgress, true},
		{"completed", "Completed", StatusCompleted, true},
		{"blocked", "Blocked", StatusBlocked, true},
		{"empty", "", "", false},
		{"wrong case", "completed", "", false},
		{"unknown value", "Done", "", false},
		{"trailing space", "Blocked ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStatus(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
		ok    bool
	}{
		{"admin", RoleAdmin, true},
		{"employee", RoleEmployee, true},
		{"Admin", "", false},
		{"manager", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
