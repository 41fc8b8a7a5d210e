package tui

import "testing"

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeList, "list"},
		{ModeSearch, "search"},
		{ModeSort, "sort"},
		{ModeConfirm, "confirm"},
		{ModeDetail, "detail"},
		{ModeEdit, "edit"},
		{ModeCreate, "create"},
		{ModeHelp, "help"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.want {
				t.Errorf("Mode.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMode_IsInputMode(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{ModeList, false},
		{ModeSearch, true},
		{ModeSort, false},
		{ModeConfirm, false},
		{ModeDetail, false},
		{ModeEdit, true},
		{ModeCreate, true},
		{ModeHelp, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := tt.mode.IsInputMode(); got != tt.want {
				t.Errorf("Mode.IsInputMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
