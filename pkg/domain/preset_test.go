package domain

import (
	"errors"
	"testing"
)

func TestPresetTimerName(t *testing.T) {
	p := Preset{Label: "5 Min", Minutes: 5}
	if got := p.TimerName(); got != "New 5 Min Timer" {
		t.Errorf("TimerName() = %q, want %q", got, "New 5 Min Timer")
	}
}

func TestNewCustomTimer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		minutes  string
		seconds  string
		wantName string
		wantMin  int
		wantSec  int
		wantErr  error
	}{
		{"zero zero", "", "0", "0", "", 0, 0, ErrInvalidDuration},
		{"blank inputs", "", "", "", "", 0, 0, ErrInvalidDuration},
		{"garbage", "", "abc", "x", "", 0, 0, ErrInvalidDuration},
		{"garbage minutes", "", "abc", "30", "", 0, 0, ErrInvalidDuration},
		{"garbage seconds", "", "2", "1.5", "", 0, 0, ErrInvalidDuration},
		{"negative", "", "-1", "30", "", 0, 0, ErrInvalidDuration},
		{"default name", "", "1", "30", "Custom 1:30 Timer", 1, 30, nil},
		{"seconds only", "", "", "5", "Custom 0:05 Timer", 0, 5, nil},
		{"minutes only", "  ", "12", "", "Custom 12:00 Timer", 12, 0, nil},
		{"named", "  Keynote ", "45", "0", "Keynote", 45, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCustomTimer(tt.input, tt.minutes, tt.seconds)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.wantName || got.Minutes != tt.wantMin || got.Seconds != tt.wantSec {
				t.Errorf("got %+v, want {%s %d %d}", got, tt.wantName, tt.wantMin, tt.wantSec)
			}
		})
	}
}
