package browser

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		url string
		ok  bool
	}{
		{"https://stagetimer.io/r/ABCD1234/", true},
		{"http://127.0.0.1:8787/r/X/", true},
		{"file:///etc/passwd", false},
		{"javascript:alert(1)", false},
		{"stagetimer.io/r/X", false},
		{"https://", false},
	}
	for _, tt := range tests {
		err := Validate(tt.url)
		if (err == nil) != tt.ok {
			t.Errorf("Validate(%q) = %v, want ok=%v", tt.url, err, tt.ok)
		}
	}
}

func TestCommandPerOS(t *testing.T) {
	const u = "https://stagetimer.io/r/ROOM/"
	tests := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"freebsd": "xdg-open",
		"windows": "rundll32",
	}
	for goos, want := range tests {
		cmd := command(goos, u)
		if !strings.HasSuffix(cmd.Path, want) && cmd.Args[0] != want {
			t.Errorf("%s: command = %v, want %s", goos, cmd.Args, want)
		}
		if cmd.Args[len(cmd.Args)-1] != u {
			t.Errorf("%s: url arg = %q", goos, cmd.Args[len(cmd.Args)-1])
		}
	}
}
