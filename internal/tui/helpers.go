package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// center pads s on the left so it sits in the middle of width.
func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// maskKey hides all but the last four characters of an API key.
func maskKey(key string) string {
	n := utf8.RuneCountInString(key)
	if n <= 4 {
		return strings.Repeat("•", n)
	}
	runes := []rune(key)
	return strings.Repeat("•", n-4) + string(runes[n-4:])
}
