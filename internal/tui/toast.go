package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastTTL is how long a toast stays on screen.
const toastTTL = 4 * time.Second

// toast is the single transient notification line. A new toast replaces
// the current one.
type toast struct {
	id    int
	text  string
	isErr bool
}

type toastExpiredMsg struct{ id int }

func (a App) withToast(text string, isErr bool) (App, tea.Cmd) {
	a.toastSeq++
	a.toast = toast{id: a.toastSeq, text: text, isErr: isErr}
	id := a.toastSeq
	return a, tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (t toast) view() string {
	if t.text == "" {
		return ""
	}
	if t.isErr {
		return " " + toastErrStyle.Render("✕ "+t.text)
	}
	return " " + toastStyle.Render("✓ "+t.text)
}
