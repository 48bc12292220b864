package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/naveenspark/stageremote/pkg/domain"
)

// ANSI colors for plain command output (no lipgloss, runs outside the TUI).
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiCyan  = "\033[38;2;34;211;238m"  // #22d3ee
	ansiGreen = "\033[38;2;52;212;116m"  // #34d474
	ansiAmber = "\033[38;2;212;168;68m"  // #d4a844
	ansiSlate = "\033[38;2;136;144;160m" // #8890a0
)

// painter wraps text in ANSI codes, or not at all when output is piped.
type painter bool

func (p painter) paint(code, s string) string {
	if !p {
		return s
	}
	return code + s + ansiReset
}

func playbackLabel(p painter, st domain.PlaybackStatus) string {
	if st.Running {
		return p.paint(ansiGreen+ansiBold, "running")
	}
	return p.paint(ansiAmber, "paused")
}

func printStatus(w io.Writer, roomID string, st domain.PlaybackStatus, current *domain.Timer, color bool) {
	p := painter(color)
	line := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", p.paint(ansiSlate, label), value) //nolint:errcheck
	}
	line("room", p.paint(ansiCyan+ansiBold, roomID))
	line("playback", playbackLabel(p, st))
	switch {
	case current != nil:
		line("timer", current.DisplayName()+" ("+current.DurationLabel()+")")
	case st.TimerID != "":
		line("timer", st.TimerID)
	}
}

func printTimers(w io.Writer, items []domain.Timer, st domain.PlaybackStatus, color bool) {
	p := painter(color)
	if len(items) == 0 {
		fmt.Fprintln(w, p.paint(ansiSlate, "no timers")) //nolint:errcheck
		return
	}
	width := 0
	for _, t := range items {
		if n := len([]rune(t.DisplayName())); n > width {
			width = n
		}
	}
	for i, t := range items {
		marker := " "
		if t.ID == st.TimerID {
			marker = p.paint(ansiGreen, "▶")
			if !st.Running {
				marker = p.paint(ansiAmber, "‖")
			}
		}
		name := t.DisplayName()
		pad := strings.Repeat(" ", width-len([]rune(name)))
		fmt.Fprintf(w, "%s %2d  %s%s  %s\n", marker, i+1, name, pad, p.paint(ansiSlate, t.DurationLabel())) //nolint:errcheck
	}
}

func printRooms(w io.Writer, saved []domain.SavedRoom, active domain.Credentials, color bool) {
	p := painter(color)
	if len(saved) == 0 {
		fmt.Fprintln(w, p.paint(ansiSlate, "no saved rooms")) //nolint:errcheck
		return
	}
	for _, r := range saved {
		marker := " "
		if r.SameRoom(active) {
			marker = p.paint(ansiGreen, "●")
		}
		fmt.Fprintf(w, "%s %s  %s\n", marker, p.paint(ansiBold, r.Name), p.paint(ansiSlate, r.RoomID)) //nolint:errcheck
	}
}
