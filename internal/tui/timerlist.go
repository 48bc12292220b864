package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/stageremote/pkg/domain"
)

// timerList is the view state of the timer list. The timers themselves live
// in the cache and are passed in on every call.
type timerList struct {
	cursor     int
	selectedID string

	// inline rename
	editingID string
	editBuf   string
	editOrig  string

	// pending delete confirmation
	confirmDeleteID string
}

// renameRequest is a committed inline rename.
type renameRequest struct {
	id   string
	name string
}

func (l timerList) editing() bool { return l.editingID != "" }

// toggleSelect marks id as selected, or clears the mark when id is already
// selected. Ignored while a rename is in progress and for the current timer.
func (l timerList) toggleSelect(id, currentID string) timerList {
	if l.editing() || id == "" || id == currentID {
		return l
	}
	if l.selectedID == id {
		l.selectedID = ""
	} else {
		l.selectedID = id
	}
	return l
}

// beginEdit enters rename mode for t, seeded with its current name.
func (l timerList) beginEdit(t domain.Timer) timerList {
	if l.editing() {
		return l
	}
	l.editingID = t.ID
	l.editBuf = t.Name
	l.editOrig = t.Name
	return l
}

// endEdit leaves rename mode. The rename is committed only when the trimmed
// name is non-empty and differs from the original.
func (l timerList) endEdit() (timerList, *renameRequest) {
	if !l.editing() {
		return l, nil
	}
	id := l.editingID
	name := strings.TrimSpace(l.editBuf)
	orig := l.editOrig
	l.editingID, l.editBuf, l.editOrig = "", "", ""
	if name == "" || name == orig {
		return l, nil
	}
	return l, &renameRequest{id: id, name: name}
}

// applyPlayback clears the selection when the server makes the selected
// timer current.
func (l timerList) applyPlayback(st domain.PlaybackStatus) timerList {
	if l.selectedID != "" && st.TimerID == l.selectedID {
		l.selectedID = ""
	}
	return l
}

// clamp keeps the cursor inside a list of n timers.
func (l timerList) clamp(n int) timerList {
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	return l
}

func (l timerList) move(delta, n int) timerList {
	l.cursor += delta
	return l.clamp(n)
}

// current returns the timer under the cursor.
func (l timerList) current(items []domain.Timer) (domain.Timer, bool) {
	if l.cursor < 0 || l.cursor >= len(items) {
		return domain.Timer{}, false
	}
	return items[l.cursor], true
}

func (l timerList) view(items []domain.Timer, playback domain.PlaybackStatus, width, maxRows int) string {
	if len(items) == 0 {
		return " " + dimStyle.Render("no timers in this room. press a to add one")
	}

	nameWidth := width - 22
	if nameWidth < 10 {
		nameWidth = 10
	}

	// Keep the cursor row visible.
	start := 0
	if maxRows > 0 && l.cursor >= maxRows {
		start = l.cursor - maxRows + 1
	}

	var b strings.Builder
	for i := start; i < len(items); i++ {
		if maxRows > 0 && i-start >= maxRows {
			break
		}
		t := items[i]

		cursor := "  "
		if i == l.cursor {
			cursor = accentStyle.Render("> ")
		}

		marker := " "
		switch {
		case t.ID == playback.TimerID && playback.Running:
			marker = runningStyle.Render("▶")
		case t.ID == playback.TimerID:
			marker = pausedStyle.Render("‖")
		case t.ID == l.selectedID:
			marker = accentStyle.Render("●")
		}

		var name string
		if t.ID == l.editingID {
			name = inputPromptStyle.Render("✎ ") + selectedStyle.Render(l.editBuf) + accentStyle.Render("█")
		} else if i == l.cursor {
			name = selectedStyle.Render(truncStr(t.DisplayName(), nameWidth))
		} else {
			name = normalStyle.Render(truncStr(t.DisplayName(), nameWidth))
		}

		dur := metaStyle.Render(t.DurationLabel())
		pad := width - lipgloss.Width(cursor+marker+" "+name) - lipgloss.Width(dur) - 2
		if pad < 1 {
			pad = 1
		}
		row := cursor + marker + " " + name + strings.Repeat(" ", pad) + dur
		if i == l.cursor && t.ID != l.editingID {
			row = selectedRowBg.Render(row)
		}
		b.WriteString(row + "\n")

		if t.ID == l.confirmDeleteID {
			b.WriteString("    " + dangerStyle.Render(fmt.Sprintf("Delete %s?", t.DisplayName())) + " " +
				helpEntry("y", "delete") + "  " + helpEntry("any key", "cancel") + "\n")
		}
	}
	return b.String()
}
