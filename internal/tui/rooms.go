package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stageremote/pkg/domain"
)

// roomsPanel switches between saved rooms. The list is read from the store
// on every render.
type roomsPanel struct {
	cursor          int
	naming          bool
	name            textinput.Model
	confirmDeleteID string
}

func (a App) updateRooms(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.rooms.naming {
		return a.updateRoomName(msg)
	}
	saved := a.store.ListSaved()

	if a.rooms.confirmDeleteID != "" {
		id := a.rooms.confirmDeleteID
		a.rooms.confirmDeleteID = ""
		if msg.String() != "y" {
			return a, nil
		}
		if err := a.store.RemoveSaved(id); err != nil {
			return a.withToast(err.Error(), true)
		}
		if a.rooms.cursor >= len(saved)-1 && a.rooms.cursor > 0 {
			a.rooms.cursor--
		}
		return a.withToast("room removed", false)
	}

	switch msg.String() {
	case "esc":
		return a.closePanel(), nil
	case "j", "down":
		if a.rooms.cursor < len(saved)-1 {
			a.rooms.cursor++
		}
	case "k", "up":
		if a.rooms.cursor > 0 {
			a.rooms.cursor--
		}
	case "enter":
		if a.rooms.cursor >= len(saved) {
			return a, nil
		}
		room := saved[a.rooms.cursor]
		if _, err := a.store.Switch(room.ID); err != nil {
			return a.withToast(err.Error(), true)
		}
		a = a.closePanel()
		a, cmd := a.reconnect()
		a, toastCmd := a.withToast("switched to "+room.Name, false)
		return a, tea.Batch(cmd, toastCmd)
	case "n":
		if !a.store.Active().Complete() {
			return a.withToast("no active room to save", true)
		}
		a.rooms.naming = true
		a.rooms.name = newInput(a.store.Active().RoomID, 60)
		cmd := a.rooms.name.Focus()
		return a, cmd
	case "x", "d":
		if a.rooms.cursor < len(saved) {
			a.rooms.confirmDeleteID = saved[a.rooms.cursor].ID
		}
	}
	return a, nil
}

func (a App) updateRoomName(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.rooms.naming = false
		return a, nil
	case "enter":
		a.rooms.naming = false
		active := a.store.Active()
		room, err := a.store.AddSaved(domain.SavedRoom{
			Name:   strings.TrimSpace(a.rooms.name.Value()),
			RoomID: active.RoomID,
			APIKey: active.APIKey,
		})
		if errors.Is(err, domain.ErrDuplicateRoom) {
			return a.withToast("this room is already saved", true)
		}
		if err != nil {
			return a.withToast(err.Error(), true)
		}
		return a.withToast("saved "+room.Name, false)
	}
	var cmd tea.Cmd
	a.rooms.name, cmd = a.rooms.name.Update(msg)
	return a, cmd
}

func (a App) roomsView() (string, string) {
	if a.rooms.naming {
		return "   " + sectionHeaderStyle.Render("Name ") + a.rooms.name.View() + "\n",
			helpEntry("enter", "save current room") + "  " + helpEntry("esc", "cancel")
	}

	saved := a.store.ListSaved()
	active := a.store.Active()
	var b strings.Builder
	if len(saved) == 0 {
		b.WriteString("   " + dimStyle.Render("no saved rooms. press n to save the current one") + "\n")
	}
	for i, r := range saved {
		prefix := "   "
		name := normalStyle.Render(truncStr(r.Name, 24))
		if i == a.rooms.cursor {
			prefix = " " + accentStyle.Render("> ")
			name = selectedStyle.Render(truncStr(r.Name, 24))
		}
		mark := " "
		if r.SameRoom(active) {
			mark = onlineStyle.Render("●")
		}
		fmt.Fprintf(&b, "%s%s %s  %s\n", prefix, mark, name, metaStyle.Render(r.RoomID+"  "+maskKey(r.APIKey)))
		if r.ID == a.rooms.confirmDeleteID {
			b.WriteString("     " + dangerStyle.Render(fmt.Sprintf("Delete %s?", r.Name)) + " " +
				helpEntry("y", "delete") + "  " + helpEntry("any key", "cancel") + "\n")
		}
	}
	return b.String(), helpEntry("enter", "switch") + "  " + helpEntry("n", "save current") + "  " +
		helpEntry("x", "delete") + "  " + helpEntry("esc", "close")
}
