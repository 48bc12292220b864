package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var messageActions = []string{"Show message", "Hide message", "Start flashing", "Stop flashing"}

// messagePanel has the message text input at focus 0 and one row per
// action after it.
type messagePanel struct {
	input textinput.Model
	focus int
}

func newMessagePanel() messagePanel {
	return messagePanel{input: newInput("message shown on the viewer", 280)}
}

func (a App) updateMessage(msg tea.KeyMsg) (App, tea.Cmd) {
	rows := len(messageActions) + 1
	switch msg.String() {
	case "esc":
		return a.closePanel(), nil
	case "tab", "down":
		a.message.focus = (a.message.focus + 1) % rows
		cmd := a.syncMessageFocus()
		return a, cmd
	case "shift+tab", "up":
		a.message.focus = (a.message.focus + rows - 1) % rows
		cmd := a.syncMessageFocus()
		return a, cmd
	case "enter":
		return a, a.messageAction()
	}
	if a.message.focus != 0 {
		return a, nil
	}
	var cmd tea.Cmd
	a.message.input, cmd = a.message.input.Update(msg)
	return a, cmd
}

func (a *App) syncMessageFocus() tea.Cmd {
	if a.message.focus == 0 {
		return a.message.input.Focus()
	}
	a.message.input.Blur()
	return nil
}

func (a App) messageAction() tea.Cmd {
	c := a.client
	switch a.message.focus {
	case 0, 1:
		text := strings.TrimSpace(a.message.input.Value())
		return actionCmd("message shown", false, func(ctx context.Context) error {
			return c.ShowMessage(ctx, text)
		})
	case 2:
		return actionCmd("message hidden", false, c.HideMessage)
	case 3:
		return actionCmd("flashing", false, func(ctx context.Context) error {
			return c.StartFlash(ctx, 0)
		})
	case 4:
		return actionCmd("flash stopped", false, c.StopFlash)
	}
	return nil
}

func (a App) messageView() (string, string) {
	var b strings.Builder
	b.WriteString("   " + a.message.input.View() + "\n")
	for i, label := range messageActions {
		if a.message.focus == i+1 {
			b.WriteString(" " + accentStyle.Render("> ") + selectedStyle.Render(label) + "\n")
		} else {
			b.WriteString("   " + normalStyle.Render(label) + "\n")
		}
	}
	return b.String(), helpEntry("tab", "next") + "  " + helpEntry("enter", "send") + "  " + helpEntry("esc", "close")
}
