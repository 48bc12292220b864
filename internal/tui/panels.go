package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type panel int

const (
	panelNone panel = iota
	panelAdd
	panelAdjust
	panelMessage
	panelSettings
	panelRooms
	panelWizard
)

func (p panel) title() string {
	switch p {
	case panelAdd:
		return "Add timer"
	case panelAdjust:
		return "Adjust time"
	case panelMessage:
		return "Message"
	case panelSettings:
		return "Settings"
	case panelRooms:
		return "Rooms"
	case panelWizard:
		return "Setup"
	}
	return ""
}

// newInput returns a text input styled like the rest of the UI.
func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = inputPromptStyle
	ti.PlaceholderStyle = inputPlaceholderStyle
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	return ti
}

// focusOnly focuses inputs[idx] and blurs the rest.
func focusOnly(inputs []textinput.Model, idx int) tea.Cmd {
	var cmd tea.Cmd
	for i := range inputs {
		if i == idx {
			cmd = inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
	return cmd
}

func (a App) openPanel(p panel) (App, tea.Cmd) {
	a.panel = p
	switch p {
	case panelAdd:
		a.add = newAddPanel()
	case panelAdjust:
		a.adjust = adjustPanel{cursor: 3}
	case panelMessage:
		a.message = newMessagePanel()
		cmd := a.message.input.Focus()
		return a, cmd
	case panelSettings:
		a.settings = newSettingsPanel(a.store.Active())
		cmd := focusOnly(a.settings.inputs[:], 0)
		return a, cmd
	case panelRooms:
		a.rooms = roomsPanel{}
	case panelWizard:
		a.wizard = newWizardPanel()
		cmd := a.wizard.url.Focus()
		return a, cmd
	}
	return a, nil
}

func (a App) closePanel() App {
	a.panel = panelNone
	return a
}

func (a App) updatePanel(msg tea.KeyMsg) (App, tea.Cmd) {
	switch a.panel {
	case panelAdd:
		return a.updateAdd(msg)
	case panelAdjust:
		return a.updateAdjust(msg)
	case panelMessage:
		return a.updateMessage(msg)
	case panelSettings:
		return a.updateSettings(msg)
	case panelRooms:
		return a.updateRooms(msg)
	case panelWizard:
		return a.updateWizard(msg)
	}
	return a, nil
}

// panelCapturesText reports whether the open panel has a focused text input,
// in which case global keys are not interpreted.
func (a App) panelCapturesText() bool {
	switch a.panel {
	case panelAdd:
		return a.add.custom
	case panelMessage:
		return a.message.focus == 0
	case panelSettings:
		return true
	case panelRooms:
		return a.rooms.naming
	case panelWizard:
		return a.wizard.step == wizardURL
	}
	return false
}

func (a App) panelView() string {
	var body, help string
	switch a.panel {
	case panelAdd:
		body, help = a.addView()
	case panelAdjust:
		body, help = a.adjustView()
	case panelMessage:
		body, help = a.messageView()
	case panelSettings:
		body, help = a.settingsView()
	case panelRooms:
		body, help = a.roomsView()
	case panelWizard:
		body, help = a.wizardView()
	}
	return " " + panelTitleStyle.Render(a.panel.title()) + "\n" + body + "\n " + help
}
