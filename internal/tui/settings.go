package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stageremote/pkg/domain"
)

const (
	settingsRoom = iota
	settingsKey
)

type settingsPanel struct {
	focus  int
	inputs [2]textinput.Model
}

func newSettingsPanel(active domain.Credentials) settingsPanel {
	p := settingsPanel{}
	p.inputs[settingsRoom] = newInput("room id", 32)
	p.inputs[settingsRoom].SetValue(active.RoomID)
	p.inputs[settingsKey] = newInput("api key", 128)
	p.inputs[settingsKey].EchoMode = textinput.EchoPassword
	p.inputs[settingsKey].EchoCharacter = '•'
	p.inputs[settingsKey].SetValue(active.APIKey)
	return p
}

func (a App) updateSettings(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a.closePanel(), nil
	case "tab", "shift+tab", "up", "down":
		a.settings.focus = 1 - a.settings.focus
		cmd := focusOnly(a.settings.inputs[:], a.settings.focus)
		return a, cmd
	case "enter":
		creds := domain.Credentials{
			RoomID: a.settings.inputs[settingsRoom].Value(),
			APIKey: a.settings.inputs[settingsKey].Value(),
		}.Normalize()
		a = a.closePanel()
		return a.applyCredentials(creds, "settings saved")
	}
	var cmd tea.Cmd
	a.settings.inputs[a.settings.focus], cmd = a.settings.inputs[a.settings.focus].Update(msg)
	return a, cmd
}

func (a App) settingsView() (string, string) {
	var b strings.Builder
	labels := [2]string{"Room ID", "API key"}
	for i, in := range a.settings.inputs {
		fmt.Fprintf(&b, "   %s %s\n", sectionHeaderStyle.Render(fmt.Sprintf("%-8s", labels[i])), in.View())
	}
	b.WriteString("   " + metaStyle.Render("find both under Room → API in the stagetimer.io controller") + "\n")
	return b.String(), helpEntry("tab", "next field") + "  " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
}
