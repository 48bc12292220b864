package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stageremote/pkg/domain"
)

type wizardStep int

const (
	wizardURL wizardStep = iota
	wizardKey
	wizardConfirm
)

// wizardPanel walks through room id (from the viewer URL), API key (from
// the clipboard) and a final confirm.
type wizardPanel struct {
	step   wizardStep
	url    textinput.Model
	roomID string
	apiKey string
}

type clipboardMsg struct {
	text string
	err  error
}

func newWizardPanel() wizardPanel {
	return wizardPanel{url: newInput("https://stagetimer.io/r/ROOMID/", 300)}
}

func (a App) readClipboardCmd() tea.Cmd {
	read := a.readClipboard
	return func() tea.Msg {
		text, err := read()
		return clipboardMsg{text: text, err: err}
	}
}

func (a App) updateWizard(msg tea.KeyMsg) (App, tea.Cmd) {
	switch a.wizard.step {
	case wizardURL:
		switch msg.String() {
		case "esc":
			return a.closePanel(), nil
		case "enter":
			id, err := domain.ExtractRoomID(a.wizard.url.Value())
			if err != nil {
				return a.withToast("no room id found. the url should look like …/r/ROOMID/", true)
			}
			a.wizard.roomID = id
			a.wizard.step = wizardKey
			a.wizard.url.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.wizard.url, cmd = a.wizard.url.Update(msg)
		return a, cmd

	case wizardKey:
		switch msg.String() {
		case "esc":
			a.wizard.step = wizardURL
			cmd := a.wizard.url.Focus()
			return a, cmd
		case "v", "enter", "ctrl+v":
			return a, a.readClipboardCmd()
		case "o":
			return a, a.openViewerCmd(a.wizard.roomID)
		}

	case wizardConfirm:
		switch msg.String() {
		case "esc":
			a.wizard.step = wizardKey
			return a, nil
		case "enter", "y":
			creds := domain.Credentials{RoomID: a.wizard.roomID, APIKey: a.wizard.apiKey}
			a = a.closePanel()
			return a.applyCredentials(creds, "connected to room "+creds.RoomID)
		}
	}
	return a, nil
}

func (a App) handleClipboard(msg clipboardMsg) (App, tea.Cmd) {
	if a.panel != panelWizard || a.wizard.step != wizardKey {
		return a, nil
	}
	if msg.err != nil {
		return a.withToast("clipboard: "+msg.err.Error(), true)
	}
	key, err := domain.ValidateAPIKey(msg.text)
	if errors.Is(err, domain.ErrAPIKeyTooShort) {
		return a.withToast(fmt.Sprintf("that does not look like an api key (need %d+ characters)", domain.MinAPIKeyLength), true)
	}
	if err != nil {
		return a.withToast(err.Error(), true)
	}
	a.wizard.apiKey = key
	a.wizard.step = wizardConfirm
	return a, nil
}

func (a App) wizardView() (string, string) {
	var b strings.Builder
	step := func(n int, label string, done bool) {
		mark := metaStyle.Render(fmt.Sprintf("%d.", n))
		if done {
			mark = onlineStyle.Render("✓ ")
		}
		b.WriteString("   " + mark + " " + normalStyle.Render(label) + "\n")
	}

	step(1, "Paste the viewer URL of your room", a.wizard.step > wizardURL)
	if a.wizard.step == wizardURL {
		b.WriteString("      " + a.wizard.url.View() + "\n")
	} else {
		b.WriteString("      " + dimStyle.Render("room "+a.wizard.roomID) + "\n")
	}

	step(2, "Copy the API key from the room's API settings", a.wizard.step > wizardKey)
	if a.wizard.step == wizardKey {
		b.WriteString("      " + dimStyle.Render("press v to paste it from the clipboard") + "\n")
	} else if a.wizard.apiKey != "" {
		b.WriteString("      " + dimStyle.Render(maskKey(a.wizard.apiKey)) + "\n")
	}

	step(3, "Confirm", false)
	if a.wizard.step == wizardConfirm {
		b.WriteString("      " + selectedStyle.Render("save room "+a.wizard.roomID+" and connect?") + "\n")
	}

	var help string
	switch a.wizard.step {
	case wizardURL:
		help = helpEntry("enter", "next") + "  " + helpEntry("esc", "cancel")
	case wizardKey:
		help = helpEntry("v", "paste key") + "  " + helpEntry("o", "open room in browser") + "  " + helpEntry("esc", "back")
	case wizardConfirm:
		help = helpEntry("enter", "save") + "  " + helpEntry("esc", "back")
	}
	return b.String(), help
}
