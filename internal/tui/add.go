package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stageremote/pkg/client"
	"github.com/naveenspark/stageremote/pkg/domain"
)

const (
	customName = iota
	customMinutes
	customSeconds
)

// addPanel offers the presets plus a custom-duration row at the end.
type addPanel struct {
	cursor int
	custom bool
	focus  int
	inputs [3]textinput.Model
}

func newAddPanel() addPanel {
	p := addPanel{}
	p.inputs[customName] = newInput("name (optional)", 80)
	p.inputs[customMinutes] = newInput("minutes", 4)
	p.inputs[customSeconds] = newInput("seconds", 4)
	return p
}

func (a App) updateAdd(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.add.custom {
		return a.updateCustom(msg)
	}
	rows := len(a.presets) + 1
	switch msg.String() {
	case "esc":
		return a.closePanel(), nil
	case "j", "down":
		if a.add.cursor < rows-1 {
			a.add.cursor++
		}
	case "k", "up":
		if a.add.cursor > 0 {
			a.add.cursor--
		}
	case "enter":
		if a.add.cursor == len(a.presets) {
			a.add.custom = true
			a.add.focus = customName
			cmd := focusOnly(a.add.inputs[:], customName)
			return a, cmd
		}
		p := a.presets[a.add.cursor]
		req := client.CreateTimerRequest{Name: p.TimerName(), Hours: p.Hours, Minutes: p.Minutes, Seconds: p.Seconds}
		return a.closePanel(), a.createTimer(req)
	}
	return a, nil
}

func (a App) updateCustom(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.add.custom = false
		focusOnly(a.add.inputs[:], -1)
		return a, nil
	case "tab", "down":
		a.add.focus = (a.add.focus + 1) % len(a.add.inputs)
		cmd := focusOnly(a.add.inputs[:], a.add.focus)
		return a, cmd
	case "shift+tab", "up":
		a.add.focus = (a.add.focus + len(a.add.inputs) - 1) % len(a.add.inputs)
		cmd := focusOnly(a.add.inputs[:], a.add.focus)
		return a, cmd
	case "enter":
		ct, err := domain.NewCustomTimer(
			a.add.inputs[customName].Value(),
			a.add.inputs[customMinutes].Value(),
			a.add.inputs[customSeconds].Value(),
		)
		if errors.Is(err, domain.ErrInvalidDuration) {
			return a.withToast("enter minutes or seconds greater than zero", true)
		}
		if err != nil {
			return a.withToast(err.Error(), true)
		}
		req := client.CreateTimerRequest{Name: ct.Name, Minutes: ct.Minutes, Seconds: ct.Seconds}
		return a.closePanel(), a.createTimer(req)
	}
	var cmd tea.Cmd
	a.add.inputs[a.add.focus], cmd = a.add.inputs[a.add.focus].Update(msg)
	return a, cmd
}

func (a App) createTimer(req client.CreateTimerRequest) tea.Cmd {
	c := a.client
	return actionCmd("created "+req.Name, true, func(ctx context.Context) error {
		_, err := c.CreateTimer(ctx, req)
		return err
	})
}

func (a App) addView() (string, string) {
	var b strings.Builder
	if a.add.custom {
		labels := [3]string{"Name", "Minutes", "Seconds"}
		for i, in := range a.add.inputs {
			fmt.Fprintf(&b, "   %s %s\n", sectionHeaderStyle.Render(fmt.Sprintf("%-8s", labels[i])), in.View())
		}
		return b.String(), helpEntry("tab", "next field") + "  " + helpEntry("enter", "create") + "  " + helpEntry("esc", "back")
	}
	for i, p := range a.presets {
		b.WriteString(addRow(i == a.add.cursor, p.Label, p.TimerName()))
	}
	b.WriteString(addRow(a.add.cursor == len(a.presets), "Custom…", "pick minutes and seconds"))
	return b.String(), helpEntry("j/k", "nav") + "  " + helpEntry("enter", "add") + "  " + helpEntry("esc", "close")
}

func addRow(active bool, label, desc string) string {
	prefix := "   "
	l := normalStyle.Render(fmt.Sprintf("%-10s", label))
	if active {
		prefix = " " + accentStyle.Render("> ")
		l = selectedStyle.Render(fmt.Sprintf("%-10s", label))
	}
	return prefix + l + " " + metaStyle.Render(desc) + "\n"
}
