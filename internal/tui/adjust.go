package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type adjustStep struct {
	label  string
	offset time.Duration
}

var adjustSteps = []adjustStep{
	{"-5m", -5 * time.Minute},
	{"-1m", -time.Minute},
	{"-10s", -10 * time.Second},
	{"+10s", 10 * time.Second},
	{"+1m", time.Minute},
	{"+5m", 5 * time.Minute},
}

type adjustPanel struct {
	cursor int
}

func (a App) updateAdjust(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a.closePanel(), nil
	case "h", "left":
		if a.adjust.cursor > 0 {
			a.adjust.cursor--
		}
	case "l", "right":
		if a.adjust.cursor < len(adjustSteps)-1 {
			a.adjust.cursor++
		}
	case "enter":
		step := adjustSteps[a.adjust.cursor]
		c := a.client
		return a, actionCmd("time "+step.label, false, func(ctx context.Context) error {
			return c.Jump(ctx, step.offset)
		})
	}
	return a, nil
}

func (a App) adjustView() (string, string) {
	parts := make([]string, len(adjustSteps))
	for i, s := range adjustSteps {
		if i == a.adjust.cursor {
			parts[i] = selectedRowBg.Render(selectedStyle.Render(" " + s.label + " "))
		} else {
			parts[i] = dimStyle.Render(" " + s.label + " ")
		}
	}
	return "   " + strings.Join(parts, " ") + "\n",
		helpEntry("h/l", "pick") + "  " + helpEntry("enter", "apply to running timer") + "  " + helpEntry("esc", "close")
}
