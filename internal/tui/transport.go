package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// toggle starts the selected timer when playback is paused and a timer is
// selected, and flips start/pause otherwise.
func (a App) toggle() tea.Cmd {
	c := a.client
	if !a.playback.Running && a.list.selectedID != "" {
		id := a.list.selectedID
		return actionCmd("", false, func(ctx context.Context) error {
			return c.Start(ctx, id)
		})
	}
	return actionCmd("", false, c.StartOrStop)
}

func (a App) transportKey(key string) (tea.Cmd, bool) {
	c := a.client
	switch key {
	case " ", "space":
		return a.toggle(), true
	case "n":
		return actionCmd("", false, c.Next), true
	case "p":
		return actionCmd("", false, c.Previous), true
	case "x":
		return actionCmd("stopped", false, c.Stop), true
	case "r":
		return actionCmd("reset", false, c.Reset), true
	}
	return nil, false
}

// transportView is the fixed control bar: previous, start/pause, next,
// stop, reset.
func (a App) transportView() string {
	play := runningStyle.Render("▶ start")
	if a.playback.Running {
		play = dangerStyle.Render("⏸ pause")
	}
	return " " + navStyle.Render("⏮") + " " + helpEntry("p", "prev") + "   " +
		helpKeyStyle.Render("space") + " " + play + "   " +
		navStyle.Render("⏭") + " " + helpEntry("n", "next") + "   " +
		helpEntry("x", "stop") + "   " + helpEntry("r", "reset")
}
