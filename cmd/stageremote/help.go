package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#22d3ee")).
		Bold(true).
		Render("S T A G E R E M O T E")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("A remote control for stagetimer.io rooms.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"stageremote", "Open the remote (interactive TUI)"},
		{"stageremote setup", "Connect a room step by step"},
		{"stageremote login ROOM KEY", "Save a room id and API key"},
		{"stageremote logout", "Forget the active room"},
		{"stageremote rooms", "List saved rooms"},
		{"stageremote timers", "List timers in the active room"},
		{"stageremote status", "Show playback status"},
		{"stageremote toggle", "Start or pause (also start, stop, next, previous, reset)"},
		{"stageremote open URI", "Handle a stageremote:// link"},
		{"stageremote widget ACTION", "Widget tap: toggle, stop, next, previous"},
		{"stageremote sandbox [ADDR]", "Run a local stand-in service"},
		{"stageremote --version", "Show version"},
		{"stageremote help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-28s", c.cmd)), descStyle.Render(c.desc))
	}
	url := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("https://stagetimer.io/docs/api-v1/")
	fmt.Printf("\n  %s\n\n", url)
}
