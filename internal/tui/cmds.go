package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stageremote/internal/timers"
	"github.com/naveenspark/stageremote/pkg/client"
	"github.com/naveenspark/stageremote/pkg/domain"
)

// timersRefreshedMsg reports a finished cache refresh. The list itself is
// read back from the cache.
type timersRefreshedMsg struct {
	err error
}

// statusLoadedMsg carries the playback status fetched on connect. gen is
// the live generation the fetch was issued for.
type statusLoadedMsg struct {
	gen    int
	status domain.PlaybackStatus
	err    error
}

// actionDoneMsg reports a finished dispatcher call. success is the toast
// shown when err is nil (none when empty); refresh asks for a list refresh.
type actionDoneMsg struct {
	success string
	refresh bool
	err     error
}

func refreshCmd(cache *timers.Cache) tea.Cmd {
	return func() tea.Msg {
		return timersRefreshedMsg{err: cache.Refresh(context.Background())}
	}
}

func statusCmd(c *client.Client, gen int) tea.Cmd {
	return func() tea.Msg {
		st, err := c.GetStatus(context.Background())
		if err != nil {
			return statusLoadedMsg{gen: gen, err: err}
		}
		return statusLoadedMsg{gen: gen, status: *st}
	}
}

func actionCmd(success string, refresh bool, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{success: success, refresh: refresh, err: fn(context.Background())}
	}
}
