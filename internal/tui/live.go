package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stageremote/internal/events"
	"github.com/naveenspark/stageremote/pkg/domain"
)

// eventMsg is one event from the live channel. gen tags the client that
// produced it; events from a replaced client are dropped.
type eventMsg struct {
	gen    int
	ev     events.Event
	closed bool
}

func listenEvents(gen int, ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		return eventMsg{gen: gen, ev: ev, closed: !ok}
	}
}

// listen re-arms the listener for the current client.
func (a App) listen() tea.Cmd {
	if a.live == nil {
		return nil
	}
	return listenEvents(a.liveGen, a.live.Events())
}

// reconnect tears down the live channel and builds a new one for the active
// credentials. It also re-fetches the list and playback status.
func (a App) reconnect() (App, tea.Cmd) {
	if a.live != nil {
		a.live.Close()
		a.live = nil
	}
	a.liveGen++
	a.connState = events.Disconnected
	a.connErr = ""
	a.playback = domain.PlaybackStatus{}
	a.list = timerList{}

	if !a.store.Active().Complete() {
		a.cache.Replace(nil)
		return a, nil
	}

	var cmds []tea.Cmd
	if a.newLive != nil {
		a.live = a.newLive(a.store.Active())
		a.live.Start(context.Background())
		a.connState = a.live.State()
		cmds = append(cmds, a.listen())
	}
	cmds = append(cmds, refreshCmd(a.cache), statusCmd(a.client, a.liveGen))
	return a, tea.Batch(cmds...)
}

func (a App) handleEvent(msg eventMsg) (App, tea.Cmd) {
	if msg.gen != a.liveGen || a.live == nil {
		return a, nil
	}
	if msg.closed {
		a.connState = events.Disconnected
		return a, nil
	}

	switch msg.ev.Kind {
	case events.EventConnected:
		a.connState = events.Connected
		a.connErr = ""
		return a, tea.Batch(a.listen(), refreshCmd(a.cache), statusCmd(a.client, a.liveGen))

	case events.EventDisconnected:
		a.connState = events.Disconnected
		if msg.ev.Err != nil {
			a.connErr = msg.ev.Err.Error()
		}

	case events.EventPlayback:
		a.playback = msg.ev.Playback
		a.list = a.list.applyPlayback(msg.ev.Playback)

	case events.EventTimersChanged:
		return a, tea.Batch(a.listen(), refreshCmd(a.cache))
	}
	return a, a.listen()
}
