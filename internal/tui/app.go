package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stageremote/internal/browser"
	"github.com/naveenspark/stageremote/internal/credstore"
	"github.com/naveenspark/stageremote/internal/events"
	"github.com/naveenspark/stageremote/internal/timers"
	"github.com/naveenspark/stageremote/pkg/client"
	"github.com/naveenspark/stageremote/pkg/domain"
)

// Options wires the App to its collaborators.
type Options struct {
	Client *client.Client
	Store  *credstore.Store

	// NewLive builds the live channel for a credential pair. Nil disables
	// live updates.
	NewLive func(domain.Credentials) *events.Client

	Presets   []domain.Preset
	ViewerURL string

	// Setup opens the wizard even when credentials are present.
	Setup bool

	// ReadClipboard and OpenURL default to the system clipboard and browser.
	ReadClipboard func() (string, error)
	OpenURL       func(string) error

	Logger *slog.Logger
}

// App is the root Bubbletea model.
type App struct {
	client        *client.Client
	store         *credstore.Store
	cache         *timers.Cache
	newLive       func(domain.Credentials) *events.Client
	presets       []domain.Preset
	viewerURL     string
	readClipboard func() (string, error)
	openURL       func(string) error
	logger        *slog.Logger

	live      *events.Client
	liveGen   int
	connState events.State
	connErr   string
	playback  domain.PlaybackStatus

	list     timerList
	panel    panel
	add      addPanel
	adjust   adjustPanel
	message  messagePanel
	settings settingsPanel
	rooms    roomsPanel
	wizard   wizardPanel

	helpOpen   bool
	helpCursor int

	toast    toast
	toastSeq int

	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates the TUI. The live channel for the active room is built
// here and started by Init. Without complete credentials (or with
// Options.Setup) the setup wizard opens first.
func NewApp(opts Options) App {
	a := App{
		client:        opts.Client,
		store:         opts.Store,
		cache:         timers.NewCache(opts.Client),
		newLive:       opts.NewLive,
		presets:       opts.Presets,
		viewerURL:     opts.ViewerURL,
		readClipboard: opts.ReadClipboard,
		openURL:       opts.OpenURL,
		logger:        opts.Logger,
	}
	if len(a.presets) == 0 {
		a.presets = domain.DefaultPresets
	}
	if a.readClipboard == nil {
		a.readClipboard = clipboard.ReadAll
	}
	if a.openURL == nil {
		a.openURL = browser.Open
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}

	complete := a.store.Active().Complete()
	if opts.Setup || !complete {
		a.panel = panelWizard
		a.wizard = newWizardPanel()
		a.wizard.url.Focus()
	}
	if complete && a.newLive != nil {
		a.live = a.newLive(a.store.Active())
		a.liveGen = 1
	}
	return a
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{shimmerTickCmd()}
	if a.panel == panelWizard {
		cmds = append(cmds, textinput.Blink)
	}
	if !a.store.Active().Complete() {
		return tea.Batch(cmds...)
	}
	if a.live != nil {
		a.live.Start(context.Background())
		cmds = append(cmds, a.listen())
	}
	cmds = append(cmds, refreshCmd(a.cache), statusCmd(a.client, a.liveGen))
	return tea.Batch(cmds...)
}

// Shutdown releases the live channel. Call it after the program exits.
func (a App) Shutdown() {
	if a.live != nil {
		a.live.Close()
	}
}

// applyCredentials persists creds as the active pair and rebuilds
// everything that depends on it.
func (a App) applyCredentials(creds domain.Credentials, note string) (App, tea.Cmd) {
	if err := a.store.Save(creds); err != nil {
		a.logger.Error("save credentials", "error", err)
		return a.withToast("could not save credentials: "+err.Error(), true)
	}
	a.logger.Info("credentials changed", "room_id", creds.RoomID)
	a, cmd := a.reconnect()
	a, toastCmd := a.withToast(note, false)
	return a, tea.Batch(cmd, toastCmd)
}

func (a App) openViewerCmd(roomID string) tea.Cmd {
	open := a.openURL
	url := domain.ViewerURL(a.viewerURL, roomID)
	return func() tea.Msg {
		if err := open(url); err != nil {
			return actionDoneMsg{err: fmt.Errorf("open browser: %w", err)}
		}
		return actionDoneMsg{success: "opened " + url}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case toastExpiredMsg:
		if msg.id == a.toast.id {
			a.toast = toast{}
		}
		return a, nil

	case timersRefreshedMsg:
		if msg.err != nil {
			a.logger.Warn("refresh timers", "error", msg.err)
			return a.withToast(client.UserMessage(msg.err), true)
		}
		a.list = a.list.clamp(a.cache.Len())
		return a, nil

	case statusLoadedMsg:
		// A fetch issued for a previous room lands after the switch.
		if msg.gen != a.liveGen {
			return a, nil
		}
		if msg.err == nil {
			a.playback = msg.status
			a.list = a.list.applyPlayback(msg.status)
		}
		return a, nil

	case actionDoneMsg:
		if msg.err != nil {
			a.logger.Warn("action failed", "error", msg.err)
			return a.withToast(client.UserMessage(msg.err), true)
		}
		var cmds []tea.Cmd
		if msg.refresh {
			cmds = append(cmds, refreshCmd(a.cache))
		}
		if msg.success != "" {
			var toastCmd tea.Cmd
			a, toastCmd = a.withToast(msg.success, false)
			cmds = append(cmds, toastCmd)
		}
		return a, tea.Batch(cmds...)

	case eventMsg:
		return a.handleEvent(msg)

	case clipboardMsg:
		return a.handleClipboard(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Cursor blink and other input-internal messages.
	return a.updateInputs(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.helpOpen {
		switch key {
		case "h", "?", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		case "j", "down":
			if a.helpCursor < len(helpItems)-1 {
				a.helpCursor++
			}
		case "k", "up":
			if a.helpCursor > 0 {
				a.helpCursor--
			}
		case "enter":
			item := helpItems[a.helpCursor]
			open := a.openURL
			return a, func() tea.Msg {
				open(item.url) //nolint:errcheck // best-effort browser open
				return nil
			}
		}
		return a, nil
	}

	// Inline rename captures every key; enter and esc both leave it.
	if a.list.editing() {
		switch key {
		case "enter", "esc":
			var req *renameRequest
			a.list, req = a.list.endEdit()
			if req == nil {
				return a, nil
			}
			c := a.client
			return a, actionCmd("", true, func(ctx context.Context) error {
				return c.RenameTimer(ctx, req.id, req.name)
			})
		default:
			a.list.editBuf = editRune(a.list.editBuf, key)
			return a, nil
		}
	}

	if a.list.confirmDeleteID != "" {
		id := a.list.confirmDeleteID
		a.list.confirmDeleteID = ""
		if key != "y" {
			return a, nil
		}
		name := id
		if t, ok := a.cache.Find(id); ok {
			name = t.DisplayName()
		}
		if a.list.selectedID == id {
			a.list.selectedID = ""
		}
		c := a.client
		return a, actionCmd("deleted "+name, true, func(ctx context.Context) error {
			return c.DeleteTimer(ctx, id)
		})
	}

	if a.panel != panelNone {
		if !a.panelCapturesText() {
			if cmd, ok := a.transportKeyInPanel(key); ok {
				return a, cmd
			}
		}
		return a.updatePanel(msg)
	}

	if cmd, ok := a.transportKey(key); ok {
		return a, cmd
	}

	items := a.cache.Items()
	switch key {
	case "q":
		return a, tea.Quit
	case "h", "?":
		a.helpOpen = true
		a.helpCursor = 0
	case "j", "down":
		a.list = a.list.move(1, len(items))
	case "k", "up":
		a.list = a.list.move(-1, len(items))
	case "enter":
		if t, ok := a.list.current(items); ok {
			a.list = a.list.toggleSelect(t.ID, a.playback.TimerID)
		}
	case "e":
		if t, ok := a.list.current(items); ok {
			a.list = a.list.beginEdit(t)
		}
	case "d":
		if t, ok := a.list.current(items); ok {
			a.list.confirmDeleteID = t.ID
		}
	case "f":
		return a, refreshCmd(a.cache)
	case "o":
		room := a.store.Active().RoomID
		if room == "" {
			return a.withToast(client.UserMessage(client.ErrMissingCredentials), true)
		}
		return a, a.openViewerCmd(room)
	case "ctrl+r":
		if a.live == nil {
			return a.withToast("live updates need a room id and api key", true)
		}
		a.live.Retry()
		a.connState = events.Connecting
		return a, nil
	case "a":
		return a.openPanel(panelAdd)
	case "t":
		return a.openPanel(panelAdjust)
	case "m":
		return a.openPanel(panelMessage)
	case "s":
		return a.openPanel(panelSettings)
	case "w":
		return a.openPanel(panelRooms)
	case "g":
		return a.openPanel(panelWizard)
	}
	return a, nil
}

// transportKeyInPanel lets the play/pause key work while a list-style panel
// is open.
func (a App) transportKeyInPanel(key string) (tea.Cmd, bool) {
	if key != " " && key != "space" {
		return nil, false
	}
	return a.transportKey(key)
}

// updateInputs forwards non-key messages (cursor blink) to the focused input.
func (a App) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.panel {
	case panelAdd:
		if a.add.custom {
			a.add.inputs[a.add.focus], cmd = a.add.inputs[a.add.focus].Update(msg)
		}
	case panelMessage:
		a.message.input, cmd = a.message.input.Update(msg)
	case panelSettings:
		a.settings.inputs[a.settings.focus], cmd = a.settings.inputs[a.settings.focus].Update(msg)
	case panelRooms:
		if a.rooms.naming {
			a.rooms.name, cmd = a.rooms.name.Update(msg)
		}
	case panelWizard:
		a.wizard.url, cmd = a.wizard.url.Update(msg)
	}
	return a, cmd
}

func (a App) headerView() string {
	logo := center(renderShimmerLogo(a.frame), a.width)

	active := a.store.Active()
	var parts []string
	if active.RoomID != "" {
		parts = append(parts, selectedStyle.Render("room "+active.RoomID))
	} else {
		parts = append(parts, dimStyle.Render("no room"))
	}

	switch a.connState {
	case events.Connected:
		parts = append(parts, onlineStyle.Render("●")+" "+dimStyle.Render("live"))
	case events.Connecting:
		parts = append(parts, pausedStyle.Render("●")+" "+dimStyle.Render("connecting"))
	default:
		label := "offline"
		if a.connErr != "" {
			label += " (ctrl+r to retry)"
		}
		parts = append(parts, offlineStyle.Render("●")+" "+dimStyle.Render(label))
	}

	if a.playback.Running {
		parts = append(parts, runningStyle.Render("running"))
	} else {
		parts = append(parts, pausedStyle.Render("paused"))
	}
	if a.playback.TimerID != "" {
		if t, ok := a.cache.Find(a.playback.TimerID); ok {
			parts = append(parts, normalStyle.Render(truncStr(t.DisplayName(), 30)))
		}
	}
	return logo + "\n" + center(strings.Join(parts, metaStyle.Render(" · ")), a.width)
}

func (a App) helpBar() string {
	switch {
	case a.helpOpen:
		return " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	case a.list.editing():
		return " " + helpEntry("enter", "save name") + "  " + helpEntry("esc", "done")
	case a.list.confirmDeleteID != "":
		return " " + helpEntry("y", "confirm delete") + "  " + helpEntry("any key", "cancel")
	case a.panel != panelNone:
		return ""
	}
	return " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "select") + "  " + helpEntry("e", "rename") + "  " +
		helpEntry("d", "delete") + "  " + helpEntry("a", "add") + "  " + helpEntry("t", "time") + "  " +
		helpEntry("m", "message") + "  " + helpEntry("w", "rooms") + "  " + helpEntry("s", "settings") + "  " +
		helpEntry("h", "help") + "  " + helpEntry("q", "quit")
}

func (a App) View() string {
	header := a.headerView()

	var body string
	switch {
	case a.helpOpen:
		body = helpView(a.helpCursor)
	default:
		// Chrome: header(2) + toast(1) + transport(1) + help(1) = 5 lines
		listRows := a.height - 6
		if a.panel != panelNone {
			listRows -= 10
		}
		if listRows < 3 {
			listRows = 3
		}
		body = a.list.view(a.cache.Items(), a.playback, a.width, listRows)
		if a.panel != panelNone {
			body = strings.TrimRight(body, "\n") + "\n\n" + a.panelView()
		}
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, body, a.toast.view(), a.transportView(), a.helpBar())
}
