package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/naveenspark/stageremote/internal/config"
	"github.com/naveenspark/stageremote/internal/credstore"
	"github.com/naveenspark/stageremote/internal/events"
	"github.com/naveenspark/stageremote/internal/tui"
	"github.com/naveenspark/stageremote/internal/widget"
	"github.com/naveenspark/stageremote/pkg/client"
	"github.com/naveenspark/stageremote/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs, built once from the config.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	logFile io.Closer
	prefs   *widget.Prefs
	store   *credstore.Store
	client  *client.Client
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, logFile, err := openLog(cfg)
	if err != nil {
		return nil, err
	}
	prefs := widget.NewPrefs(cfg.SharedPrefsPath())
	store, err := credstore.Open(cfg.CredentialsPath(), prefs, logger)
	if err != nil {
		logFile.Close() //nolint:errcheck
		return nil, err
	}
	c := client.New(cfg.Service.APIURL, store, client.WithTimeout(cfg.Service.RequestTimeout.Duration))
	return &env{cfg: cfg, logger: logger, logFile: logFile, prefs: prefs, store: store, client: c}, nil
}

func (e *env) close() {
	e.logFile.Close() //nolint:errcheck
}

// openLog writes logs to a file; the TUI owns the terminal.
func openLog(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	return logger, f, nil
}

func run(args []string) error {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "--version", "version", "-v":
		fmt.Println("stageremote " + version)
		return nil
	case "help", "--help", "-h":
		printHelp()
		return nil
	case "sandbox":
		addr := "127.0.0.1:8787"
		if len(args) > 1 {
			addr = args[1]
		}
		return runSandbox(addr)
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()
	e.logger.Debug("command", "name", cmd, "version", version)

	switch cmd {
	case "":
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return e.runStatus(os.Stdout)
		}
		return e.launchTUI(false)
	case "setup":
		return e.launchTUI(true)
	case "login":
		if len(args) < 3 {
			return errors.New("usage: stageremote login ROOM_ID API_KEY")
		}
		return e.runLogin(args[1], args[2])
	case "logout":
		return e.runLogout()
	case "rooms":
		printRooms(os.Stdout, e.store.ListSaved(), e.store.Active(), colorOutput())
		return nil
	case "timers":
		return e.runTimers(os.Stdout)
	case "status":
		return e.runStatus(os.Stdout)
	case "open":
		if len(args) < 2 {
			return errors.New("usage: stageremote open stageremote://ACTION")
		}
		return e.runOpen(args[1])
	case "widget":
		if len(args) < 2 {
			return fmt.Errorf("usage: stageremote widget %s", strings.Join(widget.Actions, "|"))
		}
		return e.runWidget(args[1])
	}

	if fn, ok := actionFunc(e.client, cmd); ok {
		return e.runAction(cmd, fn)
	}
	printHelp()
	return fmt.Errorf("unknown command %q", cmd)
}

func (e *env) launchTUI(setupWizard bool) error {
	cfg, logger := e.cfg, e.logger
	app := tui.NewApp(tui.Options{
		Client: e.client,
		Store:  e.store,
		NewLive: func(creds domain.Credentials) *events.Client {
			return events.New(events.Config{
				URL:  cfg.Service.SocketURL,
				Path: cfg.Service.SocketPath,
				Backoff: events.Backoff{
					Min:        cfg.Reconnect.MinDelay.Duration,
					Max:        cfg.Reconnect.MaxDelay.Duration,
					Multiplier: cfg.Reconnect.Multiplier,
					Jitter:     cfg.Reconnect.Jitter,
				},
			}, creds, logger)
		},
		Presets:   cfg.PresetList(),
		ViewerURL: cfg.Service.ViewerURL,
		Setup:     setupWizard,
		Logger:    logger,
	})
	defer app.Shutdown()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func (e *env) runLogin(roomID, apiKey string) error {
	creds := domain.Credentials{RoomID: roomID, APIKey: apiKey}.Normalize()
	if !creds.Complete() {
		return client.ErrMissingCredentials
	}
	if err := e.store.Save(creds); err != nil {
		return err
	}
	fmt.Printf("Saved room %s.\n", creds.RoomID)
	return nil
}

func (e *env) runLogout() error {
	if _, ok := e.store.Load(); !ok {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := e.store.Clear(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func (e *env) runTimers(w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Service.RequestTimeout.Duration)
	defer cancel()
	items, err := e.client.ListTimers(ctx)
	if err != nil {
		return errors.New(client.UserMessage(err))
	}
	st, err := e.client.GetStatus(ctx)
	if err != nil {
		return errors.New(client.UserMessage(err))
	}
	printTimers(w, items, *st, colorOutput())
	return nil
}

func (e *env) runStatus(w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Service.RequestTimeout.Duration)
	defer cancel()
	st, err := e.client.GetStatus(ctx)
	if err != nil {
		return errors.New(client.UserMessage(err))
	}
	var current *domain.Timer
	if st.TimerID != "" {
		current, _ = e.client.GetTimer(ctx, st.TimerID) //nolint:errcheck // name is cosmetic
	}
	printStatus(w, e.store.Active().RoomID, *st, current, colorOutput())
	return nil
}

func (e *env) runAction(name string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Service.RequestTimeout.Duration)
	defer cancel()
	if err := fn(ctx); err != nil {
		e.logger.Warn("action failed", "action", name, "error", err)
		return errors.New(client.UserMessage(err))
	}
	e.logger.Info("action", "action", name)
	return nil
}

// runOpen handles a stageremote:// link. Unknown actions bring up the app.
func (e *env) runOpen(uri string) error {
	action, err := parseDeepLink(uri)
	if err != nil {
		return err
	}
	if fn, ok := deepLinkAction(e.client, action); ok {
		return e.runAction(action, fn)
	}
	return e.launchTUI(false)
}

// runWidget fires a widget tap from the shared prefs and waits for it to
// land. An unconfigured widget opens the app instead.
func (e *env) runWidget(action string) error {
	b := widget.NewBridge(e.prefs, e.cfg.Service.APIURL, nil, e.logger)
	err := b.Tap(action)
	if errors.Is(err, widget.ErrNotConfigured) {
		return e.launchTUI(false)
	}
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		b.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(e.cfg.Service.RequestTimeout.Duration + time.Second):
		e.logger.Warn("widget tap still in flight at exit", "action", action)
	}
	return nil
}

// actionFunc maps a transport command name to a dispatcher call.
func actionFunc(c *client.Client, name string) (func(context.Context) error, bool) {
	switch name {
	case "toggle":
		return c.StartOrStop, true
	case "start":
		return func(ctx context.Context) error { return c.Start(ctx, "") }, true
	case "stop":
		return c.Stop, true
	case "next":
		return c.Next, true
	case "previous", "prev":
		return c.Previous, true
	case "reset":
		return c.Reset, true
	}
	return nil, false
}

func colorOutput() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}
