// Package events keeps a Socket.IO v4 session to the stagetimer push channel
// open and turns its packets into typed events.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/naveenspark/stageremote/pkg/domain"
)

// State is the connection state of a Client.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Kind identifies an Event.
type Kind int

const (
	EventConnected Kind = iota
	EventDisconnected
	EventPlayback
	EventTimersChanged
)

// Event is delivered on Client.Events.
type Event struct {
	Kind     Kind
	Playback domain.PlaybackStatus // EventPlayback
	Err      error                 // EventDisconnected
}

// Config locates the push channel.
type Config struct {
	URL        string // service root, e.g. https://api.stagetimer.io
	Path       string // e.g. /v1/socket.io
	Backoff    Backoff
	HTTPClient *http.Client

	// HandshakeTimeout bounds the dial plus the open and connect packets.
	HandshakeTimeout time.Duration
}

const eventBuffer = 64

// Client owns one room's push session. It reconnects on its own until
// closed. Create a new Client when the credentials change.
type Client struct {
	cfg    Config
	creds  domain.Credentials
	logger *slog.Logger

	events chan Event
	retry  chan struct{}
	state  atomic.Int32

	mu      sync.Mutex
	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New returns a client for creds. Nothing is dialed until Start.
func New(cfg Config, creds domain.Credentials, logger *slog.Logger) *Client {
	if cfg.Backoff.Min <= 0 {
		cfg.Backoff = DefaultBackoff()
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		cfg:    cfg,
		creds:  creds,
		logger: logger.With("room_id", creds.RoomID),
		events: make(chan Event, eventBuffer),
		retry:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Credentials returns the pair this client was built for.
func (c *Client) Credentials() domain.Credentials { return c.creds }

// Events returns the event stream. It is closed by Close.
func (c *Client) Events() <-chan Event { return c.events }

// State returns the current connection state.
func (c *Client) State() State { return State(c.state.Load()) }

// Start begins connecting in the background. With incomplete credentials it
// does nothing and the client stays Disconnected. Calling Start twice is a
// no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.started = true
	if !c.creds.Complete() {
		c.logger.Debug("event channel idle: credentials incomplete")
		close(c.done)
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(runCtx)
}

// Retry skips the current reconnect wait. It has no effect while connected.
func (c *Client) Retry() {
	if c.State() == Connected {
		return
	}
	select {
	case c.retry <- struct{}{}:
	default:
	}
}

// Close stops the session and closes Events. It waits for the background
// goroutine to exit.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	started, cancel := c.started, c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if started {
		<-c.done
	}
	c.state.Store(int32(Disconnected))
	close(c.events)
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	defer c.state.Store(int32(Disconnected))

	attempt := 0
	for {
		c.state.Store(int32(Connecting))
		connected, err := c.session(ctx)
		if ctx.Err() != nil {
			return
		}
		c.state.Store(int32(Disconnected))
		if connected {
			attempt = 0
		}
		c.emit(ctx, Event{Kind: EventDisconnected, Err: err})

		delay := c.cfg.Backoff.Delay(attempt)
		attempt++
		c.logger.Info("event channel disconnected", "error", err, "retry_in", delay, "attempt", attempt)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-c.retry:
			timer.Stop()
			c.logger.Debug("event channel retry requested")
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// session runs one connection until it ends. connected reports whether the
// namespace handshake succeeded.
func (c *Client) session(ctx context.Context) (connected bool, err error) {
	hsCtx, cancel := context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(hsCtx, socketURL(c.cfg.URL, c.cfg.Path), &websocket.DialOptions{
		HTTPClient: c.cfg.HTTPClient,
	})
	if err != nil {
		return false, fmt.Errorf("events: dial: %w", err)
	}
	defer conn.CloseNow() //nolint:errcheck

	_, data, err := conn.Read(hsCtx)
	if err != nil {
		return false, fmt.Errorf("events: read open: %w", err)
	}
	open, err := parseOpen(string(data))
	if err != nil {
		return false, err
	}

	pkt, err := connectPacket(c.creds.RoomID, c.creds.APIKey)
	if err != nil {
		return false, err
	}
	if err := conn.Write(hsCtx, websocket.MessageText, pkt); err != nil {
		return false, fmt.Errorf("events: write connect: %w", err)
	}

	for !connected {
		_, data, err := conn.Read(hsCtx)
		if err != nil {
			return false, fmt.Errorf("events: read connect: %w", err)
		}
		packet := string(data)
		switch {
		case strings.HasPrefix(packet, sioConnectError):
			return false, parseConnectError(packet)
		case strings.HasPrefix(packet, sioConnect):
			connected = true
		case packet == pktPing:
			if err := conn.Write(hsCtx, websocket.MessageText, []byte(pktPong)); err != nil {
				return false, fmt.Errorf("events: write pong: %w", err)
			}
		case packet == pktClose:
			return false, errServerClosed
		}
	}

	c.state.Store(int32(Connected))
	c.logger.Info("event channel connected", "sid", open.SID)
	c.emit(ctx, Event{Kind: EventConnected})

	return true, c.readLoop(ctx, conn, open.liveness())
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, liveness time.Duration) error {
	for {
		readCtx, cancel := context.WithTimeout(ctx, liveness)
		_, data, err := conn.Read(readCtx)
		cancel()
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return errors.New("events: ping timeout")
			}
			return fmt.Errorf("events: read: %w", err)
		}

		packet := string(data)
		switch {
		case packet == pktPing:
			if err := conn.Write(ctx, websocket.MessageText, []byte(pktPong)); err != nil {
				return fmt.Errorf("events: write pong: %w", err)
			}
		case packet == pktClose, strings.HasPrefix(packet, sioDisconnect):
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
			return errServerClosed
		case strings.HasPrefix(packet, sioEvent):
			c.dispatch(ctx, packet)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, packet string) {
	name, payload, err := parseEvent(packet)
	if err != nil {
		c.logger.Warn("event channel: bad packet", "error", err)
		return
	}
	switch name {
	case "playback_status":
		st, err := domain.ParsePlaybackStatus(payload)
		if err != nil {
			c.logger.Warn("event channel: bad playback_status", "error", err)
			return
		}
		c.emit(ctx, Event{Kind: EventPlayback, Playback: st})
	case "timers":
		c.emit(ctx, Event{Kind: EventTimersChanged})
	default:
		c.logger.Debug("event channel: ignored event", "event", name)
	}
}

func (c *Client) emit(ctx context.Context, ev Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}

func socketURL(base, path string) string {
	u := strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/" + strings.Trim(path, "/") + "/?EIO=4&transport=websocket"
}
