package stagetwin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// subscriber is one connected socket session.
type subscriber struct {
	send     chan []byte
	done     chan struct{}
	stopOnce sync.Once
}

func (s *subscriber) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Broadcast pushes a Socket.IO event to every authenticated session.
func (t *Twin) Broadcast(event string, payload any) {
	frame, err := json.Marshal([]any{event, payload})
	if err != nil {
		t.logger.Warn("twin broadcast marshal", "event", event, "error", err)
		return
	}
	msg := append([]byte("42"), frame...)

	t.mu.Lock()
	defer t.mu.Unlock()
	for sub := range t.subs {
		select {
		case sub.send <- msg:
		default:
			t.logger.Warn("twin subscriber backlog full, dropping event", "event", event)
		}
	}
}

// Subscribers returns the number of authenticated socket sessions.
func (t *Twin) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Dials returns how many socket connections have been accepted.
func (t *Twin) Dials() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dials
}

// Pongs returns how many pong packets clients have sent.
func (t *Twin) Pongs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pongs
}

// DropConnections ends every socket session from the server side.
func (t *Twin) DropConnections() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for sub := range t.subs {
		sub.stop()
	}
}

func (t *Twin) subscribe() *subscriber {
	sub := &subscriber{send: make(chan []byte, 64), done: make(chan struct{})}
	t.mu.Lock()
	t.subs[sub] = struct{}{}
	t.mu.Unlock()
	return sub
}

func (t *Twin) unsubscribe(sub *subscriber) {
	t.mu.Lock()
	delete(t.subs, sub)
	t.mu.Unlock()
	sub.stop()
}

// serveSocket speaks just enough Engine.IO v4 / Socket.IO v4 for one namespace.
func (t *Twin) serveSocket(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("transport") != "websocket" {
		writeError(w, http.StatusBadRequest, "Only websocket transport is supported")
		return
	}
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		t.logger.Warn("twin socket accept", "error", err)
		return
	}
	defer conn.CloseNow() //nolint:errcheck

	t.mu.Lock()
	t.dials++
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	pingMs := int64(25000)
	if t.pingInterval > 0 {
		pingMs = t.pingInterval.Milliseconds()
	}
	open := fmt.Sprintf(`0{"sid":%q,"upgrades":[],"pingInterval":%d,"pingTimeout":20000,"maxPayload":1000000}`, uuid.NewString(), pingMs)
	if err := conn.Write(ctx, websocket.MessageText, []byte(open)); err != nil {
		return
	}

	_, data, err := conn.Read(ctx)
	if err != nil {
		return
	}
	packet := string(data)
	if !strings.HasPrefix(packet, "40") {
		conn.Close(websocket.StatusPolicyViolation, "expected connect packet") //nolint:errcheck
		return
	}
	var auth struct {
		RoomID string `json:"room_id"`
		APIKey string `json:"api_key"`
	}
	if body := strings.TrimPrefix(packet, "40"); body != "" {
		_ = json.Unmarshal([]byte(body), &auth) //nolint:errcheck // bad auth is rejected below
	}
	if auth.RoomID != t.roomID || auth.APIKey != t.apiKey {
		conn.Write(ctx, websocket.MessageText, []byte(`44{"message":"Unauthorized"}`)) //nolint:errcheck
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, []byte(fmt.Sprintf(`40{"sid":%q}`, uuid.NewString()))); err != nil {
		return
	}

	sub := t.subscribe()
	defer t.unsubscribe(sub)
	t.logger.Debug("twin socket session started")

	readErr := make(chan error, 1)
	go func() {
		for {
			_, msg, err := conn.Read(ctx)
			if err != nil {
				readErr <- err
				return
			}
			if string(msg) == "3" {
				t.mu.Lock()
				t.pongs++
				t.mu.Unlock()
			}
		}
	}()

	var pingC <-chan time.Time
	if t.pingInterval > 0 {
		ticker := time.NewTicker(t.pingInterval)
		defer ticker.Stop()
		pingC = ticker.C
	}

	for {
		select {
		case msg := <-sub.send:
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-pingC:
			if err := conn.Write(ctx, websocket.MessageText, []byte("2")); err != nil {
				return
			}
		case <-sub.done:
			conn.Close(websocket.StatusGoingAway, "server closing") //nolint:errcheck
			return
		case <-readErr:
			return
		case <-ctx.Done():
			return
		}
	}
}
