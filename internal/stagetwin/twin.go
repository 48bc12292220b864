// Package stagetwin is an in-process stand-in for the stagetimer.io REST API
// and Socket.IO push channel. It backs the tests and the sandbox command.
package stagetwin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/naveenspark/stageremote/pkg/domain"
)

// Call is one recorded REST request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	At     time.Time
}

// Twin holds all service state in memory.
type Twin struct {
	roomID string
	apiKey string
	logger *slog.Logger

	pingInterval time.Duration

	mu             sync.Mutex
	timers         []domain.Timer
	status         domain.PlaybackStatus
	message        string
	messageVisible bool
	flashing       bool
	calls          []Call
	subs           map[*subscriber]struct{}
	pongs          int
	dials          int

	router chi.Router
}

// Option configures a Twin.
type Option func(*Twin)

// WithLogger logs every request and socket session.
func WithLogger(l *slog.Logger) Option {
	return func(t *Twin) { t.logger = l }
}

// WithPingInterval makes the socket endpoint send Engine.IO pings.
func WithPingInterval(d time.Duration) Option {
	return func(t *Twin) { t.pingInterval = d }
}

// New creates a twin that accepts exactly one room id / API key pair.
func New(roomID, apiKey string, opts ...Option) *Twin {
	t := &Twin{
		roomID: roomID,
		apiKey: apiKey,
		logger: slog.New(slog.DiscardHandler),
		subs:   make(map[*subscriber]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.router = t.routes()
	return t
}

func (t *Twin) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(t.record)
	r.Get("/v1/socket.io", t.serveSocket)
	r.Get("/v1/socket.io/", t.serveSocket)
	r.With(t.queryAuth).Get("/v1/{endpoint}", t.handleEndpoint)
	r.Post("/v1/rooms/{room}/{action}", t.handleRoomAction)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	return r
}

// ServeHTTP implements http.Handler.
func (t *Twin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.router.ServeHTTP(w, r)
}

// Seed replaces the timer list. Timers without an id get one.
func (t *Twin) Seed(timers ...domain.Timer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timers = make([]domain.Timer, 0, len(timers))
	for _, tm := range timers {
		if tm.ID == "" {
			tm.ID = uuid.NewString()
		}
		t.timers = append(t.timers, tm)
	}
}

// Timers returns a copy of the timer list.
func (t *Twin) Timers() []domain.Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Timer, len(t.timers))
	copy(out, t.timers)
	return out
}

// Status returns the playback status.
func (t *Twin) Status() domain.PlaybackStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Message returns the on-screen message and whether it is shown.
func (t *Twin) Message() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message, t.messageVisible
}

// Flashing reports whether the flash indicator is on.
func (t *Twin) Flashing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flashing
}

// Calls returns every recorded REST request.
func (t *Twin) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}

// CallCount counts recorded requests whose path equals path.
func (t *Twin) CallCount(path string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.calls {
		if c.Path == path {
			n++
		}
	}
	return n
}

// ResetCalls clears the request log.
func (t *Twin) ResetCalls() {
	t.mu.Lock()
	t.calls = nil
	t.mu.Unlock()
}

func (t *Twin) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.mu.Lock()
		t.calls = append(t.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), At: time.Now()})
		t.mu.Unlock()
		t.logger.Debug("twin request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (t *Twin) queryAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("room_id") == "" || q.Get("api_key") == "" {
			writeError(w, http.StatusBadRequest, "Missing room_id or api_key")
			return
		}
		if q.Get("room_id") != t.roomID || q.Get("api_key") != t.apiKey {
			writeError(w, http.StatusUnauthorized, "Invalid room_id or api_key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *Twin) handleEndpoint(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch chi.URLParam(r, "endpoint") {
	case "start":
		if id := q.Get("timer_id"); id != "" && !t.hasTimer(id) {
			writeError(w, http.StatusNotFound, "Timer not found")
			return
		}
		t.setPlayback(func(st *domain.PlaybackStatus, timers []domain.Timer) {
			if id := q.Get("timer_id"); id != "" {
				st.TimerID = id
			} else if st.TimerID == "" && len(timers) > 0 {
				st.TimerID = timers[0].ID
			}
			st.Running = true
		})
		writeOK(w, "Timer started", nil)
	case "stop":
		t.setPlayback(func(st *domain.PlaybackStatus, _ []domain.Timer) { st.Running = false })
		writeOK(w, "Timer stopped", nil)
	case "start_or_stop":
		t.setPlayback(func(st *domain.PlaybackStatus, timers []domain.Timer) {
			if st.TimerID == "" && len(timers) > 0 {
				st.TimerID = timers[0].ID
			}
			st.Running = !st.Running
		})
		writeOK(w, "Playback toggled", nil)
	case "next":
		t.setPlayback(func(st *domain.PlaybackStatus, timers []domain.Timer) { step(st, timers, 1) })
		writeOK(w, "Next timer", nil)
	case "previous":
		t.setPlayback(func(st *domain.PlaybackStatus, timers []domain.Timer) { step(st, timers, -1) })
		writeOK(w, "Previous timer", nil)
	case "reset":
		t.setPlayback(func(st *domain.PlaybackStatus, _ []domain.Timer) { st.Running = false })
		writeOK(w, "Timer reset", nil)
	case "jump":
		if _, err := strconv.ParseInt(q.Get("milliseconds"), 10, 64); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid milliseconds")
			return
		}
		writeOK(w, "Jumped", nil)
	case "show_message":
		t.mu.Lock()
		if text := q.Get("text"); text != "" {
			t.message = text
		}
		t.messageVisible = true
		t.mu.Unlock()
		writeOK(w, "Message shown", nil)
	case "hide_message":
		t.mu.Lock()
		t.messageVisible = false
		t.mu.Unlock()
		writeOK(w, "Message hidden", nil)
	case "start_flash":
		t.mu.Lock()
		t.flashing = true
		t.mu.Unlock()
		writeOK(w, "Flashing", nil)
	case "stop_flash":
		t.mu.Lock()
		t.flashing = false
		t.mu.Unlock()
		writeOK(w, "Flash stopped", nil)
	case "create_timer":
		t.createTimer(w, q)
	case "update_timer":
		t.updateTimer(w, q)
	case "delete_timer":
		t.deleteTimer(w, q)
	case "get_timer":
		tm, ok := t.findTimer(q.Get("timer_id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Timer not found")
			return
		}
		writeOK(w, "", tm)
	case "get_all_timers":
		writeOK(w, "", t.Timers())
	case "get_status":
		writeOK(w, "", t.Status())
	default:
		writeError(w, http.StatusNotFound, "Unknown endpoint")
	}
}

func (t *Twin) handleRoomAction(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "room") != t.roomID || r.Header.Get("x-api-key") != t.apiKey {
		writeError(w, http.StatusUnauthorized, "Invalid room or api key")
		return
	}
	switch chi.URLParam(r, "action") {
	case "toggle":
		t.setPlayback(func(st *domain.PlaybackStatus, timers []domain.Timer) {
			if st.TimerID == "" && len(timers) > 0 {
				st.TimerID = timers[0].ID
			}
			st.Running = !st.Running
		})
	case "stop":
		t.setPlayback(func(st *domain.PlaybackStatus, _ []domain.Timer) { st.Running = false })
	case "next":
		t.setPlayback(func(st *domain.PlaybackStatus, timers []domain.Timer) { step(st, timers, 1) })
	case "previous":
		t.setPlayback(func(st *domain.PlaybackStatus, timers []domain.Timer) { step(st, timers, -1) })
	default:
		writeError(w, http.StatusNotFound, "Unknown action")
		return
	}
	writeOK(w, "ok", nil)
}

func (t *Twin) createTimer(w http.ResponseWriter, q url.Values) {
	tm := domain.Timer{ID: uuid.NewString(), Name: q.Get("name")}
	for key, dst := range map[string]**int{"hours": &tm.Hours, "minutes": &tm.Minutes, "seconds": &tm.Seconds} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid "+key)
			return
		}
		*dst = domain.IntPtr(n)
	}
	t.mu.Lock()
	t.timers = append(t.timers, tm)
	t.mu.Unlock()
	t.Broadcast("timers", map[string]any{"action": "create"})
	writeOK(w, "Timer created", tm)
}

func (t *Twin) updateTimer(w http.ResponseWriter, q url.Values) {
	id := q.Get("timer_id")
	t.mu.Lock()
	idx := t.indexLocked(id)
	if idx < 0 {
		t.mu.Unlock()
		writeError(w, http.StatusNotFound, "Timer not found")
		return
	}
	if name := q.Get("name"); name != "" {
		t.timers[idx].Name = name
	}
	tm := t.timers[idx]
	t.mu.Unlock()
	t.Broadcast("timers", map[string]any{"action": "update"})
	writeOK(w, "Timer updated", tm)
}

func (t *Twin) deleteTimer(w http.ResponseWriter, q url.Values) {
	id := q.Get("timer_id")
	t.mu.Lock()
	idx := t.indexLocked(id)
	if idx < 0 {
		t.mu.Unlock()
		writeError(w, http.StatusNotFound, "Timer not found")
		return
	}
	t.timers = append(t.timers[:idx], t.timers[idx+1:]...)
	clearedCurrent := t.status.TimerID == id
	if clearedCurrent {
		t.status = domain.PlaybackStatus{}
	}
	st := t.status
	t.mu.Unlock()
	t.Broadcast("timers", map[string]any{"action": "delete"})
	if clearedCurrent {
		t.Broadcast("playback_status", st)
	}
	writeOK(w, "Timer deleted", nil)
}

// setPlayback mutates the status under the lock and broadcasts the result.
func (t *Twin) setPlayback(fn func(st *domain.PlaybackStatus, timers []domain.Timer)) {
	t.mu.Lock()
	fn(&t.status, t.timers)
	st := t.status
	t.mu.Unlock()
	t.Broadcast("playback_status", st)
}

func step(st *domain.PlaybackStatus, timers []domain.Timer, delta int) {
	if len(timers) == 0 {
		return
	}
	idx := 0
	for i, tm := range timers {
		if tm.ID == st.TimerID {
			idx = i + delta
			break
		}
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(timers) {
		idx = len(timers) - 1
	}
	st.TimerID = timers[idx].ID
	st.Running = false
}

func (t *Twin) hasTimer(id string) bool {
	_, ok := t.findTimer(id)
	return ok
}

func (t *Twin) findTimer(id string) (domain.Timer, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx := t.indexLocked(id); idx >= 0 {
		return t.timers[idx], true
	}
	return domain.Timer{}, false
}

func (t *Twin) indexLocked(id string) int {
	for i, tm := range t.timers {
		if tm.ID == id {
			return i
		}
	}
	return -1
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": message, "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
