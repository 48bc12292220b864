package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/naveenspark/stageremote/internal/stagetwin"
	"github.com/naveenspark/stageremote/pkg/domain"
)

const (
	testRoom = "ABCD1234"
	testKey  = "k1-0123456789abcdef"
)

func newTwinClient(t *testing.T) (*Client, *stagetwin.Twin) {
	t.Helper()
	twin := stagetwin.New(testRoom, testKey)
	srv := httptest.NewServer(twin)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/v1", StaticCredentials{RoomID: testRoom, APIKey: testKey}), twin
}

func TestMissingCredentialsShortCircuits(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"ok":true}`)) //nolint:errcheck
	}))
	defer srv.Close()

	incomplete := []domain.Credentials{
		{},
		{RoomID: testRoom},
		{APIKey: testKey},
	}
	for _, creds := range incomplete {
		c := New(srv.URL, StaticCredentials(creds))
		ctx := context.Background()
		calls := map[string]func() error{
			"Start":       func() error { return c.Start(ctx, "") },
			"Stop":        func() error { return c.Stop(ctx) },
			"StartOrStop": func() error { return c.StartOrStop(ctx) },
			"Next":        func() error { return c.Next(ctx) },
			"Previous":    func() error { return c.Previous(ctx) },
			"Reset":       func() error { return c.Reset(ctx) },
			"Jump":        func() error { return c.Jump(ctx, time.Minute) },
			"ShowMessage": func() error { return c.ShowMessage(ctx, "hi") },
			"HideMessage": func() error { return c.HideMessage(ctx) },
			"StartFlash":  func() error { return c.StartFlash(ctx, 3) },
			"StopFlash":   func() error { return c.StopFlash(ctx) },
			"RenameTimer": func() error { return c.RenameTimer(ctx, "t1", "x") },
			"DeleteTimer": func() error { return c.DeleteTimer(ctx, "t1") },
			"CreateTimer": func() error { _, err := c.CreateTimer(ctx, CreateTimerRequest{Name: "x", Minutes: 1}); return err },
			"GetTimer":    func() error { _, err := c.GetTimer(ctx, "t1"); return err },
			"ListTimers":  func() error { _, err := c.ListTimers(ctx); return err },
			"GetStatus":   func() error { _, err := c.GetStatus(ctx); return err },
		}
		for name, call := range calls {
			if err := call(); !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("%s with %+v: err = %v, want ErrMissingCredentials", name, creds, err)
			}
		}
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestCallAttachesReservedParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"ok":true,"message":"done"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticCredentials{RoomID: testRoom, APIKey: testKey})
	resp, err := c.Call(context.Background(), "/show_message", map[string]string{
		"room_id": "EVIL",
		"api_key": "stolen",
		"text":    "hello world",
	})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if resp.Message != "done" {
		t.Errorf("Message = %q, want %q", resp.Message, "done")
	}
	for _, want := range []string{"room_id=" + testRoom, "api_key=" + testKey, "text=hello+world"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
	if strings.Contains(gotQuery, "EVIL") || strings.Contains(gotQuery, "stolen") {
		t.Errorf("caller params overrode reserved keys: %q", gotQuery)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "message": "Invalid api key"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticCredentials{RoomID: testRoom, APIKey: "bad"})
	err := c.Next(context.Background())
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("err = %T, want *ServerError", err)
	}
	if srvErr.Message != "Invalid api key" {
		t.Errorf("Message = %q", srvErr.Message)
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Error("IsStatus(401) = false")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
}

func TestServerErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down\n")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticCredentials{RoomID: testRoom, APIKey: testKey})
	err := c.Stop(context.Background())
	if got := UserMessage(err); got != "upstream down" {
		t.Errorf("UserMessage() = %q, want %q", got, "upstream down")
	}
}

func TestMalformedResponseRejected(t *testing.T) {
	bodies := []string{`not json`, `{"ok":true,"data":{"name":"no id"}}`, `{"ok":true,"data":42}`}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(body)) //nolint:errcheck
		}))
		c := New(srv.URL, StaticCredentials{RoomID: testRoom, APIKey: testKey})
		_, err := c.GetTimer(context.Background(), "t1")
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("body %q: err = %v, want ErrMalformedResponse", body, err)
		}
		srv.Close()
	}
}

func TestOKFalseIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ok":false,"message":"No active timer"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticCredentials{RoomID: testRoom, APIKey: testKey})
	err := c.Reset(context.Background())
	if got := UserMessage(err); got != "No active timer" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, StaticCredentials{RoomID: testRoom, APIKey: testKey})
	err := c.StartOrStop(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v (%T), want *NetworkError", err, err)
	}
	if netErr.Endpoint != "/start_or_stop" {
		t.Errorf("Endpoint = %q", netErr.Endpoint)
	}
}

func TestCallCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second) // slow server
		w.Write([]byte(`{"ok":true}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticCredentials{RoomID: testRoom, APIKey: testKey})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled in chain", err)
	}
}

func TestNoRetryOrDedup(t *testing.T) {
	c, twin := newTwinClient(t)
	for i := 0; i < 3; i++ {
		if err := c.StartOrStop(context.Background()); err != nil {
			t.Fatalf("StartOrStop() error: %v", err)
		}
	}
	if n := twin.CallCount("/v1/start_or_stop"); n != 3 {
		t.Errorf("start_or_stop calls = %d, want 3", n)
	}
}

func TestTimerLifecycle(t *testing.T) {
	c, twin := newTwinClient(t)
	ctx := context.Background()

	created, err := c.CreateTimer(ctx, CreateTimerRequest{Name: "Custom 1:30 Timer", Minutes: 1, Seconds: 30})
	if err != nil {
		t.Fatalf("CreateTimer() error: %v", err)
	}
	if created == nil || created.ID == "" {
		t.Fatalf("CreateTimer() returned %+v", created)
	}
	calls := twin.Calls()
	last := calls[len(calls)-1]
	if last.Query.Get("minutes") != "1" || last.Query.Get("seconds") != "30" || last.Query.Has("hours") {
		t.Errorf("create query = %v", last.Query)
	}

	if err := c.RenameTimer(ctx, created.ID, "Keynote"); err != nil {
		t.Fatalf("RenameTimer() error: %v", err)
	}
	got, err := c.GetTimer(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTimer() error: %v", err)
	}
	if got.Name != "Keynote" {
		t.Errorf("Name = %q, want %q", got.Name, "Keynote")
	}

	list, err := c.ListTimers(ctx)
	if err != nil {
		t.Fatalf("ListTimers() error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d timers, want 1", len(list))
	}

	if err := c.DeleteTimer(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTimer() error: %v", err)
	}
	list, err = c.ListTimers(ctx)
	if err != nil {
		t.Fatalf("ListTimers() error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("got %d timers after delete, want 0", len(list))
	}

	if err := c.DeleteTimer(ctx, "missing"); !IsStatus(err, http.StatusNotFound) {
		t.Errorf("DeleteTimer(missing) err = %v, want 404", err)
	}
}

func TestPlaybackAndStatus(t *testing.T) {
	c, twin := newTwinClient(t)
	twin.Seed(domain.Timer{ID: "t1", Name: "Intro"}, domain.Timer{ID: "t2", Name: "Talk"})
	ctx := context.Background()

	if err := c.Start(ctx, "t2"); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	st, err := c.GetStatus(ctx)
	if err != nil {
		t.Fatalf("GetStatus() error: %v", err)
	}
	if !st.Running || st.TimerID != "t2" {
		t.Errorf("status = %+v, want running t2", st)
	}

	if err := c.Jump(ctx, -90*time.Second); err != nil {
		t.Fatalf("Jump() error: %v", err)
	}
	calls := twin.Calls()
	if got := calls[len(calls)-1].Query.Get("milliseconds"); got != "-90000" {
		t.Errorf("milliseconds = %q, want -90000", got)
	}

	if err := c.ShowMessage(ctx, "Wrap up"); err != nil {
		t.Fatalf("ShowMessage() error: %v", err)
	}
	if msg, shown := twin.Message(); msg != "Wrap up" || !shown {
		t.Errorf("message = %q shown=%v", msg, shown)
	}
	if err := c.StartFlash(ctx, 0); err != nil {
		t.Fatalf("StartFlash() error: %v", err)
	}
	if !twin.Flashing() {
		t.Error("expected flashing after StartFlash")
	}
}

func TestListTimersWrappedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ok":true,"data":{"timers":[{"_id":"a","name":"A"},{"_id":"b","name":"B"}]}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticCredentials{RoomID: testRoom, APIKey: testKey})
	list, err := c.ListTimers(context.Background())
	if err != nil {
		t.Fatalf("ListTimers() error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("list = %+v", list)
	}
}
