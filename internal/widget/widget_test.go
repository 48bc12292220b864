package widget

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/naveenspark/stageremote/internal/stagetwin"
	"github.com/naveenspark/stageremote/pkg/domain"
)

const (
	testRoom = "ABCD1234"
	testKey  = "k1-0123456789abcdef"
)

func TestPrefsRoundTrip(t *testing.T) {
	p := NewPrefs(filepath.Join(t.TempDir(), "StageTimerPrefs.toml"))

	if _, err := p.Read(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Read() on missing file = %v, want ErrNotConfigured", err)
	}

	want := domain.Credentials{RoomID: testRoom, APIKey: testKey}
	if err := p.Write(want); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, err := p.Read()
	if err != nil || got != want {
		t.Errorf("Read() = %+v, %v; want %+v", got, err, want)
	}

	data, _ := os.ReadFile(p.Path())
	if !strings.Contains(string(data), "roomId") || !strings.Contains(string(data), "apiKey") {
		t.Errorf("prefs keys missing: %s", data)
	}

	if err := p.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := p.Clear(); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}
	if _, err := p.Read(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Read() after Clear = %v, want ErrNotConfigured", err)
	}
}

func TestPrefsIncompleteIsNotConfigured(t *testing.T) {
	p := NewPrefs(filepath.Join(t.TempDir(), "prefs.toml"))
	if err := p.Write(domain.Credentials{RoomID: testRoom}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Read(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Read() = %v, want ErrNotConfigured", err)
	}
}

func TestTapNotConfiguredMakesNoRequest(t *testing.T) {
	twin := stagetwin.New(testRoom, testKey)
	srv := httptest.NewServer(twin)
	defer srv.Close()

	b := NewBridge(NewPrefs(filepath.Join(t.TempDir(), "none.toml")), srv.URL+"/v1", nil, nil)
	if err := b.Tap("toggle"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Tap() error = %v, want ErrNotConfigured", err)
	}
	b.Wait()
	if n := len(twin.Calls()); n != 0 {
		t.Errorf("twin saw %d calls, want 0", n)
	}
}

func TestTapUnknownAction(t *testing.T) {
	b := NewBridge(NewPrefs(filepath.Join(t.TempDir(), "p.toml")), "http://127.0.0.1:1/v1", nil, nil)
	if err := b.Tap("explode"); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestTapPostsRoomAction(t *testing.T) {
	twin := stagetwin.New(testRoom, testKey)
	twin.Seed(domain.Timer{ID: "t1", Name: "Intro"}, domain.Timer{ID: "t2", Name: "Talk"})
	srv := httptest.NewServer(twin)
	defer srv.Close()

	prefs := NewPrefs(filepath.Join(t.TempDir(), "StageTimerPrefs.toml"))
	if err := prefs.Write(domain.Credentials{RoomID: testRoom, APIKey: testKey}); err != nil {
		t.Fatal(err)
	}
	b := NewBridge(prefs, srv.URL+"/v1/", nil, nil)

	if err := b.Tap("toggle"); err != nil {
		t.Fatalf("Tap() error: %v", err)
	}
	b.Wait()

	if n := twin.CallCount("/v1/rooms/" + testRoom + "/toggle"); n != 1 {
		t.Errorf("toggle calls = %d, want 1", n)
	}
	if st := twin.Status(); !st.Running || st.TimerID != "t1" {
		t.Errorf("status after toggle = %+v", st)
	}
	calls := twin.Calls()
	if calls[len(calls)-1].Method != "POST" {
		t.Errorf("method = %s, want POST", calls[len(calls)-1].Method)
	}
}

func TestTapFailureIsLogged(t *testing.T) {
	twin := stagetwin.New(testRoom, testKey)
	srv := httptest.NewServer(twin)
	defer srv.Close()

	prefs := NewPrefs(filepath.Join(t.TempDir(), "StageTimerPrefs.toml"))
	_ = prefs.Write(domain.Credentials{RoomID: testRoom, APIKey: "wrong-key"})

	var logs bytes.Buffer
	b := NewBridge(prefs, srv.URL+"/v1", nil, slog.New(slog.NewTextHandler(&logs, nil)))
	if err := b.Tap("next"); err != nil {
		t.Fatalf("Tap() returned request error: %v", err)
	}
	b.Wait()
	if !strings.Contains(logs.String(), "HTTP 401") {
		t.Errorf("log = %q, want HTTP 401", logs.String())
	}
}
