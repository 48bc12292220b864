package timers

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/naveenspark/stageremote/internal/stagetwin"
	"github.com/naveenspark/stageremote/pkg/client"
	"github.com/naveenspark/stageremote/pkg/domain"
)

// scriptedFetcher returns queued responses, one per call.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses [][]domain.Timer
	errs      []error
	calls     int
}

func (f *scriptedFetcher) ListTimers(context.Context) ([]domain.Timer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.responses[i], nil
}

func TestRefreshReplacesWholeList(t *testing.T) {
	f := &scriptedFetcher{responses: [][]domain.Timer{
		{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}},
		{{ID: "c", Name: "C"}, {ID: "x", Name: "X"}},
	}}
	c := NewCache(f)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	items := c.Items()
	if len(items) != 2 || items[0].ID != "c" || items[1].ID != "x" {
		t.Errorf("Items() = %+v, want [c x] in service order", items)
	}
	if _, ok := c.Find("a"); ok {
		t.Error("stale timer a carried over")
	}
	if c.Generation() != 2 {
		t.Errorf("Generation() = %d, want 2", c.Generation())
	}
}

func TestRefreshKeepsListOnError(t *testing.T) {
	boom := errors.New("boom")
	f := &scriptedFetcher{
		responses: [][]domain.Timer{{{ID: "a"}}, nil},
		errs:      []error{nil, boom},
	}
	c := NewCache(f)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if err := c.Refresh(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Refresh() err = %v, want boom", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after failed refresh, want 1", c.Len())
	}
	if c.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", c.Generation())
	}
}

func TestItemsIsACopy(t *testing.T) {
	c := NewCache(&scriptedFetcher{})
	c.Replace([]domain.Timer{{ID: "a", Name: "A"}})
	items := c.Items()
	items[0].Name = "mutated"
	if got, _ := c.Find("a"); got.Name != "A" {
		t.Errorf("cache mutated through Items(): %q", got.Name)
	}
}

func TestRefreshMissingCredentials(t *testing.T) {
	twin := stagetwin.New("ABCD1234", "k1-0123456789abcdef")
	srv := httptest.NewServer(twin)
	defer srv.Close()

	api := client.New(srv.URL+"/v1", client.StaticCredentials{RoomID: "ABCD1234"})
	c := NewCache(api)
	c.Replace([]domain.Timer{{ID: "keep"}})

	if err := c.Refresh(context.Background()); !errors.Is(err, client.ErrMissingCredentials) {
		t.Fatalf("Refresh() err = %v, want ErrMissingCredentials", err)
	}
	if len(twin.Calls()) != 0 {
		t.Errorf("twin saw %d calls, want 0", len(twin.Calls()))
	}
	if _, ok := c.Find("keep"); !ok {
		t.Error("previous list dropped on failure")
	}
}

func TestRefreshFromService(t *testing.T) {
	twin := stagetwin.New("ABCD1234", "k1-0123456789abcdef")
	twin.Seed(domain.Timer{ID: "t1", Name: "Intro"}, domain.Timer{ID: "t2", Name: "Talk"})
	srv := httptest.NewServer(twin)
	defer srv.Close()

	api := client.New(srv.URL+"/v1", client.StaticCredentials{RoomID: "ABCD1234", APIKey: "k1-0123456789abcdef"})
	c := NewCache(api)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	items := c.Items()
	if len(items) != 2 || items[0].Name != "Intro" || items[1].Name != "Talk" {
		t.Errorf("Items() = %+v", items)
	}
}

// gatedFetcher blocks each call until the test releases its response.
type gatedFetcher struct {
	started chan int
	gates   []chan []domain.Timer
	mu      sync.Mutex
	calls   int
}

func (f *gatedFetcher) ListTimers(context.Context) ([]domain.Timer, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.mu.Unlock()
	f.started <- i
	return <-f.gates[i], nil
}

func TestOverlappingRefreshLastCompletedWins(t *testing.T) {
	f := &gatedFetcher{
		started: make(chan int, 2),
		gates:   []chan []domain.Timer{make(chan []domain.Timer), make(chan []domain.Timer)},
	}
	c := NewCache(f)

	first := make(chan error, 1)
	go func() { first <- c.Refresh(context.Background()) }()
	<-f.started

	second := make(chan error, 1)
	go func() { second <- c.Refresh(context.Background()) }()
	<-f.started

	// The later request answers first.
	f.gates[1] <- []domain.Timer{{ID: "new"}}
	if err := <-second; err != nil {
		t.Fatalf("second Refresh() error: %v", err)
	}
	f.gates[0] <- []domain.Timer{{ID: "old"}}
	if err := <-first; err != nil {
		t.Fatalf("first Refresh() error: %v", err)
	}

	items := c.Items()
	if len(items) != 1 || items[0].ID != "old" {
		t.Errorf("Items() = %+v, want the last completed response [old]", items)
	}
}
