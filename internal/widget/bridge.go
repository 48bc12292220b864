package widget

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/naveenspark/stageremote/pkg/domain"
)

// Actions lists the transport actions a widget tap can fire.
var Actions = []string{"toggle", "stop", "next", "previous"}

// ValidAction reports whether action is one of Actions.
func ValidAction(action string) bool {
	for _, a := range Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Bridge fires widget taps in the background.
type Bridge struct {
	prefs   *Prefs
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	wg sync.WaitGroup
}

// NewBridge returns a bridge posting to baseURL (the REST API root, e.g.
// https://api.stagetimer.io/v1). httpClient and logger may be nil.
func NewBridge(prefs *Prefs, baseURL string, httpClient *http.Client, logger *slog.Logger) *Bridge {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bridge{
		prefs:   prefs,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// Tap reads the shared prefs and, when configured, posts action in a
// background goroutine. Only the configuration check can fail; request
// errors are logged.
func (b *Bridge) Tap(action string) error {
	if !ValidAction(action) {
		return fmt.Errorf("widget.Tap: unknown action %q", action)
	}
	creds, err := b.prefs.Read()
	if err != nil {
		return err
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.post(context.Background(), creds, action); err != nil {
			b.logger.Warn("widget tap failed", "action", action, "room_id", creds.RoomID, "error", err)
			return
		}
		b.logger.Info("widget tap", "action", action, "room_id", creds.RoomID)
	}()
	return nil
}

// Wait blocks until every in-flight tap has finished.
func (b *Bridge) Wait() {
	b.wg.Wait()
}

func (b *Bridge) post(ctx context.Context, creds domain.Credentials, action string) error {
	endpoint := b.baseURL + "/rooms/" + url.PathEscape(creds.RoomID) + "/" + action
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", creds.APIKey)

	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
