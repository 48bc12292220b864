package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/naveenspark/stageremote/pkg/domain"
)

// DefaultBaseURL is the stagetimer.io REST API root.
const DefaultBaseURL = "https://api.stagetimer.io/v1"

// Reserved query parameters attached to every call.
const (
	paramRoomID = "room_id"
	paramAPIKey = "api_key"
)

// CredentialSource supplies the active credentials at call time.
type CredentialSource interface {
	Active() domain.Credentials
}

// StaticCredentials is a fixed CredentialSource.
type StaticCredentials domain.Credentials

// Active returns the fixed pair.
func (s StaticCredentials) Active() domain.Credentials { return domain.Credentials(s) }

// Response is the envelope every endpoint answers with.
type Response struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client is the stagetimer API client. Every call is a single-shot GET.
type Client struct {
	baseURL    string
	creds      CredentialSource
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a new API client.
func New(baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials returns the pair the next call will use.
func (c *Client) Credentials() domain.Credentials {
	if c.creds == nil {
		return domain.Credentials{}
	}
	return c.creds.Active()
}

// --- Playback ---

// Start starts playback. A non-empty timerID starts that timer.
func (c *Client) Start(ctx context.Context, timerID string) error {
	params := map[string]string{}
	if timerID != "" {
		params["timer_id"] = timerID
	}
	if _, err := c.Call(ctx, "/start", params); err != nil {
		return fmt.Errorf("client.Start: %w", err)
	}
	return nil
}

// Stop pauses playback.
func (c *Client) Stop(ctx context.Context) error {
	if _, err := c.Call(ctx, "/stop", nil); err != nil {
		return fmt.Errorf("client.Stop: %w", err)
	}
	return nil
}

// StartOrStop toggles playback.
func (c *Client) StartOrStop(ctx context.Context) error {
	if _, err := c.Call(ctx, "/start_or_stop", nil); err != nil {
		return fmt.Errorf("client.StartOrStop: %w", err)
	}
	return nil
}

// Next moves to the next timer.
func (c *Client) Next(ctx context.Context) error {
	if _, err := c.Call(ctx, "/next", nil); err != nil {
		return fmt.Errorf("client.Next: %w", err)
	}
	return nil
}

// Previous moves to the previous timer.
func (c *Client) Previous(ctx context.Context) error {
	if _, err := c.Call(ctx, "/previous", nil); err != nil {
		return fmt.Errorf("client.Previous: %w", err)
	}
	return nil
}

// Reset resets the active timer.
func (c *Client) Reset(ctx context.Context) error {
	if _, err := c.Call(ctx, "/reset", nil); err != nil {
		return fmt.Errorf("client.Reset: %w", err)
	}
	return nil
}

// Jump moves the active timer by a signed offset.
func (c *Client) Jump(ctx context.Context, offset time.Duration) error {
	params := map[string]string{"milliseconds": strconv.FormatInt(offset.Milliseconds(), 10)}
	if _, err := c.Call(ctx, "/jump", params); err != nil {
		return fmt.Errorf("client.Jump: %w", err)
	}
	return nil
}

// GetStatus fetches the current playback status.
func (c *Client) GetStatus(ctx context.Context) (*domain.PlaybackStatus, error) {
	resp, err := c.Call(ctx, "/get_status", nil)
	if err != nil {
		return nil, fmt.Errorf("client.GetStatus: %w", err)
	}
	st, err := domain.ParsePlaybackStatus(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("client.GetStatus: %w: %v", ErrMalformedResponse, err)
	}
	return &st, nil
}

// --- Messages ---

// ShowMessage shows an on-screen message. An empty text shows the current one.
func (c *Client) ShowMessage(ctx context.Context, text string) error {
	params := map[string]string{}
	if text != "" {
		params["text"] = text
	}
	if _, err := c.Call(ctx, "/show_message", params); err != nil {
		return fmt.Errorf("client.ShowMessage: %w", err)
	}
	return nil
}

// HideMessage hides the on-screen message.
func (c *Client) HideMessage(ctx context.Context) error {
	if _, err := c.Call(ctx, "/hide_message", nil); err != nil {
		return fmt.Errorf("client.HideMessage: %w", err)
	}
	return nil
}

// StartFlash starts the flashing indicator. count <= 0 flashes until stopped.
func (c *Client) StartFlash(ctx context.Context, count int) error {
	params := map[string]string{}
	if count > 0 {
		params["count"] = strconv.Itoa(count)
	}
	if _, err := c.Call(ctx, "/start_flash", params); err != nil {
		return fmt.Errorf("client.StartFlash: %w", err)
	}
	return nil
}

// StopFlash stops the flashing indicator.
func (c *Client) StopFlash(ctx context.Context) error {
	if _, err := c.Call(ctx, "/stop_flash", nil); err != nil {
		return fmt.Errorf("client.StopFlash: %w", err)
	}
	return nil
}

// --- Timers ---

// CreateTimerRequest is the payload for creating a new timer.
type CreateTimerRequest struct {
	Name    string
	Hours   int
	Minutes int
	Seconds int
}

func (r CreateTimerRequest) params() map[string]string {
	p := map[string]string{"name": r.Name}
	if r.Hours != 0 {
		p["hours"] = strconv.Itoa(r.Hours)
	}
	if r.Minutes != 0 {
		p["minutes"] = strconv.Itoa(r.Minutes)
	}
	if r.Seconds != 0 {
		p["seconds"] = strconv.Itoa(r.Seconds)
	}
	return p
}

// CreateTimer creates a new timer. The returned record is nil when the service
// does not echo one back.
func (c *Client) CreateTimer(ctx context.Context, req CreateTimerRequest) (*domain.Timer, error) {
	resp, err := c.Call(ctx, "/create_timer", req.params())
	if err != nil {
		return nil, fmt.Errorf("client.CreateTimer: %w", err)
	}
	if !hasData(resp.Data) {
		return nil, nil
	}
	var t domain.Timer
	if err := json.Unmarshal(resp.Data, &t); err != nil {
		return nil, fmt.Errorf("client.CreateTimer: %w: %v", ErrMalformedResponse, err)
	}
	return &t, nil
}

// RenameTimer updates a timer's name.
func (c *Client) RenameTimer(ctx context.Context, id, name string) error {
	params := map[string]string{"timer_id": id, "name": name}
	if _, err := c.Call(ctx, "/update_timer", params); err != nil {
		return fmt.Errorf("client.RenameTimer: %w", err)
	}
	return nil
}

// DeleteTimer deletes a timer by ID.
func (c *Client) DeleteTimer(ctx context.Context, id string) error {
	if _, err := c.Call(ctx, "/delete_timer", map[string]string{"timer_id": id}); err != nil {
		return fmt.Errorf("client.DeleteTimer: %w", err)
	}
	return nil
}

// GetTimer fetches a single timer by ID.
func (c *Client) GetTimer(ctx context.Context, id string) (*domain.Timer, error) {
	resp, err := c.Call(ctx, "/get_timer", map[string]string{"timer_id": id})
	if err != nil {
		return nil, fmt.Errorf("client.GetTimer: %w", err)
	}
	var t domain.Timer
	if err := json.Unmarshal(resp.Data, &t); err != nil {
		return nil, fmt.Errorf("client.GetTimer: %w: %v", ErrMalformedResponse, err)
	}
	return &t, nil
}

// ListTimers fetches all timers in the room, in service order.
func (c *Client) ListTimers(ctx context.Context) ([]domain.Timer, error) {
	resp, err := c.Call(ctx, "/get_all_timers", nil)
	if err != nil {
		return nil, fmt.Errorf("client.ListTimers: %w", err)
	}
	timers, err := parseTimerList(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("client.ListTimers: %w: %v", ErrMalformedResponse, err)
	}
	return timers, nil
}

// parseTimerList accepts either a bare array or an object with a "timers" array.
func parseTimerList(data json.RawMessage) ([]domain.Timer, error) {
	if !hasData(data) {
		return []domain.Timer{}, nil
	}
	var timers []domain.Timer
	if err := json.Unmarshal(data, &timers); err == nil {
		return timers, nil
	}
	var wrapped struct {
		Timers *[]domain.Timer `json:"timers"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Timers == nil {
		return nil, fmt.Errorf("no timers array")
	}
	return *wrapped.Timers, nil
}

func hasData(data json.RawMessage) bool {
	s := strings.TrimSpace(string(data))
	return s != "" && s != "null"
}

// Call issues one authenticated GET to endpoint. The room id and API key are
// always attached and caller params cannot override them.
func (c *Client) Call(ctx context.Context, endpoint string, params map[string]string) (*Response, error) {
	creds := c.Credentials()
	if !creds.Complete() {
		return nil, ErrMissingCredentials
	}

	q := url.Values{}
	for k, v := range params {
		if k == paramRoomID || k == paramAPIKey {
			continue
		}
		q.Set(k, v)
	}
	q.Set(paramRoomID, creds.RoomID)
	q.Set(paramAPIKey, creds.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !out.OK {
		msg := out.Message
		if msg == "" {
			msg = "request rejected"
		}
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &out, nil
}

// errorMessage recovers a human message from an error body.
func errorMessage(body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Error != "" {
			return apiErr.Error
		}
	}
	return strings.TrimSpace(string(body))
}
