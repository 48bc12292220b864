package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Timer is a timer record owned by the service. The client never builds one
// locally; it only requests changes and re-fetches the list.
type Timer struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Hours   *int   `json:"hours,omitempty"`
	Minutes *int   `json:"minutes,omitempty"`
	Seconds *int   `json:"seconds,omitempty"`
}

// UnmarshalJSON accepts either "_id" or "id" and rejects records without one.
func (t *Timer) UnmarshalJSON(data []byte) error {
	var raw struct {
		UnderscoreID string `json:"_id"`
		ID           string `json:"id"`
		Name         string `json:"name"`
		Hours        *int   `json:"hours"`
		Minutes      *int   `json:"minutes"`
		Seconds      *int   `json:"seconds"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timer: %w", err)
	}
	id := raw.UnderscoreID
	if id == "" {
		id = raw.ID
	}
	if id == "" {
		return errors.New("timer: missing id")
	}
	*t = Timer{
		ID:      id,
		Name:    raw.Name,
		Hours:   raw.Hours,
		Minutes: raw.Minutes,
		Seconds: raw.Seconds,
	}
	return nil
}

// Duration returns hours, minutes and seconds with absent fields as zero.
func (t Timer) Duration() (h, m, s int) {
	if t.Hours != nil {
		h = *t.Hours
	}
	if t.Minutes != nil {
		m = *t.Minutes
	}
	if t.Seconds != nil {
		s = *t.Seconds
	}
	return h, m, s
}

// DurationLabel renders the duration as H:MM:SS or M:SS.
func (t Timer) DurationLabel() string {
	h, m, s := t.Duration()
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// DisplayName returns the trimmed name, or a placeholder for unnamed timers.
func (t Timer) DisplayName() string {
	if n := strings.TrimSpace(t.Name); n != "" {
		return n
	}
	return "(untitled)"
}

// IntPtr is a convenience for optional duration fields.
func IntPtr(v int) *int { return &v }
