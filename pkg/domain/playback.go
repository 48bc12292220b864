package domain

import (
	"encoding/json"
	"fmt"
)

// PlaybackStatus mirrors the service's running flag and active timer.
// TimerID is empty when no timer is active.
type PlaybackStatus struct {
	Running bool   `json:"running"`
	TimerID string `json:"timer_id"`
}

// ParsePlaybackStatus decodes a playback_status payload. The payload must be a
// JSON object; a missing running flag counts as stopped.
func ParsePlaybackStatus(data []byte) (PlaybackStatus, error) {
	var raw struct {
		Running *bool   `json:"running"`
		TimerID *string `json:"timer_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return PlaybackStatus{}, fmt.Errorf("playback status: %w", err)
	}
	var st PlaybackStatus
	if raw.Running != nil {
		st.Running = *raw.Running
	}
	if raw.TimerID != nil {
		st.TimerID = *raw.TimerID
	}
	return st, nil
}
