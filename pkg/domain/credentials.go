package domain

import "strings"

// Credentials is the active room id + API key pair used by every network call.
type Credentials struct {
	RoomID string `json:"room_id" yaml:"room_id"`
	APIKey string `json:"api_key" yaml:"api_key"`
}

// Complete reports whether both fields are set. Incomplete credentials must
// never reach the network.
func (c Credentials) Complete() bool {
	return c.RoomID != "" && c.APIKey != ""
}

// Normalize trims whitespace and uppercases the room id.
func (c Credentials) Normalize() Credentials {
	return Credentials{
		RoomID: strings.ToUpper(strings.TrimSpace(c.RoomID)),
		APIKey: strings.TrimSpace(c.APIKey),
	}
}

// SavedRoom is a named credential pair kept for quick switching.
type SavedRoom struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	RoomID string `json:"room_id" yaml:"room_id"`
	APIKey string `json:"api_key" yaml:"api_key"`
}

// Credentials returns the pair stored in the saved room.
func (r SavedRoom) Credentials() Credentials {
	return Credentials{RoomID: r.RoomID, APIKey: r.APIKey}
}

// SameRoom reports whether the saved room holds exactly the given pair.
func (r SavedRoom) SameRoom(c Credentials) bool {
	return r.RoomID == c.RoomID && r.APIKey == c.APIKey
}
