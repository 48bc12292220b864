package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Engine.IO v4 packet types, with the Socket.IO v4 packet type as the second
// byte of a message packet.
const (
	pktOpen    = "0"
	pktClose   = "1"
	pktPing    = "2"
	pktPong    = "3"
	pktMessage = "4"

	sioConnect      = "40"
	sioDisconnect   = "41"
	sioEvent        = "42"
	sioConnectError = "44"
)

var errServerClosed = errors.New("events: server closed the session")

// ConnectError is the server's rejection of the namespace connect, usually
// bad credentials.
type ConnectError struct {
	Message string
}

func (e *ConnectError) Error() string {
	return "events: connect rejected: " + e.Message
}

type openPacket struct {
	SID          string `json:"sid"`
	PingInterval int64  `json:"pingInterval"`
	PingTimeout  int64  `json:"pingTimeout"`
}

// liveness is how long the client waits for any packet before giving up on
// the session.
func (o openPacket) liveness() time.Duration {
	d := time.Duration(o.PingInterval+o.PingTimeout) * time.Millisecond
	if d <= 0 {
		return 45 * time.Second
	}
	return d
}

func parseOpen(packet string) (openPacket, error) {
	if !strings.HasPrefix(packet, pktOpen) {
		return openPacket{}, fmt.Errorf("events: expected open packet, got %q", truncate(packet))
	}
	var o openPacket
	if err := json.Unmarshal([]byte(packet[len(pktOpen):]), &o); err != nil {
		return openPacket{}, fmt.Errorf("events: decode open packet: %w", err)
	}
	return o, nil
}

func connectPacket(roomID, apiKey string) ([]byte, error) {
	auth, err := json.Marshal(struct {
		RoomID string `json:"room_id"`
		APIKey string `json:"api_key"`
	}{roomID, apiKey})
	if err != nil {
		return nil, err
	}
	return append([]byte(sioConnect), auth...), nil
}

func parseConnectError(packet string) error {
	var body struct {
		Message string `json:"message"`
	}
	raw := strings.TrimPrefix(packet, sioConnectError)
	if err := json.Unmarshal([]byte(raw), &body); err != nil || body.Message == "" {
		body.Message = strings.Trim(raw, `"`)
	}
	return &ConnectError{Message: body.Message}
}

// parseEvent splits a 42["name",payload] packet. A missing payload is
// returned as nil.
func parseEvent(packet string) (string, json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimPrefix(packet, sioEvent)), &parts); err != nil {
		return "", nil, fmt.Errorf("events: decode event: %w", err)
	}
	if len(parts) == 0 {
		return "", nil, errors.New("events: empty event")
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return "", nil, fmt.Errorf("events: decode event name: %w", err)
	}
	if len(parts) < 2 {
		return name, nil, nil
	}
	return name, parts[1], nil
}

func truncate(s string) string {
	if len(s) > 64 {
		return s[:64] + "..."
	}
	return s
}
