package domain

import (
	"regexp"
	"strings"
)

// MinAPIKeyLength is the shortest pasted string accepted as an API key.
const MinAPIKeyLength = 16

// roomPathRe matches the /r/<ID>/ segment of a viewer URL.
var roomPathRe = regexp.MustCompile(`(?i)/r/([a-z0-9]+)(?:[/?#]|$)`)

// ExtractRoomID pulls the room id out of a viewer URL such as
// https://stagetimer.io/r/ABCD1234/ and returns it uppercased.
func ExtractRoomID(rawURL string) (string, error) {
	m := roomPathRe.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return "", ErrInvalidRoomURL
	}
	return strings.ToUpper(m[1]), nil
}

// ValidateAPIKey trims a pasted key and applies the minimum length heuristic.
func ValidateAPIKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if len(key) < MinAPIKeyLength {
		return "", ErrAPIKeyTooShort
	}
	return key, nil
}

// ViewerURL is the public viewer page for a room.
func ViewerURL(viewerBase, roomID string) string {
	return strings.TrimRight(viewerBase, "/") + "/r/" + roomID + "/"
}
