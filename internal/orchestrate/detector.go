// Package orchestrate runs the harness control loop: it builds the
// application, supervises the host process, detects room announcements on
// the host's stderr, and spawns one joiner per announcement while relaying
// everyone's output to the console.
package orchestrate

import (
	"strings"
)

// Detector recognizes room announcement lines on the host's stderr.
//
// A line matches when it contains RoomMarker. The room token is
// everything after the first TokenMarker occurring past the marker,
// up to end of line, trimmed of surrounding whitespace.
type Detector struct {
	// RoomMarker is the substring signaling a room announcement.
	RoomMarker string

	// TokenMarker precedes the room token on the announcement line.
	TokenMarker string
}

// Detect inspects one line and extracts the room token on a match.
//
// Parameters:
//   - line: One line of host stderr, without trailing newline
//
// Returns:
//   - string: The extracted token, empty when ok is false
//   - bool: Whether the line is a room announcement with a usable token
func (d Detector) Detect(line string) (string, bool) {
	i := strings.Index(line, d.RoomMarker)
	if i < 0 {
		return "", false
	}

	rest := line[i+len(d.RoomMarker):]
	j := strings.Index(rest, d.TokenMarker)
	if j < 0 {
		return "", false
	}

	token := strings.TrimSpace(rest[j+len(d.TokenMarker):])
	if token == "" {
		return "", false
	}
	return token, true
}
