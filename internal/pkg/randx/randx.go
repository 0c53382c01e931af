/*
Package randx generates the identifiers the relay hands out: connection ids for new
WebSocket sessions and message ids for outbound events.
*/
package randx

import (
	"github.com/google/uuid"
)

// ConnectionID returns a new UUID v4 string identifying one transport session.
func ConnectionID() string {
	return uuid.New().String()
}

// MessageID returns a new UUID v4 string identifying one outbound event.
func MessageID() string {
	return uuid.New().String()
}
