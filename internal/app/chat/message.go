/*
Package chat contains the room relay: event formatting, fan-out routing, the per-connection
session state machine and the WebSocket transport that carries them.

This file defines the wire envelope shared by inbound frames and outbound events, and the
payloads carried inside it.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"chatrelay/internal/app/user"
	"chatrelay/internal/pkg/randx"
)

// MessageType identifies the kind of a frame.
type MessageType string

// Inbound frame types.
const (
	TypeJoin         MessageType = "join"
	TypeSendMessage  MessageType = "sendMessage"
	TypeSendLocation MessageType = "sendLocation"
)

// Outbound event types.
const (
	TypeMessage  MessageType = "message"
	TypeLocation MessageType = "location"
	TypeRoomInfo MessageType = "roomInfo"
	TypeAck      MessageType = "ack"
	TypeError    MessageType = "error"
)

const (
	// SystemSender is the sender name of relay-originated messages.
	SystemSender = "Admin"

	// WelcomeText greets a connection that has just joined.
	WelcomeText = "Welcome!"

	// MaxContentBytes is the maximum size of a chat message text.
	MaxContentBytes = 5000

	mapsURLPrefix = "https://google.com/maps?q="
)

// Message is the outbound event envelope.
type Message struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Room      string          `json:"room,omitempty"`
	Sender    string          `json:"sender"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// InboundFrame is a client-sent frame. AckID, when set, is echoed in the acknowledgement.
type InboundFrame struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	AckID   string          `json:"ackId,omitempty"`
}

// JoinPayload is the payload of a join frame.
type JoinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// TextPayload carries chat text, inbound in sendMessage and outbound in message events.
type TextPayload struct {
	Text string `json:"text"`
}

// Location is a shared position.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// LocationRequest is the payload of a sendLocation frame. A coordinate left out of the
// frame stays nil.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// LocationPayload is the payload of a location event.
type LocationPayload struct {
	Location
	URL string `json:"url"`
}

// RoomInfoPayload lists the members of a room.
type RoomInfoPayload struct {
	Room  string      `json:"room"`
	Users []user.User `json:"users"`
}

// AckPayload answers one inbound frame.
type AckPayload struct {
	AckID string `json:"ackId"`
	OK    bool   `json:"ok"`
	Code  int    `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// ErrorPayload reports a frame that could not be processed and carried no ack id.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewMessage builds an outbound event with a fresh id and the current time in Unix milliseconds.
func NewMessage(msgType MessageType, room, sender string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", msgType, err)
	}

	return Message{
		ID:        randx.MessageID(),
		Type:      msgType,
		Room:      room,
		Sender:    sender,
		Payload:   raw,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// NewLocationPayload attaches a maps link to loc.
func NewLocationPayload(loc Location) LocationPayload {
	return LocationPayload{
		Location: loc,
		URL: mapsURLPrefix +
			strconv.FormatFloat(loc.Latitude, 'f', -1, 64) + "," +
			strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
	}
}

func joinedText(username string) string {
	return username + " has joined!"
}

func leftText(username string) string {
	return username + " has left!"
}
