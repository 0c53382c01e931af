/*
Package chat contains the room relay: event formatting, fan-out routing, the per-connection
session state machine and the WebSocket transport that carries them.

This file defines the Client struct, representing an active WebSocket connection. It runs the
read and write pumps, turns inbound frames into session operations and answers each with an
acknowledgement or an error frame.
*/
package chat

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"chatrelay/internal/pkg/errs"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client. Must hold a
	// MaxContentBytes text with every byte JSON-escaped plus the envelope.
	maxMessageSize = 6*MaxContentBytes + 2048
)

// Client represents an active WebSocket connection and the session it drives.
type Client struct {
	id      string
	hub     *Hub
	session *Session

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// a buffered channel used to queue frames waiting to be sent to the client.
	// Only the hub sends on or closes it.
	send chan []byte

	// limiter caps the inbound frame rate of this connection.
	limiter *rate.Limiter

	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection. The client's id is the
// session's connection id.
func NewClient(hub *Hub, session *Session, conn *websocket.Conn, limiter *rate.Limiter) *Client {
	return &Client{
		id:      session.ConnID(),
		hub:     hub,
		session: session,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		limiter: limiter,
		logger:  session.logger.With().Str("component", "client").Logger(),
	}
}

// ReadPump reads frames until the connection fails, then disconnects the session.
// It handles heartbeats (Pong) and runs on the caller's goroutine.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundFrame(frameBytes)
	}
}

// cleanupOnDisconnect leaves the room, drops the client from the hub and closes the socket.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.session.Disconnect()
	c.hub.Unregister(c.id)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundFrame handles one raw frame. A panic while handling is logged and answered
// with ErrUnknown; the connection stays open.
func (c *Client) processInboundFrame(frameBytes []byte) {
	var ackID string

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msg("Recovered from panic while handling frame.")
			c.respond(ackID, errs.NewError(errs.ErrUnknown))
		}
	}()

	if c.limiter != nil && !c.limiter.Allow() {
		c.respond(peekAckID(frameBytes), errs.NewError(errs.ErrRateLimitExceeded))
		return
	}

	frame, parseErr := ParseFrame(frameBytes)
	if parseErr != nil {
		c.logger.Warn().Int("size", len(frameBytes)).Msg("Client sent invalid JSON")
		c.respond("", parseErr)
		return
	}
	ackID = frame.AckID

	result := Dispatch(c.session, frame)
	if result != nil && result.Code == errs.ErrUnsupportedMessageType {
		c.logger.Warn().Str("msg_type", string(frame.Type)).Msg("Client sent unsupported message type")
	}

	c.respond(ackID, result)
}

// respond answers a frame. With an ack id the client always gets an ack; without one only
// failures are reported, as error frames.
func (c *Client) respond(ackID string, result *errs.CustomError) {
	var (
		msgType MessageType
		payload any
	)

	switch {
	case ackID != "":
		ack := AckPayload{AckID: ackID, OK: result == nil}
		if result != nil {
			ack.Code = result.Code
			ack.Error = result.Message
		}
		msgType, payload = TypeAck, ack

	case result != nil:
		msgType, payload = TypeError, ErrorPayload{Code: result.Code, Message: result.Message}

	default:
		return
	}

	room := ""
	if u, ok := c.session.User(); ok {
		room = u.Room
	}

	msg, err := NewMessage(msgType, room, SystemSender, payload)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build response frame")
		return
	}

	c.hub.Deliver([]string{c.id}, msg)
}

// WritePump writes queued frames to the connection and pings it periodically.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel. A closed channel sends a
// close frame. Returns false when the pump should stop.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a heartbeat ping. Returns false when the pump should stop.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// peekAckID extracts the ack id from a frame that will not be dispatched.
func peekAckID(frameBytes []byte) string {
	frame, err := ParseFrame(frameBytes)
	if err != nil {
		return ""
	}
	return frame.AckID
}
