/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which rate limits by IP, upgrades the
connection, mints its connection id and runs the client's pumps until the connection ends.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"chatrelay/internal/app/chat"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/limiter"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/randx"
	"chatrelay/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// Joining a room happens over the socket, so the upgrade itself takes no parameters.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.Allow(ip) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connID := randx.ConnectionID()
		session := deps.Relay.NewSession(connID)
		frameLimiter := rate.NewLimiter(rate.Limit(deps.Config.MessageRate), deps.Config.MessageBurst)
		client := chat.NewClient(deps.Hub, session, conn, frameLimiter)

		if !deps.Hub.Register(client) {
			logx.Warn("WebSocket connection rejected: Server is shutting down.", "conn_id", connID)
			closeMsg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteMessage(websocket.CloseMessage, closeMsg)
			_ = conn.Close()
			return
		}

		logx.Info("WebSocket connection established.", "conn_id", connID)

		go client.WritePump()

		client.ReadPump()
	}
}
