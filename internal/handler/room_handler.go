/*
Package handler provides HTTP handler functions for read-only room introspection.
*/
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/resp"
)

// HandleListRooms lists every non-empty room with its member count.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Relay.Registry().Rooms())
	}
}

// HandleRoomUsers returns the same member list a roomInfo event would carry.
func HandleRoomUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := strings.TrimSpace(chi.URLParam(r, "room"))
		if room == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		resp.RespondSuccess(w, r, deps.Relay.Router().RoomInfo(room))
	}
}

// HandleUsernameAvailable reports whether ?username= could join the room right now.
func HandleUsernameAvailable(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := strings.TrimSpace(chi.URLParam(r, "room"))
		username := strings.TrimSpace(r.URL.Query().Get("username"))

		if room == "" || username == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMissingField))
			return
		}

		data := map[string]bool{
			"available": deps.Relay.Registry().UsernameAvailable(room, username),
		}
		resp.RespondSuccess(w, r, data)
	}
}
