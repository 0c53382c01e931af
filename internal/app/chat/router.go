/*
Package chat contains the room relay: event formatting, fan-out routing, the per-connection
session state machine and the WebSocket transport that carries them.

This file defines the Router, which turns a room name into the set of connections an event
must reach. It only computes targets; delivery belongs to the Transport.
*/
package chat

import (
	"github.com/samber/lo"

	"chatrelay/internal/app/user"
)

// MembershipSource provides point-in-time room membership.
type MembershipSource interface {
	GetUsersInRoom(room string) []user.User
}

// Router computes fan-out targets from fresh membership snapshots.
type Router struct {
	members MembershipSource
}

// NewRouter returns a Router reading membership from members.
func NewRouter(members MembershipSource) *Router {
	return &Router{members: members}
}

// TargetsForRoom returns every connection currently in room.
func (r *Router) TargetsForRoom(room string) []string {
	return lo.Map(r.members.GetUsersInRoom(room), func(u user.User, _ int) string {
		return u.ConnID
	})
}

// TargetsForRoomExcluding returns every connection in room except excluded.
func (r *Router) TargetsForRoomExcluding(room, excluded string) []string {
	return lo.FilterMap(r.members.GetUsersInRoom(room), func(u user.User, _ int) (string, bool) {
		return u.ConnID, u.ConnID != excluded
	})
}

// RoomInfo builds the member list of room. The room is named after its earliest member's
// spelling so every member sees the same name; an empty room keeps the given name.
func (r *Router) RoomInfo(room string) RoomInfoPayload {
	users := r.members.GetUsersInRoom(room)

	name := room
	if len(users) > 0 {
		name = users[0].Room
	}

	return RoomInfoPayload{Room: name, Users: users}
}
