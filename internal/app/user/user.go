/*
Package user defines the chat participant bound to one connection.

A User is created when a connection joins a room and is never mutated afterwards; a
participant who wants another room disconnects and joins again.
*/
package user

import "strings"

// User is one joined participant.
type User struct {
	// ConnID is the id of the transport session that owns this user.
	ConnID string `json:"-"`

	// Username is the trimmed display name; compared case-insensitively within a room.
	Username string `json:"username"`

	// Room is the trimmed room name as given at join time; compared case-insensitively.
	Room string `json:"-"`
}

// Normalize trims s and folds it to lower case for comparisons.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NameKey returns the comparison key of the username.
func (u User) NameKey() string {
	return Normalize(u.Username)
}

// RoomKey returns the comparison key of the room.
func (u User) RoomKey() string {
	return Normalize(u.Room)
}

// InRoom reports whether the user belongs to room, ignoring case and surrounding space.
func (u User) InRoom(room string) bool {
	return u.RoomKey() == Normalize(room)
}
