/*
Package registry owns the authoritative set of joined users.

The Registry maps connection ids to users and enforces that a username is held by at
most one connection per room. Rooms are not stored: a room's membership is derived by
filtering users on their room name, so there is a single source of truth. Every read
returns a copy taken under the lock, never a live view.
*/
package registry

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"chatrelay/internal/app/user"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

// entry is a stored user plus its insertion sequence, used to keep snapshots stable.
type entry struct {
	user user.User
	seq  uint64
}

// RoomSummary describes one non-empty room.
type RoomSummary struct {
	Room    string `json:"room"`
	Members int    `json:"members"`
}

// Registry is the concurrency-safe connection → user store.
type Registry struct {
	// mu serializes mutations and guards users and seq.
	mu sync.RWMutex

	// users maps connection id to the user it owns.
	users map[string]entry

	// seq is the next insertion sequence number.
	seq uint64

	logger zerolog.Logger
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		users:  make(map[string]entry),
		logger: logx.Component("registry"),
	}
}

// AddUser validates and inserts the user owned by connID.
// Username and room are trimmed; either being empty yields ErrMissingField. A username
// already used in the same room (case-insensitive) yields ErrUsernameTaken, and a
// connection that already owns a user yields ErrAlreadyJoined. The uniqueness check and
// the insert happen under one exclusive lock.
func (r *Registry) AddUser(connID, rawUsername, rawRoom string) (user.User, *errs.CustomError) {
	if connID == "" {
		return user.User{}, errs.NewError(errs.ErrInvalidParams)
	}

	candidate := user.User{
		ConnID:   connID,
		Username: strings.TrimSpace(rawUsername),
		Room:     strings.TrimSpace(rawRoom),
	}

	if candidate.Username == "" || candidate.Room == "" {
		return user.User{}, errs.NewError(errs.ErrMissingField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, bound := r.users[connID]; bound {
		return user.User{}, errs.NewError(errs.ErrAlreadyJoined)
	}

	if r.takenLocked(candidate.RoomKey(), candidate.NameKey()) {
		r.logger.Debug().
			Str("room", candidate.Room).
			Str("username", candidate.Username).
			Msg("Username already taken in room.")
		return user.User{}, errs.NewError(errs.ErrUsernameTaken)
	}

	r.users[connID] = entry{user: candidate, seq: r.seq}
	r.seq++

	r.logger.Debug().
		Str("conn_id", connID).
		Str("room", candidate.Room).
		Str("username", candidate.Username).
		Int("total_users", len(r.users)).
		Msg("User added.")

	return candidate, nil
}

// takenLocked reports whether nameKey is held in roomKey. Callers must hold mu.
func (r *Registry) takenLocked(roomKey, nameKey string) bool {
	for _, e := range r.users {
		if e.user.RoomKey() == roomKey && e.user.NameKey() == nameKey {
			return true
		}
	}
	return false
}

// RemoveUser deletes and returns the user owned by connID.
// The boolean is false when the connection never joined or was already removed.
func (r *Registry) RemoveUser(connID string) (user.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.users[connID]
	if !ok {
		return user.User{}, false
	}
	delete(r.users, connID)

	r.logger.Debug().
		Str("conn_id", connID).
		Str("room", e.user.Room).
		Int("total_users", len(r.users)).
		Msg("User removed.")

	return e.user, true
}

// GetUser returns the user owned by connID.
func (r *Registry) GetUser(connID string) (user.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.users[connID]
	return e.user, ok
}

// GetUsersInRoom returns a snapshot of the users in room, matched case-insensitively,
// in join order.
func (r *Registry) GetUsersInRoom(room string) []user.User {
	roomKey := user.Normalize(room)

	r.mu.RLock()
	members := lo.Filter(lo.Values(r.users), func(e entry, _ int) bool {
		return e.user.RoomKey() == roomKey
	})
	r.mu.RUnlock()

	slices.SortFunc(members, func(a, b entry) int {
		return cmp.Compare(a.seq, b.seq)
	})

	return lo.Map(members, func(e entry, _ int) user.User {
		return e.user
	})
}

// UsernameAvailable reports whether username could currently join room.
// Blank values are never available.
func (r *Registry) UsernameAvailable(room, username string) bool {
	roomKey, nameKey := user.Normalize(room), user.Normalize(username)
	if roomKey == "" || nameKey == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return !r.takenLocked(roomKey, nameKey)
}

// Len returns the number of joined users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Rooms summarizes every non-empty room, sorted by room key. The display name of a room
// is the one given by its earliest remaining member.
func (r *Registry) Rooms() []RoomSummary {
	r.mu.RLock()
	all := lo.Values(r.users)
	r.mu.RUnlock()

	slices.SortFunc(all, func(a, b entry) int {
		return cmp.Compare(a.seq, b.seq)
	})

	grouped := lo.GroupBy(all, func(e entry) string {
		return e.user.RoomKey()
	})

	summaries := lo.MapToSlice(grouped, func(_ string, members []entry) RoomSummary {
		return RoomSummary{Room: members[0].user.Room, Members: len(members)}
	})

	slices.SortFunc(summaries, func(a, b RoomSummary) int {
		return cmp.Compare(user.Normalize(a.Room), user.Normalize(b.Room))
	})

	return summaries
}
