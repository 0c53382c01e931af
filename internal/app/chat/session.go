/*
Package chat contains the room relay: event formatting, fan-out routing, the per-connection
session state machine and the WebSocket transport that carries them.

This file defines the Relay, which owns the shared collaborators, and the Session, the
state machine of one connection: Connected until a join succeeds, Joined until the
transport reports the connection gone, then Closed for good.
*/
package chat

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"chatrelay/internal/app/registry"
	"chatrelay/internal/app/user"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

// Transport delivers an event to a set of connections. Implementations must not block.
type Transport interface {
	Deliver(targets []string, msg Message)
}

// ContentFilter decides whether chat text is rejected.
type ContentFilter interface {
	IsProfane(text string) bool
}

// Relay holds what every session shares. It is safe for concurrent use.
type Relay struct {
	registry  *registry.Registry
	router    *Router
	transport Transport
	filter    ContentFilter
	validate  *validator.Validate

	// membershipMu makes each join and disconnect atomic with its fan-out, so room info
	// snapshots reach clients in the order the membership changed.
	membershipMu sync.Mutex

	logger zerolog.Logger
}

// NewRelay wires a Relay around reg. Events go out through transport; chat text is
// checked against filter.
func NewRelay(reg *registry.Registry, transport Transport, filter ContentFilter) *Relay {
	return &Relay{
		registry:  reg,
		router:    NewRouter(reg),
		transport: transport,
		filter:    filter,
		validate:  validator.New(),
		logger:    logx.Component("relay"),
	}
}

// Router returns the relay's fan-out router.
func (r *Relay) Router() *Router {
	return r.router
}

// Registry returns the relay's user registry.
func (r *Relay) Registry() *registry.Registry {
	return r.registry
}

// deliver formats and sends one event. Formatting failures are logged and the event dropped.
func (r *Relay) deliver(targets []string, msgType MessageType, room, sender string, payload any) {
	if len(targets) == 0 {
		return
	}

	msg, err := NewMessage(msgType, room, sender, payload)
	if err != nil {
		r.logger.Error().Err(err).Str("msg_type", string(msgType)).Msg("Failed to build event.")
		return
	}

	r.transport.Deliver(targets, msg)
}

// State is the lifecycle position of a Session.
type State int

const (
	StateConnected State = iota
	StateJoined
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is the state machine of one connection.
type Session struct {
	relay  *Relay
	connID string

	// mu serializes the session's transitions; a disconnect waits for an in-flight join.
	mu    sync.Mutex
	state State
	user  user.User

	logger zerolog.Logger
}

// NewSession starts a session for connID in the Connected state.
func (r *Relay) NewSession(connID string) *Session {
	return &Session{
		relay:  r,
		connID: connID,
		state:  StateConnected,
		logger: r.logger.With().Str("conn_id", connID).Logger(),
	}
}

// ConnID returns the id of the owning connection.
func (s *Session) ConnID() string {
	return s.connID
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the bound user while the session is joined.
func (s *Session) User() (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.state == StateJoined
}

// Join binds the connection to a new user in room.
// On failure the session stays Connected and may retry. On success the joiner gets a
// welcome, the rest of the room gets an announcement, and the whole room gets fresh
// room info, in that order.
func (s *Session) Join(username, room string) *errs.CustomError {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateJoined:
		return errs.NewError(errs.ErrAlreadyJoined)
	case StateClosed:
		return errs.NewError(errs.ErrSessionClosed)
	}

	r := s.relay
	r.membershipMu.Lock()
	defer r.membershipMu.Unlock()

	u, err := r.registry.AddUser(s.connID, username, room)
	if err != nil {
		s.logger.Info().Int("code", err.Code).Str("room", strings.TrimSpace(room)).Msg("Join rejected.")
		return err
	}

	s.user = u
	s.state = StateJoined
	s.logger = s.logger.With().Str("room", u.Room).Str("username", u.Username).Logger()

	r.deliver([]string{s.connID}, TypeMessage, u.Room, SystemSender, TextPayload{Text: WelcomeText})
	r.deliver(r.router.TargetsForRoomExcluding(u.Room, s.connID), TypeMessage, u.Room, SystemSender, TextPayload{Text: joinedText(u.Username)})

	info := r.router.RoomInfo(u.Room)
	r.deliver(r.router.TargetsForRoom(u.Room), TypeRoomInfo, info.Room, SystemSender, info)

	s.logger.Info().Int("members", len(info.Users)).Msg("User joined room.")
	return nil
}

// SendMessage relays text to the whole room, sender included.
// Profane text is rejected without any broadcast, and so is everything when the relay has
// no filter.
func (s *Session) SendMessage(text string) *errs.CustomError {
	u, joined := s.User()
	if !joined {
		return errs.NewError(errs.ErrNotJoined)
	}

	if strings.TrimSpace(text) == "" {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if len(text) > MaxContentBytes {
		return errs.NewError(errs.ErrMessageContentTooLong)
	}

	r := s.relay
	if r.filter == nil {
		s.logger.Error().Msg("No content filter configured, rejecting message.")
		return errs.NewError(errs.ErrWordListUnavailable)
	}

	if r.filter.IsProfane(text) {
		s.logger.Info().Msg("Message rejected by content filter.")
		return errs.NewError(errs.ErrProfanity)
	}

	r.deliver(r.router.TargetsForRoom(u.Room), TypeMessage, u.Room, u.Username, TextPayload{Text: text})
	return nil
}

// SendLocation relays loc to the whole room, sender included.
func (s *Session) SendLocation(loc Location) *errs.CustomError {
	u, joined := s.User()
	if !joined {
		return errs.NewError(errs.ErrNotJoined)
	}

	r := s.relay
	if err := r.validate.Struct(loc); err != nil {
		s.logger.Debug().Err(err).Msg("Location rejected.")
		return errs.NewError(errs.ErrInvalidLocation)
	}

	r.deliver(r.router.TargetsForRoom(u.Room), TypeLocation, u.Room, u.Username, NewLocationPayload(loc))
	return nil
}

// Disconnect releases the connection's user, if any, and tells the remaining members.
// It is idempotent; the session ends Closed whatever state it was in.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	s.state = StateClosed

	r := s.relay
	r.membershipMu.Lock()
	defer r.membershipMu.Unlock()

	u, ok := r.registry.RemoveUser(s.connID)
	if !ok {
		s.logger.Debug().Msg("Connection closed before joining.")
		return
	}

	targets := r.router.TargetsForRoom(u.Room)
	r.deliver(targets, TypeMessage, u.Room, SystemSender, TextPayload{Text: leftText(u.Username)})

	info := r.router.RoomInfo(u.Room)
	r.deliver(targets, TypeRoomInfo, info.Room, SystemSender, info)

	s.logger.Info().Int("members", len(info.Users)).Msg("User left room.")
}
