// Package session holds the per-browser chat state: guest timer, chat mode
// and the encrypted conversation history. State is stored server-side in
// Redis and located through a signed session cookie.
package session

import (
	"strings"
	"time"
)

// CurrentVersion is the schema version written by this build. Version 0
// payloads predate per-turn encryption; their turns carry no Encrypted flag
// and are read as plaintext.
const CurrentVersion = 1

// Mode is the conversational mode of a chat.
type Mode string

const (
	ModeUnset  Mode = ""
	ModeListen Mode = "listen"
	ModeTalk   Mode = "talk"
)

// ParseMode accepts exactly "listen" or "talk".
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeListen, ModeTalk:
		return Mode(s), true
	default:
		return ModeUnset, false
	}
}

// Role tags the author of a turn.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Turn is one stored chat message. Message is ciphertext when Encrypted is set.
type Turn struct {
	Role      Role       `json:"role"`
	Message   string     `json:"message"`
	Encrypted bool       `json:"encrypted,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// State is everything the server remembers about one browser session.
type State struct {
	Version              int       `json:"v"`
	UserID               uint      `json:"user_id,omitempty"`
	GuestMode            bool      `json:"guest_mode"`
	GuestStartedAt       time.Time `json:"guest_start_time"`
	GuestExpiredNotified bool      `json:"guest_expired_notified"`
	ChatMode             Mode      `json:"chat_mode"`
	History              []Turn    `json:"conversation_history"`

	id        string
	dirty     bool
	destroyed bool
	replaced  string // previous id after rotate, deleted once saved
}

// New returns an empty state for session id.
func New(id string) *State {
	return &State{Version: CurrentVersion, id: id, History: []Turn{}}
}

// ID returns the session identifier.
func (s *State) ID() string { return s.id }

// Authenticated reports whether a user is logged in on this session.
func (s *State) Authenticated() bool { return s.UserID != 0 }

// Dirty reports whether the state changed since it was loaded.
func (s *State) Dirty() bool { return s.dirty }

// Destroyed reports whether the session was ended during this request.
func (s *State) Destroyed() bool { return s.destroyed }

// ResetChat clears the mode and the history.
func (s *State) ResetChat() {
	s.ChatMode = ModeUnset
	s.History = []Turn{}
	s.dirty = true
}

// SelectMode enters mode and clears the history.
func (s *State) SelectMode(mode Mode) {
	s.ChatMode = mode
	s.History = []Turn{}
	s.dirty = true
}

// Append adds a turn to the history.
func (s *State) Append(t Turn) {
	s.History = append(s.History, t)
	s.dirty = true
}

// BindUser attaches a logged-in user. Authenticated sessions are not
// subject to the guest timer.
func (s *State) BindUser(userID uint) {
	s.UserID = userID
	s.GuestMode = false
	s.dirty = true
}

// rotate moves the state to a new id.
func (s *State) rotate(id string) {
	if s.replaced == "" {
		s.replaced = s.id
	}
	s.id = id
	s.dirty = true
}

// MarkDirty forces the state to be saved at the end of the request.
func (s *State) MarkDirty() { s.dirty = true }

// upgrade migrates older payloads in place.
func (s *State) upgrade() {
	if s.Version >= CurrentVersion {
		return
	}
	for i := range s.History {
		s.History[i].Role = Role(strings.ToLower(string(s.History[i].Role)))
	}
	if s.History == nil {
		s.History = []Turn{}
	}
	s.Version = CurrentVersion
	s.dirty = true
}
