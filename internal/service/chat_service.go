package service

import (
	"context"
	"strings"
	"time"

	apperrors "neurochat/internal/errors"
	"neurochat/internal/logger"
	"neurochat/internal/metrics"
	"neurochat/internal/responder"
	"neurochat/internal/session"
)

// ModeSetMessage acknowledges a successful mode selection.
const ModeSetMessage = "Mode set successfully, please share what's on your mind!"

// Generator produces the assistant reply. *responder.Responder implements it.
type Generator interface {
	Generate(ctx context.Context, mode session.Mode, userMessage string, history []session.Turn) string
}

// Cipher is the fail-soft message codec. *codec.Codec implements it.
type Cipher interface {
	EncryptReport(plaintext string) (string, bool)
	Decrypt(ciphertext string) string
}

type StartReply struct {
	Message string
	Options []string
	Type    string
}

type ModeReply struct {
	Message      string
	Mode         session.Mode
	Confirmation string
}

// MessageReply is the outcome of SendMessage. Expired is set, and Mode left
// empty, when a guest session ran out of time and Message is the notice.
type MessageReply struct {
	Message string
	Mode    session.Mode
	Expired bool
}

// ChatService runs the chat flow against a session state.
type ChatService interface {
	StartGuest(st *session.State)
	GuestStatus(st *session.State) (session.GuestStatus, error)
	Start(st *session.State) StartReply
	SetMode(st *session.State, mode string) (ModeReply, error)
	SendMessage(ctx context.Context, st *session.State, message string) (MessageReply, error)
	History(st *session.State) []session.Turn
}

type chatService struct {
	cipher    Cipher
	generator Generator
	metrics   metrics.Recorder
	now       func() time.Time
}

// NewChatService wires the codec and reply generator.
func NewChatService(cipher Cipher, generator Generator, rec metrics.Recorder) ChatService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &chatService{cipher: cipher, generator: generator, metrics: rec, now: time.Now}
}

func (s *chatService) StartGuest(st *session.State) {
	st.StartGuest(s.now())
}

func (s *chatService) GuestStatus(st *session.State) (session.GuestStatus, error) {
	status, err := st.CheckGuest(s.now(), s.expiredNotice)
	if err != nil {
		return status, err
	}
	if status.JustExpired {
		s.metrics.RecordGuestExpired()
	}
	return status, nil
}

func (s *chatService) Start(st *session.State) StartReply {
	st.ResetChat()
	return StartReply{
		Message: responder.StartMessage,
		Options: append([]string(nil), responder.StartOptions...),
		Type:    responder.StartType,
	}
}

func (s *chatService) SetMode(st *session.State, raw string) (ModeReply, error) {
	mode, ok := session.ParseMode(raw)
	if !ok {
		return ModeReply{}, apperrors.ErrInvalidMode
	}

	confirmation := responder.Confirmation(mode)
	st.SelectMode(mode)
	st.Append(s.seal(session.RoleAI, confirmation))

	logger.Debug("chat mode set", "session", st.ID(), "mode", mode)
	return ModeReply{Message: ModeSetMessage, Mode: mode, Confirmation: confirmation}, nil
}

func (s *chatService) SendMessage(ctx context.Context, st *session.State, message string) (MessageReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return MessageReply{}, apperrors.ErrEmptyMessage
	}

	if st.GuestExpired(s.now()) {
		if _, err := s.GuestStatus(st); err != nil {
			return MessageReply{}, err
		}
		return MessageReply{Message: session.GuestExpiredNotice, Expired: true}, nil
	}

	mode := st.ChatMode
	if mode == session.ModeUnset {
		return MessageReply{}, apperrors.ErrChatModeNotSet
	}

	prior := s.History(st)
	st.Append(s.seal(session.RoleUser, message))

	reply := s.generator.Generate(ctx, mode, message, prior)
	st.Append(s.seal(session.RoleAI, reply))

	s.metrics.RecordMessage(string(mode))
	return MessageReply{Message: reply, Mode: mode}, nil
}

// History returns the turns with ciphertext opened. Turns stored without the
// encrypted flag are returned as they are.
func (s *chatService) History(st *session.State) []session.Turn {
	out := make([]session.Turn, 0, len(st.History))
	for _, t := range st.History {
		if t.Encrypted {
			t.Message = s.cipher.Decrypt(t.Message)
			t.Encrypted = false
		}
		out = append(out, t)
	}
	return out
}

func (s *chatService) expiredNotice() session.Turn {
	return s.seal(session.RoleAI, session.GuestExpiredNotice)
}

// seal encrypts message into a turn. If encryption fails the turn keeps the
// plaintext and is not flagged.
func (s *chatService) seal(role session.Role, message string) session.Turn {
	now := s.now().UTC()
	ciphertext, ok := s.cipher.EncryptReport(message)
	return session.Turn{
		Role:      role,
		Message:   ciphertext,
		Encrypted: ok,
		Timestamp: &now,
	}
}
