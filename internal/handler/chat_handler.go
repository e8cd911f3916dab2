package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"neurochat/internal/errors"
	"neurochat/internal/logger"
	"neurochat/internal/service"
	"neurochat/internal/session"
	"neurochat/internal/web"
)

// ChatHandler exposes the guest timer and the chat flow.
type ChatHandler struct {
	chat service.ChatService
}

func NewChatHandler(chat service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// GuestStatusResponse mirrors the guest timer. GuestMode is "guest" while the
// timer applies and null otherwise.
type GuestStatusResponse struct {
	GuestMode             *string `json:"guest_mode"`
	RemainingTime         float64 `json:"remaining_time"`
	MinutesRemaining      int     `json:"minutes_remaining"`
	SecondsRemaining      int     `json:"seconds_remaining"`
	Expired               bool    `json:"expired"`
	ExpirationMessage     string  `json:"expiration_message,omitempty"`
	ShowExpirationMessage bool    `json:"show_expiration_message,omitempty"`
}

type HistoryEntry struct {
	Role      session.Role `json:"role"`
	Message   string       `json:"message"`
	Timestamp *time.Time   `json:"timestamp"`
}

type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
	Count   int            `json:"count"`
}

type StartResponse struct {
	Message string   `json:"message"`
	Options []string `json:"options"`
	Type    string   `json:"type"`
}

type ModeRequest struct {
	Mode string `json:"mode" form:"mode"`
}

type ModeResponse struct {
	Message      string       `json:"message"`
	Mode         session.Mode `json:"mode"`
	Confirmation string       `json:"confirmation"`
}

type ChatMessageRequest struct {
	Message string `json:"message" form:"message"`
}

type ChatMessageResponse struct {
	Message string       `json:"message"`
	Mode    session.Mode `json:"mode"`
}

// GuestExpiredResponse replaces the reply once the guest budget is spent.
type GuestExpiredResponse struct {
	Message      string `json:"message"`
	Expired      bool   `json:"expired"`
	GuestExpired bool   `json:"guest_expired"`
}

// Index renders the landing page. Anonymous visitors get a fresh guest timer
// on every load; logged-in users keep their session.
func (h *ChatHandler) Index(c echo.Context) error {
	st := session.Get(c)
	if !st.Authenticated() {
		h.chat.StartGuest(st)
	}
	return c.Render(http.StatusOK, "index.html", web.Page{})
}

// GuestStatus godoc
// @Summary Guest timer status
// @Description The first poll after expiry appends the expiry notice to the history and returns it.
// @Tags chat
// @Produce json
// @Success 200 {object} GuestStatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/guest/status [get]
func (h *ChatHandler) GuestStatus(c echo.Context) error {
	status, err := h.chat.GuestStatus(session.Get(c))
	if err != nil {
		return fail(err, "")
	}

	resp := GuestStatusResponse{
		RemainingTime:    status.RemainingSeconds(),
		MinutesRemaining: status.MinutesRemaining(),
		SecondsRemaining: status.SecondsRemaining(),
		Expired:          status.Expired,
	}
	if status.GuestMode {
		guest := "guest"
		resp.GuestMode = &guest
	}
	if status.JustExpired {
		resp.ExpirationMessage = session.GuestExpiredNotice
		resp.ShowExpirationMessage = true
	}
	return c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary Decrypted chat history
// @Tags chat
// @Produce json
// @Success 200 {object} HistoryResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/chat/history [get]
func (h *ChatHandler) History(c echo.Context) error {
	if err := session.LoadError(c); err != nil {
		logger.Error("chat history unavailable", "err", err)
		return fail(err, "Failed to retrieve chat history")
	}

	turns := h.chat.History(session.Get(c))
	entries := make([]HistoryEntry, 0, len(turns))
	for _, t := range turns {
		entries = append(entries, HistoryEntry{Role: t.Role, Message: t.Message, Timestamp: t.Timestamp})
	}
	return c.JSON(http.StatusOK, HistoryResponse{History: entries, Count: len(entries)})
}

// Start godoc
// @Summary Reset the chat and offer the modes
// @Tags chat
// @Produce json
// @Success 200 {object} StartResponse
// @Router /auth/chat/start [post]
func (h *ChatHandler) Start(c echo.Context) error {
	reply := h.chat.Start(session.Get(c))
	return c.JSON(http.StatusOK, StartResponse{
		Message: reply.Message,
		Options: reply.Options,
		Type:    reply.Type,
	})
}

// SetMode godoc
// @Summary Choose listen or talk mode
// @Description Clears the history and stores one confirmation turn.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ModeRequest true "Mode"
// @Success 200 {object} ModeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/chat/mode [post]
func (h *ChatHandler) SetMode(c echo.Context) error {
	var req ModeRequest
	if err := c.Bind(&req); err != nil {
		return fail(errors.ErrInvalidRequest, "")
	}

	reply, err := h.chat.SetMode(session.Get(c), req.Mode)
	if err != nil {
		return fail(err, "Failed to set chat mode")
	}
	return c.JSON(http.StatusOK, ModeResponse{
		Message:      reply.Message,
		Mode:         reply.Mode,
		Confirmation: reply.Confirmation,
	})
}

// Message godoc
// @Summary Send a chat message
// @Description Replies with the assistant message. An expired guest gets the expiry notice instead.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatMessageRequest true "Message"
// @Success 200 {object} ChatMessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/chat/message [post]
func (h *ChatHandler) Message(c echo.Context) error {
	var req ChatMessageRequest
	if err := c.Bind(&req); err != nil {
		return fail(errors.ErrInvalidRequest, "")
	}

	reply, err := h.chat.SendMessage(c.Request().Context(), session.Get(c), req.Message)
	if err != nil {
		return fail(err, "")
	}

	if reply.Expired {
		return c.JSON(http.StatusOK, GuestExpiredResponse{
			Message:      reply.Message,
			Expired:      true,
			GuestExpired: true,
		})
	}
	return c.JSON(http.StatusOK, ChatMessageResponse{Message: reply.Message, Mode: reply.Mode})
}
