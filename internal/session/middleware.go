package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"neurochat/internal/auth"
	"neurochat/internal/logger"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "neurochat_session"

const (
	contextKeyState   = "session_state"
	contextKeyLoadErr = "session_load_error"
)

// Manager loads state before each request and saves it afterwards.
type Manager struct {
	store  Store
	tokens *auth.JWTService
}

// NewManager creates a session manager.
func NewManager(store Store, tokens *auth.JWTService) *Manager {
	return &Manager{store: store, tokens: tokens}
}

// Middleware attaches a *State to every request not skipped by skipper.
// A missing or invalid cookie starts a new session. A valid cookie whose
// stored state expired or cannot be decoded gets a fresh state that keeps
// the user id from the token, so the session stays logged in for as long as
// the token does. Decoding errors are kept for handlers that must report
// them (see LoadError). A Redis failure fails the request.
func (m *Manager) Middleware(skipper middleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}
			ctx := c.Request().Context()

			st, err := m.resume(ctx, c)
			if err != nil {
				return err
			}
			c.Set(contextKeyState, st)

			handlerErr := next(c)

			// Persist with a context that survives client disconnects.
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			switch {
			case st.destroyed:
				if err := m.store.Destroy(saveCtx, st.id); err != nil {
					logger.Warn("destroy session failed", "err", err)
				}
			case st.dirty:
				if err := m.store.Save(saveCtx, st); err != nil {
					logger.Error("save session failed", "err", err)
					break
				}
				if st.replaced != "" {
					if err := m.store.Destroy(saveCtx, st.replaced); err != nil {
						logger.Warn("destroy rotated session failed", "err", err)
					}
					st.replaced = ""
				}
			}
			return handlerErr
		}
	}
}

func (m *Manager) resume(ctx context.Context, c echo.Context) (*State, error) {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		if claims, err := m.tokens.Validate(cookie.Value); err == nil {
			st, err := m.store.Load(ctx, claims.SessionID)
			switch {
			case err == nil:
				return st, nil
			case errors.Is(err, ErrNotFound):
				st = New(claims.SessionID)
				if claims.Authenticated() {
					st.BindUser(claims.UserID)
				}
				return st, nil
			case errors.Is(err, ErrCorrupt):
				logger.Error("discarding unreadable session", "err", err)
				c.Set(contextKeyLoadErr, err)
				st = New(claims.SessionID)
				st.UserID = claims.UserID
				st.dirty = true
				return st, nil
			default:
				return nil, err
			}
		}
	}

	st := New(m.tokens.NewSessionID())
	if err := m.issue(c, st, ""); err != nil {
		return nil, err
	}
	return st, nil
}

// Login binds user to the current session, moves it to a new session id and
// re-issues the cookie so the token carries the user id. The state stored
// under the old id is removed once the new one is saved.
func (m *Manager) Login(c echo.Context, userID uint, email string) error {
	st := Get(c)
	st.rotate(m.tokens.NewSessionID())
	st.BindUser(userID)
	return m.issue(c, st, email)
}

// Logout destroys the current session and clears the cookie.
func (m *Manager) Logout(c echo.Context) {
	if st, ok := c.Get(contextKeyState).(*State); ok {
		st.destroyed = true
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (m *Manager) issue(c echo.Context, st *State, email string) error {
	token, err := m.tokens.Issue(st.id, st.UserID, email)
	if err != nil {
		return err
	}
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.SessionTokenExpiry / time.Second),
	})
	return nil
}

// Get returns the request's session state. It panics if the middleware was
// not applied to the route.
func Get(c echo.Context) *State {
	st, ok := c.Get(contextKeyState).(*State)
	if !ok {
		panic("session: middleware not applied")
	}
	return st
}

// LoadError returns the decoding error that replaced this request's stored
// state, or nil.
func LoadError(c echo.Context) error {
	err, _ := c.Get(contextKeyLoadErr).(error)
	return err
}
