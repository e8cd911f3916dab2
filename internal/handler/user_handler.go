package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"neurochat/internal/errors"
	"neurochat/internal/model"
	"neurochat/internal/service"
	"neurochat/internal/session"
	"neurochat/internal/web"
)

// UserHandler serves the logged-in user's views.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// MeResponse wraps the current user.
type MeResponse struct {
	User model.UserSummary `json:"user"`
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	st := session.Get(c)
	if !st.Authenticated() {
		return fail(errors.ErrNotAuthenticated, "")
	}

	user, err := h.svc.GetUser(c.Request().Context(), st.UserID)
	if err != nil {
		return fail(errors.ErrNotAuthenticated, "")
	}
	return c.JSON(http.StatusOK, MeResponse{User: user.Summary()})
}

// Dashboard renders the authenticated landing page. The route is guarded by
// the session token check; a session without a user is sent to login.
func (h *UserHandler) Dashboard(c echo.Context) error {
	st := session.Get(c)
	if !st.Authenticated() {
		return c.Redirect(http.StatusSeeOther, "/auth/login")
	}

	page := web.Page{Title: "Dashboard"}
	if user, err := h.svc.GetUser(c.Request().Context(), st.UserID); err == nil {
		page.FirstName = user.FirstName
	}
	return c.Render(http.StatusOK, "dashboard.html", page)
}
