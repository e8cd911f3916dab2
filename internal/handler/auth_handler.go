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

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	authService service.AuthService
	sessions    *session.Manager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// SignupRequest accepts JSON or form-encoded bodies. Presence is checked by
// the service so each missing field gets its own message.
type SignupRequest struct {
	FirstName string `json:"first_name" form:"first_name" validate:"max=100"`
	Email     string `json:"email" form:"email" validate:"max=120"`
	Password  string `json:"password" form:"password" validate:"max=72"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResponse carries the logged-in user.
type LoginResponse struct {
	Message string            `json:"message"`
	User    model.UserSummary `json:"user"`
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", web.Page{Title: "Log in"})
}

// SignupPage renders the signup form.
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.Render(http.StatusOK, "signup.html", web.Page{Title: "Sign up"})
}

// Signup godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return fail(errors.ErrInvalidRequest, "")
	}
	if err := c.Validate(&req); err != nil {
		return fail(errors.ErrInvalidRequest, "")
	}

	_, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		FirstName: req.FirstName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return fail(err, "An error occurred during signup")
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Account created successfully"})
}

// Login godoc
// @Summary Log in and bind the browser session to the user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(errors.ErrInvalidRequest, "")
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(err, "An error occurred during login")
	}

	if err := h.sessions.Login(c, user.ID, user.Email); err != nil {
		return fail(err, "An error occurred during login")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    user.Summary(),
	})
}

// Logout godoc
// @Summary Clear the session
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}
