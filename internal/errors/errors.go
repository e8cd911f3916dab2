package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrFirstNameRequired is returned when signup omits the display name.
	ErrFirstNameRequired = errors.New("First name is required")
	// ErrEmailRequired is returned when signup omits the email.
	ErrEmailRequired = errors.New("Email is required")
	// ErrPasswordRequired is returned when signup omits the password.
	ErrPasswordRequired = errors.New("Password is required")
	// ErrPasswordTooLong is returned for a password bcrypt cannot hash.
	ErrPasswordTooLong = errors.New("Password must be at most 72 bytes")
	// ErrCredentialsRequired is returned when login omits email or password.
	ErrCredentialsRequired = errors.New("Email and password are required")
	// ErrEmailInUse is returned when signing up with a registered email.
	ErrEmailInUse = errors.New("Email already in use")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrNotAuthenticated is returned when a route needs a logged-in user.
	ErrNotAuthenticated = errors.New("Authentication required")
	// ErrNoGuestSession is returned when the guest timer was never started.
	ErrNoGuestSession = errors.New("No guest session")
	// ErrEmptyMessage is returned for a blank chat message.
	ErrEmptyMessage = errors.New("Message cannot be empty")
	// ErrChatModeNotSet is returned when chatting before choosing a mode.
	ErrChatModeNotSet = errors.New("Chat mode not set")
	// ErrInvalidMode is returned for a mode other than listen or talk.
	ErrInvalidMode = errors.New("Invalid mode. Must be 'listen' or 'talk'")
	// ErrInvalidRequest is returned when a request body cannot be decoded.
	ErrInvalidRequest = errors.New("Invalid request body")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 carrying fallbackMessage so internals never reach the client.
func MapErrorToHTTP(err error, fallbackMessage string) *HTTPError {
	badRequest := func(code string) *HTTPError {
		return NewHTTPError(http.StatusBadRequest, err.Error(), code)
	}
	switch {
	case errors.Is(err, ErrFirstNameRequired),
		errors.Is(err, ErrEmailRequired),
		errors.Is(err, ErrPasswordRequired),
		errors.Is(err, ErrCredentialsRequired):
		return badRequest("MISSING_FIELDS")
	case errors.Is(err, ErrPasswordTooLong):
		return badRequest("PASSWORD_TOO_LONG")
	case errors.Is(err, ErrEmailInUse):
		return badRequest("EMAIL_IN_USE")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrNotAuthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrNotAuthenticated.Error(), "NOT_AUTHENTICATED")
	case errors.Is(err, ErrNoGuestSession):
		return badRequest("NO_GUEST_SESSION")
	case errors.Is(err, ErrEmptyMessage):
		return badRequest("EMPTY_MESSAGE")
	case errors.Is(err, ErrChatModeNotSet):
		return badRequest("CHAT_MODE_NOT_SET")
	case errors.Is(err, ErrInvalidMode):
		return badRequest("INVALID_MODE")
	case errors.Is(err, ErrInvalidRequest):
		return badRequest("INVALID_REQUEST")
	default:
		if fallbackMessage == "" {
			fallbackMessage = "internal server error"
		}
		return NewHTTPError(http.StatusInternalServerError, fallbackMessage, "INTERNAL_ERROR")
	}
}
