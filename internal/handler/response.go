package handler

import (
	"github.com/labstack/echo/v4"

	"neurochat/internal/errors"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// fail converts a domain error into the JSON error body. Errors the mapper
// does not know become a 500 with fallback as the message.
func fail(err error, fallback string) error {
	httpErr := errors.MapErrorToHTTP(err, fallback)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
