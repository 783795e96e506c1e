package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventhall/booking-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, gate rejections, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrMissingRefreshToken):
		return http.StatusBadRequest, "refresh token is required"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "email address already registered"
	case errors.Is(err, domain.ErrPackageNameTaken):
		return http.StatusBadRequest, "package name already exists"
	case errors.Is(err, domain.ErrInvalidImage):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusUnauthorized, "access token is required"

	case errors.Is(err, domain.ErrInvalidRefreshToken):
		return http.StatusForbidden, "invalid refresh token"
	case errors.Is(err, domain.ErrInvalidOrExpiredToken), errors.Is(err, domain.ErrMalformedToken):
		return http.StatusForbidden, "invalid or expired token"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "access denied"

	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrPackageNotFound):
		return http.StatusNotFound, "package not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnexpected(log, c, err)
	return http.StatusInternalServerError, "internal server error"
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
