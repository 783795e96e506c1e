package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventhall/booking-api/internal/api/metrics"
	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

// AuthHandler exposes login, refresh and logout for one principal type. key
// names the principal in the login response ("administrator" or "user").
type AuthHandler[P any] struct {
	service ports.AuthService[P]
	kind    domain.PrincipalKind[P]
	key     string
}

func NewAuthHandler[P any](service ports.AuthService[P], kind domain.PrincipalKind[P], key string) *AuthHandler[P] {
	return &AuthHandler[P]{service: service, kind: kind, key: key}
}

// Login authenticates with email and password and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/login [post]
// @Router       /user/login [post]
func (h *AuthHandler[P]) Login(c echo.Context) error {
	var req loginRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.Login(c.Request().Context(), req.EmailAddress, req.Password)
	h.observe("login", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Login successful",
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
		h.key:          newAccountView(h.kind.Account(res.Principal)),
	})
}

// RefreshToken exchanges the current refresh token for a new access token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshTokenRequest  true  "Refresh token"
// @Success      200   {object}  refreshTokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/refresh-token [post]
// @Router       /user/refresh-token [post]
func (h *AuthHandler[P]) RefreshToken(c echo.Context) error {
	var req refreshTokenRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}

	access, err := h.service.Refresh(c.Request().Context(), strings.TrimSpace(req.RefreshToken))
	h.observe("refresh", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, refreshTokenResponse{
		Message:     "Access token refreshed",
		AccessToken: access,
	})
}

// Logout clears the stored refresh token. Repeating it is harmless.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshTokenRequest  true  "Refresh token"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /admin/logout [post]
// @Router       /user/logout [post]
func (h *AuthHandler[P]) Logout(c echo.Context) error {
	var req refreshTokenRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}

	err := h.service.Logout(c.Request().Context(), strings.TrimSpace(req.RefreshToken))
	h.observe("logout", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler[P]) observe(operation string, err error) {
	metrics.AuthAttemptsTotal.WithLabelValues(string(h.kind.Role), operation, authOutcome(err)).Inc()
}

func authOutcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrMissingRefreshToken), errors.As(err, &ve):
		return "bad_request"
	default:
		return "error"
	}
}
