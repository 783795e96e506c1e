package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventhall/booking-api/internal/api/middleware"
)

// principalID returns the id of the caller authenticated by the Auth
// middleware. A missing claim means the route was mounted without the gate.
func principalID(c echo.Context) (string, error) {
	claim, ok := middleware.ClaimFrom(c)
	if !ok || claim.ID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claim.ID, nil
}

func bindPayload(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}
