package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventhall/booking-api/internal/api/metrics"
	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

const claimKey = "auth_claim"

// Auth verifies the bearer access token and stores its claim in the context.
// A missing or ill-formed header is 401; a token that does not verify is 403.
// The response never says why a token failed.
func Auth(tokens ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AccessDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrMissingToken.Error()).
					SetInternal(domain.ErrMissingToken)
			}

			claim, err := tokens.VerifyAccess(token)
			if err != nil {
				metrics.AccessDeniedTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrInvalidOrExpiredToken.Error()).
					SetInternal(err)
			}

			c.Set(claimKey, claim)
			return next(c)
		}
	}
}

// ClaimFrom returns the claim stored by Auth.
func ClaimFrom(c echo.Context) (domain.RoleClaim, bool) {
	claim, ok := c.Get(claimKey).(domain.RoleClaim)
	return claim, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
