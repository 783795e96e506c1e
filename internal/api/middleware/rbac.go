package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventhall/booking-api/internal/api/metrics"
	"github.com/eventhall/booking-api/internal/core/domain"
)

// RequireRole admits requests whose claim carries one of roles. It must run
// after Auth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claim, ok := ClaimFrom(c)
			if !ok {
				metrics.AccessDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrMissingToken.Error()).
					SetInternal(domain.ErrMissingToken)
			}
			if _, ok := allowed[claim.Role]; !ok {
				metrics.AccessDeniedTotal.WithLabelValues("insufficient_role").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access denied: "+string(claim.Role)+" role is not permitted").
					SetInternal(domain.ErrInsufficientRole)
			}
			return next(c)
		}
	}
}
