package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/api/metrics"
	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	AccountKey = "account"
	ClaimsKey  = "claims"
)

// Auth resolves the bearer token to a live account and injects the account
// and its token claims into context.
func Auth(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("malformed_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			account, claims, err := resolver.Resolve(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				return reject(err)
			}

			c.Set(AccountKey, account)
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

func reject(err error) error {
	switch {
	case errors.Is(err, domain.ErrInactiveAccount):
		metrics.AuthRejectionsTotal.WithLabelValues("inactive").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "account is inactive").SetInternal(err)
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUnauthenticated):
		metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token").SetInternal(err)
	default:
		metrics.AuthRejectionsTotal.WithLabelValues("unavailable").Inc()
		return echo.NewHTTPError(http.StatusServiceUnavailable, "service unavailable").SetInternal(err)
	}
}
