package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/api/metrics"
	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/service"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, _ := c.Get(AccountKey).(*domain.Account)
			if _, err := service.Require(account, allowedRoles...); err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
				}
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
