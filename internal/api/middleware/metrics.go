package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/api/metrics"
)

// Metrics observes request latency by method, matched route and status.
// Requests that match no route share the "unmatched" label.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
