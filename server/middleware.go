package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/latif/observe"
)

// requestMetrics records the latency of every request by route and logs it
// at debug level.
func requestMetrics(m *observe.Metrics, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			req := c.Request()
			m.RecordRequest(req.Context(), req.Method, route, status, elapsed)
			logger.Debug("request", "method", req.Method, "route", route, "status", status, "elapsed", elapsed)
			return err
		}
	}
}
