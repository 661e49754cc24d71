package middleware

import (
	"time"

	"github.com/deppfellow/people/internal/metrics"
	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records Prometheus HTTP metrics per matched route.
type MetricsMiddleware struct{}

func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{}
}

// Instrument counts every request except scrapes of /metrics itself.
func (m *MetricsMiddleware) Instrument() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}

			done := metrics.TrackInFlight()
			defer done()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = StatusFromError(err)
			}
			metrics.RecordHTTPRequest(c.Request().Method, c.Path(), status, time.Since(start))

			return err
		}
	}
}
