package router

import (
	"github.com/deppfellow/people/internal/handler"
	"github.com/deppfellow/people/internal/metrics"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the people API.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/docs", h.OpenAPI.ServeOpenAPI)
	r.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
