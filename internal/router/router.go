// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps the people and system
// routes to their handlers
package router

import (
	"net/http"

	"github.com/deppfellow/people/internal/handler"
	"github.com/deppfellow/people/internal/middleware"
	"github.com/deppfellow/people/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the full middleware chain and
// every route registered.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Metrics.Instrument(),
		middlewares.Global.RequestLogger(),
	)
	if middlewares.RateLimit.Enabled() {
		router.Use(middlewares.RateLimit.Limit())
	}
	router.Use(middlewares.Global.Recover())

	registerSystemRoutes(router, h)
	registerPeopleRoutes(router, h)

	return router
}

func registerPeopleRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.People.Usage)

	people := r.Group("/people")
	people.GET("", handler.Handle(h.People.ListPeople, http.StatusOK))
	people.POST("", handler.Handle(h.People.CreatePerson, http.StatusCreated))
	// Answers 201 on success as the service always has; likely an oversight, kept as is.
	people.GET("/:id", handler.Handle(h.People.GetPerson, http.StatusCreated))
}
