package handler

import (
	_ "embed"
	"net/http"

	"github.com/deppfellow/people/internal/server"
	"github.com/labstack/echo/v4"
)

//go:embed static/openapi.json
var openAPIDocument []byte

// OpenAPIHandler serves the OpenAPI document describing the people routes.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPI writes the embedded document. Caching is disabled so
// clients always see the document of the running build.
func (h *OpenAPIHandler) ServeOpenAPI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, openAPIDocument)
}
