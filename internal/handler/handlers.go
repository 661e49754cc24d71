package handler

import (
	"github.com/deppfellow/people/internal/server"
	"github.com/deppfellow/people/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	People  *PeopleHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		People:  NewPeopleHandler(s, services.People),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
