package handler

import (
	"net/http"

	"github.com/deppfellow/people/internal/model"
	"github.com/deppfellow/people/internal/server"
	"github.com/deppfellow/people/internal/service"
	"github.com/labstack/echo/v4"
)

const usage = `# List people
curl localhost:8080/people

# Create a person named Pat who is 40
curl -XPOST 'localhost:8080/people?name=Pat&age=40'

# List people who are 40
curl localhost:8080/people?age=40

# Get the person with id: 1
curl localhost:8080/people/1

`

type PeopleHandler struct {
	Handler
	people *service.PeopleService
}

func NewPeopleHandler(s *server.Server, people *service.PeopleService) *PeopleHandler {
	return &PeopleHandler{
		Handler: NewHandler(s),
		people:  people,
	}
}

// Usage serves example requests for the people routes.
func (h *PeopleHandler) Usage(c echo.Context) error {
	return c.String(http.StatusOK, usage)
}

func (h *PeopleHandler) ListPeople(c echo.Context, req *ListPeopleRequest) ([]model.Person, error) {
	return h.people.List(c.Request().Context(), req.AgeFilter())
}

func (h *PeopleHandler) CreatePerson(c echo.Context, req *CreatePersonRequest) (*model.Person, error) {
	return h.people.Create(c.Request().Context(), req.Name, req.age)
}

func (h *PeopleHandler) GetPerson(c echo.Context, req *GetPersonRequest) (*model.Person, error) {
	return h.people.Get(c.Request().Context(), req.id)
}
