package service

import (
	"github.com/deppfellow/people/internal/repository"
	"github.com/deppfellow/people/internal/server"
)

// Services groups the business layer.
type Services struct {
	People *PeopleService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		People: NewPeopleService(s, repos.People),
	}, nil
}
