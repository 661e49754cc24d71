package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/people/internal/model"
	"github.com/deppfellow/people/internal/server"
)

// PeopleStore persists Person records in the people table.
type PeopleStore = Store[model.Person, *model.Person]

// Repositories is a container for all repository instances.
type Repositories struct {
	People *PeopleStore
}

// NewRepositories builds every store over the server's database connection.
func NewRepositories(s *server.Server) (*Repositories, error) {
	var opts []StoreOption
	if s.Config.Observability != nil {
		opts = append(opts, WithSlowQueryThreshold(s.Config.Observability.Logging.SlowQueryThreshold))
	}

	people, err := NewStore[model.Person](s.DB.DB, s.Logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create people store: %w", err)
	}

	return &Repositories{
		People: people,
	}, nil
}

// Setup creates the tables backing every store.
func (r *Repositories) Setup(ctx context.Context) error {
	if err := r.People.Setup(ctx); err != nil {
		return err
	}
	return nil
}
