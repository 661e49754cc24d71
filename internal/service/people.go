package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/people/internal/metrics"
	"github.com/deppfellow/people/internal/model"
	"github.com/deppfellow/people/internal/repository"
	"github.com/deppfellow/people/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// PeopleStore is the persistence PeopleService needs.
type PeopleStore interface {
	List(ctx context.Context, filters ...repository.Filter) ([]model.Person, error)
	Save(ctx context.Context, record *model.Person) error
	Find(ctx context.Context, id int64) (*model.Person, error)
}

type PeopleService struct {
	server *server.Server
	store  PeopleStore
}

func NewPeopleService(s *server.Server, store PeopleStore) *PeopleService {
	return &PeopleService{
		server: s,
		store:  store,
	}
}

// List returns every person, or only those aged exactly *age when age is set.
func (ps *PeopleService) List(ctx context.Context, age *int) ([]model.Person, error) {
	var filters []repository.Filter
	if age != nil {
		filters = append(filters, repository.Eq("age", *age))
	}

	people, err := ps.store.List(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

// Create saves a new person and returns it with its assigned id.
func (ps *PeopleService) Create(ctx context.Context, name string, age int) (*model.Person, error) {
	person := model.NewPerson(name, age)
	if err := ps.store.Save(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	metrics.RecordPersonCreated()

	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.AddAttribute("person.id", *person.ID)
	}

	zerolog.Ctx(ctx).Info().
		Int64("person_id", *person.ID).
		Msg("person created")

	return person, nil
}

// Get returns the person with the given id. A missing person surfaces as
// repository.ErrNotFound in the error chain.
func (ps *PeopleService) Get(ctx context.Context, id int64) (*model.Person, error) {
	person, err := ps.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return person, nil
}
