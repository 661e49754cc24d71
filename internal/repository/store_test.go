package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/deppfellow/people/internal/config"
	"github.com/deppfellow/people/internal/database"
	"github.com/deppfellow/people/internal/logger"
	"github.com/deppfellow/people/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMemoryDB opens the default in-memory database with the same pool
// policy the service runs with.
func newMemoryDB(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := config.Default()
	ls, err := logger.NewLoggerService(cfg.Observability)
	require.NoError(t, err)

	log := zerolog.Nop()
	db, err := database.New(cfg, &log, ls)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db.DB
}

func TestMemoryDBPinsOneConnection(t *testing.T) {
	assert.Equal(t, 1, newMemoryDB(t).Stats().MaxOpenConnections)
}

func newPeopleStore(t *testing.T) *PeopleStore {
	t.Helper()

	store, err := NewStore[model.Person](newMemoryDB(t), nil)
	require.NoError(t, err)
	require.NoError(t, store.Setup(context.Background()))

	return store
}

func newMockStore(t *testing.T) (*PeopleStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewStore[model.Person](sqlx.NewDb(db, "sqlite"), nil)
	require.NoError(t, err)

	return store, mock
}

func TestStoreSetupIsIdempotent(t *testing.T) {
	store := newPeopleStore(t)

	require.NoError(t, store.Setup(context.Background()))
	require.NoError(t, store.Setup(context.Background()))
}

func TestStoreSaveInsertAssignsIDs(t *testing.T) {
	ctx := context.Background()
	store := newPeopleStore(t)

	pat := model.NewPerson("Pat", 40)
	require.NoError(t, store.Save(ctx, pat))
	require.NotNil(t, pat.ID)
	assert.Equal(t, int64(1), *pat.ID)

	sam := model.NewPerson("Sam", 31)
	require.NoError(t, store.Save(ctx, sam))
	require.NotNil(t, sam.ID)
	assert.Equal(t, int64(2), *sam.ID)

	found, err := store.Find(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Pat", found.Name)
	assert.Equal(t, 40, found.Age)
	assert.Equal(t, int64(1), *found.ID)
}

func TestStoreSaveUpdatesExistingRecord(t *testing.T) {
	ctx := context.Background()
	store := newPeopleStore(t)

	pat := model.NewPerson("Pat", 40)
	require.NoError(t, store.Save(ctx, pat))

	pat.Age = 41
	require.NoError(t, store.Save(ctx, pat))
	assert.Equal(t, int64(1), *pat.ID)

	people, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, 41, people[0].Age)
}

func TestStoreSaveUpdateMissingRecord(t *testing.T) {
	store := newPeopleStore(t)

	ghost := model.NewPerson("Ghost", 99)
	ghost.SetPrimaryKey(42)

	err := store.Save(context.Background(), ghost)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreFindMissingRecord(t *testing.T) {
	store := newPeopleStore(t)

	person, err := store.Find(context.Background(), 7)
	assert.Nil(t, person)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Contains(t, err.Error(), "entity:person:")
}

func TestStoreListFilters(t *testing.T) {
	ctx := context.Background()
	store := newPeopleStore(t)

	for _, p := range []*model.Person{
		model.NewPerson("Pat", 40),
		model.NewPerson("Sam", 31),
		model.NewPerson("Alex", 40),
	} {
		require.NoError(t, store.Save(ctx, p))
	}

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Pat", "Sam", "Alex"}, names(all))

	forty, err := store.List(ctx, Eq("age", 40))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pat", "Alex"}, names(forty))

	older, err := store.List(ctx, Filter{Field: "age", Op: OpGt, Value: 35}, Filter{Field: "name", Op: OpNe, Value: "Pat"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex"}, names(older))

	none, err := store.List(ctx, Eq("age", 99))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStoreListEmptyTableIsNotNil(t *testing.T) {
	people, err := newPeopleStore(t).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, people)
	assert.Len(t, people, 0)
}

func TestStoreListRejectsInvalidFilters(t *testing.T) {
	store, mock := newMockStore(t)

	_, err := store.List(context.Background(), Eq("height", 180))
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = store.List(context.Background(), Filter{Field: "age", Op: "LIKE", Value: 1})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = store.List(context.Background(), Filter{Field: "age", Op: OpEq})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	// No SQL reaches the database for a rejected filter.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreListQueryFailure(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT id, name, age FROM people WHERE age = ? ORDER BY id").
		WithArgs(40).
		WillReturnError(boom)

	_, err := store.List(context.Background(), Eq("age", 40))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreInsertUsesReturning(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO people (name, age) VALUES (?, ?) RETURNING id").
		WithArgs("Pat", 40).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	pat := model.NewPerson("Pat", 40)
	require.NoError(t, store.Save(context.Background(), pat))
	require.NotNil(t, pat.ID)
	assert.Equal(t, int64(7), *pat.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateNoRowsAffected(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE people SET name = ?, age = ? WHERE id = ?").
		WithArgs("Pat", 41, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	pat := model.NewPerson("Pat", 41)
	pat.SetPrimaryKey(3)

	err := store.Save(context.Background(), pat)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSetupFailure(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("disk I/O error")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS people (id INTEGER PRIMARY KEY, name TEXT NOT NULL, age INTEGER NOT NULL)").
		WillReturnError(boom)

	err := store.Setup(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewStoreRejectsUnknownDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewStore[model.Person](sqlx.NewDb(db, "mysql"), nil)
	assert.Error(t, err)
}

func names(people []model.Person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.Name
	}
	return out
}
