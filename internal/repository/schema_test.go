package repository

import (
	"reflect"
	"strings"
	"testing"

	"github.com/deppfellow/people/internal/model"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMapper = reflectx.NewMapperFunc("db", strings.ToLower)

var personType = reflect.TypeOf(model.Person{})

func TestValidateSchemaAcceptsPerson(t *testing.T) {
	assert.NoError(t, validateSchema(new(model.Person).Schema(), testMapper, personType))
}

func TestValidateSchemaRejectsBrokenSchemas(t *testing.T) {
	id := model.Column{Name: "id", Type: model.ColumnInteger, PrimaryKey: true}
	name := model.Column{Name: "name", Type: model.ColumnText}

	tests := []struct {
		name   string
		schema *model.Schema
		want   string
	}{
		{"nil schema", nil, "schema is nil"},
		{"no table", &model.Schema{Columns: []model.Column{id}}, "table is required"},
		{"no columns", &model.Schema{Table: "people"}, "no columns"},
		{"no primary key", &model.Schema{Table: "people", Columns: []model.Column{name}}, "exactly one primary key"},
		{"two primary keys", &model.Schema{Table: "people", Columns: []model.Column{id, {Name: "age", Type: model.ColumnInteger, PrimaryKey: true}}}, "exactly one primary key"},
		{"text primary key", &model.Schema{Table: "people", Columns: []model.Column{{Name: "name", Type: model.ColumnText, PrimaryKey: true}}}, "must be an integer"},
		{"duplicate column", &model.Schema{Table: "people", Columns: []model.Column{id, name, name}}, "twice"},
		{"unknown field", &model.Schema{Table: "people", Columns: []model.Column{id, {Name: "height", Type: model.ColumnInteger}}}, "no matching db field"},
		{"unknown type", &model.Schema{Table: "people", Columns: []model.Column{id, {Name: "age", Type: model.ColumnType(9)}}}, "unsupported type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSchema(tt.schema, testMapper, personType)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCreateTableStatement(t *testing.T) {
	schema := new(model.Person).Schema()

	sqlite, err := dialectFor("sqlite")
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS people (id INTEGER PRIMARY KEY, name TEXT NOT NULL, age INTEGER NOT NULL)",
		createTableStatement(sqlite, schema))

	postgres, err := dialectFor("pgx")
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS people (id BIGSERIAL PRIMARY KEY, name TEXT NOT NULL, age BIGINT NOT NULL)",
		createTableStatement(postgres, schema))

	_, err = dialectFor("mysql")
	assert.Error(t, err)
}

func TestCreateTableStatementNullableColumn(t *testing.T) {
	schema := &model.Schema{
		Table: "notes",
		Columns: []model.Column{
			{Name: "id", Type: model.ColumnInteger, PrimaryKey: true},
			{Name: "body", Type: model.ColumnText, Nullable: true},
		},
	}

	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS notes (id INTEGER PRIMARY KEY, body TEXT)",
		createTableStatement(sqliteDialect{}, schema))
}

func TestWhereClause(t *testing.T) {
	schema := new(model.Person).Schema()

	where, args, err := whereClause(schema, nil)
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args, err = whereClause(schema, []Filter{
		Eq("age", 40),
		{Field: "name", Op: OpNe, Value: "Pat"},
		{Field: "id", Op: OpLe, Value: int64(10)},
	})
	require.NoError(t, err)
	assert.Equal(t, " WHERE age = ? AND name != ? AND id <= ?", where)
	assert.Equal(t, []any{40, "Pat", int64(10)}, args)
}

func TestWhereClauseRejectsInjection(t *testing.T) {
	schema := new(model.Person).Schema()

	_, _, err := whereClause(schema, []Filter{Eq("age = 1 OR 1", 1)})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestFilterString(t *testing.T) {
	assert.Equal(t, "age >= 18", Filter{Field: "age", Op: OpGe, Value: 18}.String())
}
