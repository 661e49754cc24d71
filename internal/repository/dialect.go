package repository

import (
	"fmt"
	"strings"

	"github.com/deppfellow/people/internal/model"
)

// dialect renders DDL for one SQL engine.
type dialect interface {
	columnDefinition(col model.Column) string
}

type sqliteDialect struct{}

func (sqliteDialect) columnDefinition(col model.Column) string {
	if col.PrimaryKey {
		// INTEGER PRIMARY KEY aliases the rowid, so the engine assigns it.
		return col.Name + " INTEGER PRIMARY KEY"
	}

	def := col.Name
	switch col.Type {
	case model.ColumnInteger:
		def += " INTEGER"
	case model.ColumnText:
		def += " TEXT"
	}
	if !col.Nullable {
		def += " NOT NULL"
	}
	return def
}

type postgresDialect struct{}

func (postgresDialect) columnDefinition(col model.Column) string {
	if col.PrimaryKey {
		return col.Name + " BIGSERIAL PRIMARY KEY"
	}

	def := col.Name
	switch col.Type {
	case model.ColumnInteger:
		def += " BIGINT"
	case model.ColumnText:
		def += " TEXT"
	}
	if !col.Nullable {
		def += " NOT NULL"
	}
	return def
}

func dialectFor(driverName string) (dialect, error) {
	switch driverName {
	case "sqlite", "sqlite3":
		return sqliteDialect{}, nil
	case "pgx", "postgres":
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("no SQL dialect for driver %q", driverName)
	}
}

func createTableStatement(d dialect, schema *model.Schema) string {
	defs := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		defs[i] = d.columnDefinition(col)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", schema.Table, strings.Join(defs, ", "))
}
