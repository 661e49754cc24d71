// Package model holds the record types persisted by the repository layer
// and the descriptors that map them onto tables.
package model

import "fmt"

// ColumnType is the storage class of a column, rendered per SQL dialect.
type ColumnType int

const (
	ColumnInteger ColumnType = iota + 1
	ColumnText
)

func (t ColumnType) String() string {
	switch t {
	case ColumnInteger:
		return "integer"
	case ColumnText:
		return "text"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Column maps one record field, by its `db` tag, to a table column.
type Column struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
	Nullable   bool
}

// Schema describes how a record type maps to a table.
//
// Entity is the singular, human name of one row ("person") and shows up in
// error messages.
type Schema struct {
	Table   string
	Entity  string
	Columns []Column
}

// Model is implemented by record pointers that a repository can persist.
type Model interface {
	Schema() *Schema
	PrimaryKey() (int64, bool)
	SetPrimaryKey(id int64)
}

// PrimaryKey returns the primary key column, or a zero Column if none is declared.
func (s *Schema) PrimaryKey() Column {
	for _, col := range s.Columns {
		if col.PrimaryKey {
			return col
		}
	}
	return Column{}
}

// DataColumns returns every column except the primary key.
func (s *Schema) DataColumns() []Column {
	cols := make([]Column, 0, len(s.Columns))
	for _, col := range s.Columns {
		if !col.PrimaryKey {
			cols = append(cols, col)
		}
	}
	return cols
}

// Column looks a column up by name.
func (s *Schema) Column(name string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// ColumnNames lists column names in declaration order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}
