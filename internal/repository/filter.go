package repository

import (
	"fmt"
	"strings"

	"github.com/deppfellow/people/internal/model"
)

// Op is a comparison operator usable in a Filter.
type Op string

const (
	OpEq Op = "="
	OpNe Op = "!="
	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="
)

func (o Op) valid() bool {
	switch o {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// Filter is a single comparison of a column against a value.
// Filters passed together to List are combined with AND.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

func (f Filter) String() string {
	return fmt.Sprintf("%s %s %v", f.Field, f.Op, f.Value)
}

// whereClause renders filters as a WHERE clause with "?" bindvars.
// Field names are checked against the schema, values are always bound.
func whereClause(schema *model.Schema, filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	conds := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))

	for _, f := range filters {
		if _, ok := schema.Column(f.Field); !ok {
			return "", nil, fmt.Errorf("%w: unknown field %q on %s", ErrInvalidFilter, f.Field, schema.Table)
		}
		if !f.Op.valid() {
			return "", nil, fmt.Errorf("%w: unsupported operator %q", ErrInvalidFilter, f.Op)
		}
		if f.Value == nil {
			return "", nil, fmt.Errorf("%w: nil value for %q", ErrInvalidFilter, f.Field)
		}
		conds = append(conds, fmt.Sprintf("%s %s ?", f.Field, f.Op))
		args = append(args, f.Value)
	}

	return " WHERE " + strings.Join(conds, " AND "), args, nil
}
