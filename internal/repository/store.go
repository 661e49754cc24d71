package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/deppfellow/people/internal/metrics"
	"github.com/deppfellow/people/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when no row has the requested primary key.
	// It wraps sql.ErrNoRows so the global error handler maps it to 404.
	ErrNotFound = fmt.Errorf("record not found: %w", sql.ErrNoRows)

	// ErrInvalidFilter is returned for filters on unknown fields or operators.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Store is a generic save/list/find facade for one record type.
//
// M is the record struct and PT its pointer type, which must implement
// model.Model. The schema descriptor returned by PT drives DDL and the
// column lists; sqlx maps columns onto fields through `db` tags.
type Store[M any, PT interface {
	*M
	model.Model
}] struct {
	db      *sqlx.DB
	schema  *model.Schema
	dialect dialect
	log     *zerolog.Logger

	slowQueryThreshold time.Duration

	selectSQL string
	insertSQL string
	updateSQL string
}

// StoreOption customizes a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	slowQueryThreshold time.Duration
}

// WithSlowQueryThreshold logs operations slower than d at warn level.
func WithSlowQueryThreshold(d time.Duration) StoreOption {
	return func(o *storeOptions) {
		o.slowQueryThreshold = d
	}
}

// NewStore builds a Store for the record type PT over db.
// It fails when the schema does not match the record's `db` fields.
func NewStore[M any, PT interface {
	*M
	model.Model
}](db *sqlx.DB, logger *zerolog.Logger, opts ...StoreOption) (*Store[M, PT], error) {
	if db == nil {
		return nil, fmt.Errorf("store requires a database")
	}

	options := storeOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	schema := PT(new(M)).Schema()
	if err := validateSchema(schema, db.Mapper, reflect.TypeOf((*M)(nil)).Elem()); err != nil {
		return nil, err
	}

	d, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	s := &Store[M, PT]{
		db:                 db,
		schema:             schema,
		dialect:            d,
		log:                logger,
		slowQueryThreshold: options.slowQueryThreshold,
	}
	s.prepareStatements()

	return s, nil
}

func (s *Store[M, PT]) prepareStatements() {
	pk := s.schema.PrimaryKey().Name
	data := s.schema.DataColumns()

	names := make([]string, len(data))
	binds := make([]string, len(data))
	sets := make([]string, len(data))
	for i, col := range data {
		names[i] = col.Name
		binds[i] = ":" + col.Name
		sets[i] = col.Name + " = :" + col.Name
	}

	s.selectSQL = fmt.Sprintf("SELECT %s FROM %s", strings.Join(s.schema.ColumnNames(), ", "), s.schema.Table)
	s.insertSQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		s.schema.Table, strings.Join(names, ", "), strings.Join(binds, ", "), pk)
	s.updateSQL = fmt.Sprintf("UPDATE %s SET %s WHERE %s = :%s",
		s.schema.Table, strings.Join(sets, ", "), pk, pk)
}

// Setup creates the backing table if it does not exist yet.
func (s *Store[M, PT]) Setup(ctx context.Context) (err error) {
	defer s.observe(ctx, "setup", time.Now(), &err)

	if _, err = s.db.ExecContext(ctx, createTableStatement(s.dialect, s.schema)); err != nil {
		return fmt.Errorf("setup %s: %w", s.schema.Table, err)
	}
	return nil
}

// List returns every record matching all filters, ordered by primary key.
// The result is never nil.
func (s *Store[M, PT]) List(ctx context.Context, filters ...Filter) (_ []M, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)

	where, args, err := whereClause(s.schema, filters)
	if err != nil {
		return nil, err
	}

	query := s.db.Rebind(s.selectSQL + where + " ORDER BY " + s.schema.PrimaryKey().Name)

	records := make([]M, 0)
	if err = s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.schema.Table, err)
	}
	if records == nil {
		records = make([]M, 0)
	}

	return records, nil
}

// Save inserts a record without a primary key, assigning the new key to it,
// or updates the row matching the record's key.
func (s *Store[M, PT]) Save(ctx context.Context, record PT) (err error) {
	if record == nil {
		return fmt.Errorf("save %s: nil record", s.schema.Entity)
	}

	if id, ok := record.PrimaryKey(); ok {
		defer s.observe(ctx, "update", time.Now(), &err)
		return s.update(ctx, id, record)
	}

	defer s.observe(ctx, "insert", time.Now(), &err)
	return s.insert(ctx, record)
}

func (s *Store[M, PT]) insert(ctx context.Context, record PT) error {
	rows, err := s.db.NamedQueryContext(ctx, s.insertSQL, record)
	if err != nil {
		return fmt.Errorf("insert %s: %w", s.schema.Entity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("insert %s: %w", s.schema.Entity, err)
		}
		return fmt.Errorf("insert %s: no primary key returned", s.schema.Entity)
	}

	var id int64
	if err := rows.Scan(&id); err != nil {
		return fmt.Errorf("insert %s: scan primary key: %w", s.schema.Entity, err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("insert %s: %w", s.schema.Entity, err)
	}

	record.SetPrimaryKey(id)
	return nil
}

func (s *Store[M, PT]) update(ctx context.Context, id int64, record PT) error {
	res, err := s.db.NamedExecContext(ctx, s.updateSQL, record)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", s.schema.Entity, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s %d: %w", s.schema.Entity, id, err)
	}
	if n == 0 {
		return s.notFound(id)
	}
	return nil
}

// Find returns the record with the given primary key, or ErrNotFound.
func (s *Store[M, PT]) Find(ctx context.Context, id int64) (_ PT, err error) {
	defer s.observe(ctx, "find", time.Now(), &err)

	query := s.db.Rebind(s.selectSQL + " WHERE " + s.schema.PrimaryKey().Name + " = ?")

	record := PT(new(M))
	if err = s.db.GetContext(ctx, record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.notFound(id)
		}
		return nil, fmt.Errorf("find %s %d: %w", s.schema.Entity, id, err)
	}

	return record, nil
}

// notFound embeds "entity:<name>:" so sqlerr can name the missing record.
func (s *Store[M, PT]) notFound(id int64) error {
	return fmt.Errorf("entity:%s: id %d: %w", s.schema.Entity, id, ErrNotFound)
}

func (s *Store[M, PT]) observe(ctx context.Context, op string, start time.Time, errp *error) {
	elapsed := time.Since(start)
	metrics.RecordStoreOperation(s.schema.Table, op, elapsed, *errp)

	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = s.log
	}

	var e *zerolog.Event
	switch {
	case *errp != nil:
		e = logger.Debug().Err(*errp)
	case s.slowQueryThreshold > 0 && elapsed > s.slowQueryThreshold:
		e = logger.Warn().Dur("threshold", s.slowQueryThreshold)
	default:
		e = logger.Debug()
	}

	e.Str("table", s.schema.Table).
		Str("op", op).
		Dur("duration", elapsed).
		Msg("store operation")
}

// validateSchema checks the schema is usable for recordType: a table name,
// exactly one integer primary key, and a `db` field for every column.
func validateSchema(schema *model.Schema, mapper *reflectx.Mapper, recordType reflect.Type) error {
	if schema == nil {
		return fmt.Errorf("schema is nil")
	}
	if strings.TrimSpace(schema.Table) == "" {
		return fmt.Errorf("schema table is required")
	}
	if len(schema.Columns) == 0 {
		return fmt.Errorf("schema %s has no columns", schema.Table)
	}

	pks := 0
	seen := make(map[string]bool, len(schema.Columns))
	fields := mapper.TypeMap(recordType)

	for _, col := range schema.Columns {
		if col.Name == "" {
			return fmt.Errorf("schema %s has a column without a name", schema.Table)
		}
		if seen[col.Name] {
			return fmt.Errorf("schema %s declares column %s twice", schema.Table, col.Name)
		}
		seen[col.Name] = true

		if col.Type != model.ColumnInteger && col.Type != model.ColumnText {
			return fmt.Errorf("schema %s column %s has unsupported type %s", schema.Table, col.Name, col.Type)
		}
		if col.PrimaryKey {
			if col.Type != model.ColumnInteger {
				return fmt.Errorf("schema %s primary key %s must be an integer", schema.Table, col.Name)
			}
			pks++
		}
		if fields.GetByPath(col.Name) == nil {
			return fmt.Errorf("schema %s column %s has no matching db field on %s", schema.Table, col.Name, recordType)
		}
	}

	if pks != 1 {
		return fmt.Errorf("schema %s must declare exactly one primary key, found %d", schema.Table, pks)
	}

	return nil
}
