// Package database contains the logic for establishing
// the connection to the SQL database.
//
// It handles:
//   - opening the in-memory SQLite database (modernc, pure Go)
//   - opening PostgreSQL through pgx's database/sql adapter
//   - wiring query tracing/logging (pgx tracelog) and New Relic (nrpgx5)
//   - pinning in-memory databases to a single long-lived connection
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deppfellow/people/internal/config"
	loggerConfig "github.com/deppfellow/people/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

func init() {
	// sqlx does not know modernc's driver name; it uses "?" bindvars.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Database wraps the shared connection handle and a logger.
type Database struct {
	DB  *sqlx.DB
	log *zerolog.Logger
}

// multiTracer allows chaining multiple pgx query tracers.
//
// pgx supports a single Tracer in ConnConfig, so New Relic and the local
// SQL logger are run through this adapter.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping.
const DatabasePingTimeout = 10

// New opens the configured database, applies pool settings and pings it.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Database.Driver {
	case DriverSQLite:
		db, err = openSQLite(cfg.Database.DSN)
	case DriverPgx:
		db, err = openPgx(cfg, logger, loggerService)
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	configurePool(db.DB, cfg.Database)

	database := &Database{
		DB:  db,
		log: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("driver", cfg.Database.Driver).
		Bool("in_memory", cfg.Database.IsInMemory()).
		Msg("connected to the database")

	return database, nil
}

func openSQLite(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return db, nil
}

func openPgx(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*sqlx.DB, error) {
	connConfig, err := pgx.ParseConfig(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx config: %w", err)
	}

	if loggerService.GetApplication() != nil {
		connConfig.Tracer = nrpgx5.NewTracer()
	}

	// SQL query logging is noisy, so only in local.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		localTracer := &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		}

		if connConfig.Tracer != nil {
			connConfig.Tracer = &multiTracer{
				tracers: []any{connConfig.Tracer, localTracer},
			}
		} else {
			connConfig.Tracer = localTracer
		}
	}

	return sqlx.NewDb(stdlib.OpenDB(*connConfig), DriverPgx), nil
}

// configurePool applies pool tuning. An in-memory SQLite database exists only
// as long as its connection, so it gets exactly one that never expires.
func configurePool(db *sql.DB, cfg config.DatabaseConfig) {
	if cfg.IsInMemory() {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
}

// Ping checks the connection is alive.
func (db *Database) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// Close closes the database handle. For in-memory SQLite this discards all data.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection")
	return db.DB.Close()
}
