package database

import (
	"context"
	"testing"

	"github.com/deppfellow/people/internal/config"
	"github.com/deppfellow/people/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggerService(t *testing.T, cfg *config.Config) *logger.LoggerService {
	t.Helper()

	ls, err := logger.NewLoggerService(cfg.Observability)
	require.NoError(t, err)
	return ls
}

func TestNewInMemorySQLite(t *testing.T) {
	cfg := config.Default()
	log := zerolog.Nop()

	db, err := New(cfg, &log, newLoggerService(t, cfg))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DriverSQLite, db.DB.DriverName())
	assert.Equal(t, 1, db.DB.Stats().MaxOpenConnections)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestNewFileSQLiteUsesPoolConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Database.DSN = t.TempDir() + "/people.db"
	cfg.Database.MaxOpenConns = 4
	log := zerolog.Nop()

	db, err := New(cfg, &log, newLoggerService(t, cfg))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 4, db.DB.Stats().MaxOpenConnections)
}

func TestNewUnsupportedDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = "mysql"
	log := zerolog.Nop()

	_, err := New(cfg, &log, newLoggerService(t, cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestNewPgxInvalidDSN(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = DriverPgx
	cfg.Database.DSN = "postgres://%zz"
	log := zerolog.Nop()

	_, err := New(cfg, &log, newLoggerService(t, cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse pgx config")
}
