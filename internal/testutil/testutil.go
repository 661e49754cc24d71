// Package testutil builds ready-to-use application containers for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/deppfellow/people/internal/config"
	"github.com/deppfellow/people/internal/logger"
	"github.com/deppfellow/people/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// NewServer returns a Server over a fresh in-memory SQLite database with
// default config and a silent logger. The database is closed on cleanup.
func NewServer(t *testing.T, opts ...func(*config.Config)) *server.Server {
	t.Helper()

	cfg := config.Default()
	for _, opt := range opts {
		opt(cfg)
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	require.NoError(t, err)

	log := zerolog.Nop()

	srv, err := server.New(cfg, &log, loggerService)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})

	return srv
}
