package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/people/internal/config"
	"github.com/deppfellow/people/internal/handler"
	"github.com/deppfellow/people/internal/logger"
	"github.com/deppfellow/people/internal/repository"
	"github.com/deppfellow/people/internal/router"
	"github.com/deppfellow/people/internal/server"
	"github.com/deppfellow/people/internal/service"
)

// DefaultContextTimeout bounds startup table creation and graceful shutdown.
const DefaultContextTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		panic("failed to start logger service: " + err.Error())
	}

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repositories")
	}

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), DefaultContextTimeout)
	err = repos.Setup(log.WithContext(setupCtx))
	cancelSetup()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tables")
	}

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited properly")
}
