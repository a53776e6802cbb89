// Command devi serves the user API.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/devi/internal/config"
	"github.com/deppfellow/devi/internal/database"
	"github.com/deppfellow/devi/internal/handler"
	"github.com/deppfellow/devi/internal/logger"
	"github.com/deppfellow/devi/internal/repository"
	"github.com/deppfellow/devi/internal/router"
	"github.com/deppfellow/devi/internal/server"
	"github.com/deppfellow/devi/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.NewLogger(cfg.Observability)

	if err := run(cfg, &log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log *zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, log, cfg); err != nil {
		return err
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		return err
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Join(err, srv.Shutdown(context.Background()))
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
