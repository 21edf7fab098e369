package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatgate/chatgate-server/internal/config"
	"github.com/chatgate/chatgate-server/internal/rocket"
	transporthttp "github.com/chatgate/chatgate-server/internal/transport/http"
)

// App wires together the upstream client and the transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &stdhttp.Client{Timeout: cfg.RequestTimeout}
	client, err := rocket.NewClient(httpClient, rocket.Credentials{
		URL:      cfg.Upstream.URL,
		User:     cfg.Upstream.User,
		Password: cfg.Upstream.Password,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init upstream client: %w", err)
	}

	logger.Info().Str("upstream", cfg.Upstream.URL).Msg("upstream client initialized")

	return &App{
		server:          transporthttp.NewServer(client, cfg, logger),
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
