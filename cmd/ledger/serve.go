package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lborres/ledger"
	fiberadapter "github.com/lborres/ledger/adapters/fiber"
	"github.com/lborres/ledger/internal/config"
	"github.com/lborres/ledger/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP auth server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Logger()

	store, closeStore, err := openStore(ctx, cfg.DSN, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	app, err := newApp(cfg, store, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("listening")
		errCh <- app.Listen(cfg.Addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// newApp wires the auth endpoints, the metrics endpoint and a sample
// protected route onto a fresh Fiber app.
func newApp(cfg *config.Config, store userStore, logger zerolog.Logger) (*fiber.App, error) {
	registry := metrics.NewRegistry()
	observer := metrics.NewPrometheus(registry)

	app := fiber.New()
	app.Use(fiberadapter.RequestLogger(logger))

	l, err := ledger.New(ledger.Config{
		Secret: cfg.Secret,
		Store:  store,
		HTTP:   fiberadapter.New(app, logger),
		SessionConfig: &ledger.SessionConfig{
			MaxAge:       cfg.SessionMaxAge,
			CookieName:   cfg.CookieName,
			CookieSecure: cfg.CookieSecure,
		},
		BasePath: cfg.BasePath,
		Logger:   &logger,
		Observer: observer,
	})
	if err != nil {
		return nil, err
	}

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(registry)))
	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	api := app.Group("/api")
	api.Use(fiberadapter.Resolve(l.Auth, l.Session.CookieName))
	api.Get("/me", fiberadapter.RequireAuth(), func(c fiber.Ctx) error {
		id, err := ledger.RequireIdentity(c.Context())
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"userId": id.UserID})
	})

	return app, nil
}
