// Package cli wires configuration, logging, storage and events into a ready
// finance engine for the command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moneybook/internal/account"
	"moneybook/internal/backend"
	"moneybook/internal/config"
	"moneybook/internal/core"
	"moneybook/internal/csvio"
	"moneybook/internal/events"
	"moneybook/internal/finance"
	"moneybook/internal/log"
)

// SetupLogger builds the application logger at level and makes it the
// default slog logger.
func SetupLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Component = log.ComponentCLI
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads a .env file for local use. A missing file is not an error.
func LoadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// LoadAndValidateConfig reads the environment and reports every invalid setting.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// App holds everything a command needs.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Registry *core.Registry
	Store    *account.Store
	Engine   *finance.Engine
	CSV      *csvio.Service

	closers []func() error
}

// NewApp opens the configured backend and, when AMQP_URL is set, the event
// publisher. A broker that cannot be reached disables events instead of
// failing the command.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger, Registry: core.NewRegistry()}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", backendCfg.Type, err)
	}
	if res.Cleanup != nil {
		app.closers = append(app.closers, res.Cleanup)
	}

	store, err := account.NewStore(ctx, res.Backend, app.Registry, logger)
	if err != nil {
		logger.WarnContext(ctx, "Starting without stored users", log.FieldError, err.Error())
	}
	app.Store = store

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPPublishTimeout, logger)
		if err != nil {
			logger.LogError(ctx, "Event publishing disabled", err, log.OpStartup, nil)
		} else {
			publisher = client
			app.closers = append(app.closers, client.Close)
		}
	}

	app.Engine = finance.NewEngine(store, app.Registry, publisher, logger)
	app.CSV = csvio.NewService(cfg.CSVDir, logger)
	logger.DebugContext(ctx, "Application ready", log.FieldBackend, backendCfg.Type.String())
	return app, nil
}

// Close ends any open session and releases the backend and broker.
func (a *App) Close(ctx context.Context) error {
	errs := []error{a.Engine.Logout(ctx)}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
