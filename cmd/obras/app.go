package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/config"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/connector"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/logging"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/store"
)

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	configPath string
	csvPath    string
	dbPath     string
	logLevel   string
}

// app holds the process-wide dependencies of one command invocation
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	factory *connector.ConnectorFactory
	store   *store.Store
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.csvPath != "" {
		cfg.Source.CSVPath = opts.csvPath
	}
	if opts.dbPath != "" {
		cfg.Store.Path = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	factory, err := connector.NewConnectorFactory(&cfg.Store, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	conn, err := factory.Open(ctx)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	st, err := store.NewStore(conn, logger)
	if err != nil {
		factory.Close()
		_ = logger.Sync()
		return nil, err
	}
	st.SetTimeout(cfg.Store.QueryTimeout)

	return &app{cfg: cfg, logger: logger, factory: factory, store: st}, nil
}

// Close releases the store connection and flushes the logger
func (a *app) Close() {
	if err := a.factory.Close(); err != nil {
		a.logger.Error("Failed to close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// withApp runs fn with a connected app and always closes it
func withApp(ctx context.Context, opts *rootOptions, fn func(a *app) error) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
