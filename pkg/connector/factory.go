// pkg/connector/factory.go
package connector

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/config"
)

// ConnectorFactory opens the store connector selected by the configuration
// and hands out the same connector until it is closed
type ConnectorFactory struct {
	cfg    *config.StoreConfig
	logger *zap.Logger
	conn   DatabaseConnector
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.StoreConfig, logger *zap.Logger) (*ConnectorFactory, error) {
	if cfg == nil {
		return nil, errors.New("store configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &ConnectorFactory{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Open returns the open connector, connecting and validating on first use
func (f *ConnectorFactory) Open(ctx context.Context) (DatabaseConnector, error) {
	if f.conn != nil {
		return f.conn, nil
	}

	var (
		conn DatabaseConnector
		err  error
	)
	switch f.cfg.Driver {
	case config.DriverSQLite:
		f.logger.Info("Creating SQLite connector")
		conn, err = NewSQLiteConnector(ctx, f.cfg, f.logger)
	case config.DriverPostgres:
		f.logger.Info("Creating PostgreSQL connector")
		conn, err = NewPostgresConnector(ctx, f.cfg, f.logger)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", f.cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s connector: %w", f.cfg.Driver, err)
	}

	if err := conn.Validate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to validate %s connector: %w", f.cfg.Driver, err)
	}

	f.conn = conn
	return conn, nil
}

// Close closes the open connector, if any. Calling it more than once is a no-op.
func (f *ConnectorFactory) Close() error {
	if f.conn == nil {
		return nil
	}
	err := f.conn.Close()
	f.conn = nil
	return err
}
