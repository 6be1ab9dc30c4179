// pkg/connector/sqlite.go
package connector

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/config"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/converter"
)

// SQLiteConnector implements the DatabaseConnector interface for a SQLite file
type SQLiteConnector struct {
	baseConnector
	cfg *config.StoreConfig
}

// sqliteDSN enables foreign keys and a busy timeout on every pooled connection
// and stores timestamps in the SQLite text format
func sqliteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_time_format", "sqlite")
	return path + "?" + q.Encode()
}

// NewSQLiteConnector opens (creating if needed) the SQLite database at cfg.Path
func NewSQLiteConnector(ctx context.Context, cfg *config.StoreConfig, logger *zap.Logger) (*SQLiteConnector, error) {
	if cfg == nil {
		return nil, errors.New("store configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	logger = logger.Named("sqlite-connector")

	logger.Info("Connecting to SQLite", zap.String("path", cfg.Path))

	db, err := sqlx.Open("sqlite", sqliteDSN(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite connection: %w", err)
	}

	// The SQLite file has a single writer
	ApplyConnectionSettings(db, 1, 1, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime)

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	connector := &SQLiteConnector{
		baseConnector: baseConnector{db: db, logger: logger, name: cfg.Path},
		cfg:           cfg,
	}

	LogConnectionStats(logger, cfg.Path, db)
	return connector, nil
}

// Dialect returns converter.DialectSQLite
func (c *SQLiteConnector) Dialect() converter.Dialect {
	return converter.DialectSQLite
}

// Validate checks the engine version and that foreign keys are enforced
func (c *SQLiteConnector) Validate(ctx context.Context) error {
	var version string
	if err := c.db.GetContext(ctx, &version, "SELECT sqlite_version()"); err != nil {
		return fmt.Errorf("failed to query SQLite version: %w", err)
	}

	var foreignKeys int
	if err := c.db.GetContext(ctx, &foreignKeys, "PRAGMA foreign_keys"); err != nil {
		return fmt.Errorf("failed to query foreign key setting: %w", err)
	}
	if foreignKeys != 1 {
		return errors.New("foreign key enforcement is disabled")
	}

	c.logger.Info("SQLite connection validated",
		zap.String("path", c.cfg.Path),
		zap.String("version", version))
	return nil
}
