// pkg/connector/postgres.go
package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/config"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/converter"
)

// PostgresConnector implements the DatabaseConnector interface for PostgreSQL
type PostgresConnector struct {
	baseConnector
	cfg *config.StoreConfig
}

// NewPostgresConnector creates and initializes a new PostgreSQL connector
func NewPostgresConnector(ctx context.Context, cfg *config.StoreConfig, logger *zap.Logger) (*PostgresConnector, error) {
	if cfg == nil || cfg.Postgres == nil {
		return nil, errors.New("postgreSQL configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	logger = logger.Named("postgres-connector")
	pg := cfg.Postgres

	// Log connection attempt
	logger.Info("Connecting to PostgreSQL",
		zap.String("host", pg.Host),
		zap.Int("port", pg.Port),
		zap.String("database", pg.Database),
		zap.String("user", pg.User))

	db, err := sqlx.Open("postgres", pg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	// Configure connection pool
	ApplyConnectionSettings(
		db,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	// Verify connection
	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	connector := &PostgresConnector{
		baseConnector: baseConnector{db: db, logger: logger, name: pg.Database},
		cfg:           cfg,
	}

	LogConnectionStats(logger, pg.Database, db)
	return connector, nil
}

// Dialect returns converter.DialectPostgres
func (c *PostgresConnector) Dialect() converter.Dialect {
	return converter.DialectPostgres
}

// Validate verifies the PostgreSQL connection and the right to create tables
func (c *PostgresConnector) Validate(ctx context.Context) error {
	var version string
	if err := c.db.GetContext(ctx, &version, "SELECT version()"); err != nil {
		return fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}
	c.logger.Info("Connected to PostgreSQL", zap.String("version", version))

	var canCreate bool
	err := c.db.GetContext(ctx, &canCreate,
		"SELECT has_schema_privilege(current_user, current_schema(), 'CREATE')")
	if err != nil {
		return fmt.Errorf("permission validation failed: %w", err)
	}
	if !canCreate {
		return errors.New("current user cannot create tables in the current schema")
	}

	c.logger.Info("PostgreSQL connection validated",
		zap.String("database", c.cfg.Postgres.Database),
		zap.String("host", c.cfg.Postgres.Host),
		zap.Int("port", c.cfg.Postgres.Port))

	return nil
}
