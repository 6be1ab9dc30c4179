// pkg/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/connector"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/converter"
)

// DefaultTimeout bounds every single-statement store call
const DefaultTimeout = 60 * time.Second

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx so every persistence
// call can run inside or outside an atomic unit
type Querier = sqlx.ExtContext

// Store persists the works catalog and records on an open connector
type Store struct {
	conn      connector.DatabaseConnector
	db        *sqlx.DB
	converter *converter.TypeConverter
	logger    *zap.Logger
	timeout   time.Duration
}

// NewStore creates a Store on an open connector
func NewStore(conn connector.DatabaseConnector, logger *zap.Logger) (*Store, error) {
	if conn == nil {
		return nil, errors.New("database connector cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	conv, err := converter.NewTypeConverter(logger, conn.Dialect())
	if err != nil {
		return nil, fmt.Errorf("failed to create type converter: %w", err)
	}

	return &Store{
		conn:      conn,
		db:        conn.DB(),
		converter: conv,
		logger:    logger.Named("store"),
		timeout:   DefaultTimeout,
	}, nil
}

// DB returns the shared handle, usable as a Querier outside transactions
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Dialect returns the dialect of the underlying database
func (s *Store) Dialect() converter.Dialect {
	return s.conn.Dialect()
}

// SetTimeout overrides the per-statement timeout
func (s *Store) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}
