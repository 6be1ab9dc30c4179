package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// WithTx runs fn inside one atomic unit. The unit commits when fn returns nil
// and rolls back otherwise; the error of fn is returned unchanged.
func (s *Store) WithTx(ctx context.Context, name string, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr("begin "+name, fmt.Errorf("failed to begin transaction: %w", err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			s.logger.Warn("Rolling back transaction", zap.String("unit", name), zap.Error(err))
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction",
					zap.String("unit", name),
					zap.Error(rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return wrapErr("commit "+name, fmt.Errorf("failed to commit transaction: %w", err))
	}

	s.logger.Debug("Committed transaction", zap.String("unit", name))
	return nil
}
