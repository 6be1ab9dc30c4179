// pkg/store/audit.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// CreateImport inserts the audit row of a starting import run
func (s *Store) CreateImport(ctx context.Context, run *model.ImportRun) error {
	if run == nil || run.ID == "" {
		return errors.New("import run must have an id")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO importaciones
		(id, fuente, filas_leidas, filas_limpias, filas_descartadas, filas_cargadas, estado, error, iniciada, finalizada)
		VALUES (:id, :fuente, :filas_leidas, :filas_limpias, :filas_descartadas, :filas_cargadas, :estado, :error, :iniciada, :finalizada)`,
		run)
	if err != nil {
		return wrapErr("insert importaciones", fmt.Errorf("failed to record import %s: %w", run.ID, err))
	}
	return nil
}

// FinishImport writes the final counters and state of an import run
func (s *Store) FinishImport(ctx context.Context, run *model.ImportRun) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE importaciones SET
			filas_leidas = :filas_leidas,
			filas_limpias = :filas_limpias,
			filas_descartadas = :filas_descartadas,
			filas_cargadas = :filas_cargadas,
			estado = :estado,
			error = :error,
			finalizada = :finalizada
		WHERE id = :id`,
		run)
	if err != nil {
		return wrapErr("update importaciones", fmt.Errorf("failed to finish import %s: %w", run.ID, err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("import %s: %w", run.ID, model.ErrNotFound)
	}
	return nil
}

// GetImport loads an import run by id
func (s *Store) GetImport(ctx context.Context, id string) (*model.ImportRun, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var run model.ImportRun
	err := s.db.GetContext(ctx, &run, s.db.Rebind("SELECT * FROM importaciones WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get importaciones", fmt.Errorf("failed to load import %s: %w", id, err))
	}
	return &run, nil
}

// RecordCleaningOperations batch inserts cleaning operations into the
// tracking table in a single unit
func (s *Store) RecordCleaningOperations(ctx context.Context, operations []model.CleaningOperation) error {
	if len(operations) == 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.WithTx(ctx, "record cleaning operations", func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
			INSERT INTO limpiezas
			(importacion_id, columna, valor_original, clave_fila, operacion, motivo, registrada)
			VALUES (?, ?, ?, ?, ?, ?, ?)`))
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, op := range operations {
			_, err := stmt.ExecContext(ctx,
				nullString(op.ImportID),
				op.ColumnName,
				op.OriginalValue,
				op.RowIdentifier,
				op.CleaningOperation,
				op.CleaningReason,
				op.CleanedAt,
			)
			if err != nil {
				return wrapErr("insert limpiezas", fmt.Errorf("failed to insert cleaning operation: %w", err))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Recorded cleaning operations", zap.Int("count", len(operations)))
	return nil
}

// CountCleaningOperations returns how many operations an import recorded
func (s *Store) CountCleaningOperations(ctx context.Context, importID string) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind("SELECT COUNT(*) FROM limpiezas WHERE importacion_id = ?"), importID)
	if err != nil {
		return 0, wrapErr("count limpiezas", fmt.Errorf("failed to count cleaning operations: %w", err))
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
