// pkg/store/works.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// workColumns are the writable columns of obras, matching WorkRecord db tags
var workColumns = []string{
	"codigo", "nombre", "descripcion", "entorno",
	"tipo_obra_id", "area_responsable_id", "barrio_id", "etapa_id",
	"empresa_id", "tipo_contratacion_id", "fuente_financiamiento_id",
	"monto_contrato", "direccion", "lat", "lng",
	"fecha_inicio", "fecha_fin_inicial", "plazo_meses",
	"porcentaje_avance", "mano_obra",
	"licitacion_oferta_empresa", "licitacion_anio",
	"nro_contratacion", "nro_expediente", "cuit_contratista",
	"destacada", "ba_elige", "beneficiarios", "compromiso",
	"imagen_1", "imagen_2", "imagen_3", "imagen_4",
	"link_interno", "pliego_descarga", "estudio_ambiental_descarga",
}

var (
	insertWorkSQL = fmt.Sprintf("INSERT INTO obras (%s) VALUES (:%s) RETURNING id",
		strings.Join(workColumns, ", "),
		strings.Join(workColumns, ", :"))

	updateWorkSQL = func() string {
		sets := make([]string, len(workColumns))
		for i, c := range workColumns {
			sets[i] = c + " = :" + c
		}
		return fmt.Sprintf("UPDATE obras SET %s WHERE id = :id", strings.Join(sets, ", "))
	}()

	selectWorkSQL = func() string {
		cols := make([]string, len(workColumns))
		for i, c := range workColumns {
			cols[i] = "o." + c
		}
		return fmt.Sprintf("SELECT o.id, %s, e.nombre AS etapa FROM obras o LEFT JOIN etapas e ON e.id = o.etapa_id",
			strings.Join(cols, ", "))
	}()
)

// InsertWork inserts w as a new row and sets w.ID
func (s *Store) InsertWork(ctx context.Context, q Querier, w *model.WorkRecord) (int64, error) {
	query, args, err := sqlx.Named(insertWorkSQL, w)
	if err != nil {
		return 0, fmt.Errorf("failed to bind work record: %w", err)
	}

	var id int64
	if err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&id); err != nil {
		return 0, wrapErr("insert obras", fmt.Errorf("failed to insert work record: %w", err))
	}
	w.ID = id
	return id, nil
}

// UpdateWork writes every column of w to its row
func (s *Store) UpdateWork(ctx context.Context, q Querier, w *model.WorkRecord) error {
	query, args, err := sqlx.Named(updateWorkSQL, w)
	if err != nil {
		return fmt.Errorf("failed to bind work record: %w", err)
	}

	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return wrapErr("update obras", fmt.Errorf("failed to update work record %d: %w", w.ID, err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("work record %d: %w", w.ID, model.ErrNotFound)
	}
	return nil
}

// GetWork loads a work record with its stage name
func (s *Store) GetWork(ctx context.Context, q Querier, id int64) (*model.WorkRecord, error) {
	var w model.WorkRecord
	err := sqlx.GetContext(ctx, q, &w, q.Rebind(selectWorkSQL+" WHERE o.id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("work record %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("get obras", fmt.Errorf("failed to load work record %d: %w", id, err))
	}
	return &w, nil
}

// ListWorks returns up to limit records ordered by id, optionally filtered by stage name
func (s *Store) ListWorks(ctx context.Context, stage string, limit int) ([]model.WorkRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := selectWorkSQL
	var args []interface{}
	if stage != "" {
		query += " WHERE LOWER(e.nombre) = LOWER(?)"
		args = append(args, stage)
	}
	query += " ORDER BY o.id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	works := []model.WorkRecord{}
	if err := s.db.SelectContext(ctx, &works, s.db.Rebind(query), args...); err != nil {
		return nil, wrapErr("list obras", fmt.Errorf("failed to list work records: %w", err))
	}
	return works, nil
}

// CountWorks returns the number of work records
func (s *Store) CountWorks(ctx context.Context, q Querier) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, "SELECT COUNT(*) FROM obras"); err != nil {
		return 0, wrapErr("count obras", fmt.Errorf("failed to count work records: %w", err))
	}
	return n, nil
}

// CountUnlinked returns the number of work records without a reference to kind
func (s *Store) CountUnlinked(ctx context.Context, kind model.CatalogKind) (int, error) {
	t, err := kind.Table()
	if err != nil {
		return 0, err
	}
	if t.RefColumn == "" {
		return 0, fmt.Errorf("catalog %s is not referenced by obras", kind)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM obras WHERE %s IS NULL", t.RefColumn)
	if err := s.db.GetContext(ctx, &n, query); err != nil {
		return 0, wrapErr("count unlinked", fmt.Errorf("failed to count works without %s: %w", kind, err))
	}
	return n, nil
}
