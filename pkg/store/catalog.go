// pkg/store/catalog.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// ResolveOrCreate returns the id of the catalog row keyed by name, inserting
// it when missing. The boolean reports whether a row was inserted. The
// unique constraint on the key column guards against concurrent inserts:
// a losing insert is ignored and the winner's row is read back.
func (s *Store) ResolveOrCreate(ctx context.Context, q Querier, kind model.CatalogKind, name string) (int64, bool, error) {
	if kind == model.KindNeighborhood {
		return s.ResolveNeighborhood(ctx, q, name, nil)
	}

	t, err := kind.Table()
	if err != nil {
		return 0, false, err
	}
	if strings.TrimSpace(name) == "" {
		return 0, false, &model.ValidationError{Field: string(kind), Value: name, Reason: "name cannot be empty"}
	}

	id, found, err := s.lookupID(ctx, q, t, name)
	if err != nil || found {
		return id, false, err
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?) ON CONFLICT (%s) DO NOTHING",
		t.Table, t.KeyColumn, t.KeyColumn)
	created, err := s.insertIgnoringConflict(ctx, q, t, insert, name)
	if err != nil {
		return 0, false, err
	}

	id, found, err = s.lookupID(ctx, q, t, name)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, wrapErr("resolve "+t.Table, fmt.Errorf("row %q vanished after insert", name))
	}

	if created {
		s.logger.Debug("Created catalog entry",
			zap.String("kind", string(kind)),
			zap.String("name", name),
			zap.Int64("id", id))
	}
	return id, created, nil
}

// ResolveNeighborhood is ResolveOrCreate for barrios. A new neighborhood is
// linked to districtID; an existing one keeps its current district.
func (s *Store) ResolveNeighborhood(ctx context.Context, q Querier, name string, districtID *int64) (int64, bool, error) {
	t, _ := model.KindNeighborhood.Table()
	if strings.TrimSpace(name) == "" {
		return 0, false, &model.ValidationError{Field: string(model.KindNeighborhood), Value: name, Reason: "name cannot be empty"}
	}

	existing, err := s.lookupNeighborhood(ctx, q, name)
	if err != nil {
		return 0, false, err
	}
	if existing != nil {
		if districtID != nil && (existing.DistrictID == nil || *existing.DistrictID != *districtID) {
			s.logger.Warn("Neighborhood already linked to a different district, keeping existing link",
				zap.String("neighborhood", name),
				zap.Int64("requested_district_id", *districtID))
		}
		return existing.ID, false, nil
	}

	insert := "INSERT INTO barrios (nombre, comuna_id) VALUES (?, ?) ON CONFLICT (nombre) DO NOTHING"
	created, err := s.insertIgnoringConflict(ctx, q, t, insert, name, districtID)
	if err != nil {
		return 0, false, err
	}

	existing, err = s.lookupNeighborhood(ctx, q, name)
	if err != nil {
		return 0, false, err
	}
	if existing == nil {
		return 0, false, wrapErr("resolve barrios", fmt.Errorf("row %q vanished after insert", name))
	}
	return existing.ID, created, nil
}

func (s *Store) lookupID(ctx context.Context, q Querier, t model.CatalogTable, name string) (int64, bool, error) {
	var id int64
	query := fmt.Sprintf("SELECT id FROM %s WHERE %s = ?", t.Table, t.KeyColumn)
	err := sqlx.GetContext(ctx, q, &id, q.Rebind(query), name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, wrapErr("lookup "+t.Table, fmt.Errorf("failed to query %s: %w", t.Table, err))
	}
	return id, true, nil
}

func (s *Store) lookupNeighborhood(ctx context.Context, q Querier, name string) (*model.Neighborhood, error) {
	var n model.Neighborhood
	err := sqlx.GetContext(ctx, q, &n, q.Rebind(
		"SELECT b.id, b.nombre, b.comuna_id, c.numero AS comuna FROM barrios b LEFT JOIN comunas c ON c.id = b.comuna_id WHERE b.nombre = ?"),
		name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("lookup barrios", fmt.Errorf("failed to query barrios: %w", err))
	}
	return &n, nil
}

func (s *Store) insertIgnoringConflict(ctx context.Context, q Querier, t model.CatalogTable, query string, args ...interface{}) (bool, error) {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return false, wrapErr("insert "+t.Table, fmt.Errorf("failed to insert into %s: %w", t.Table, err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// Not every driver reports affected rows; the re-read decides
		return false, nil
	}
	return affected > 0, nil
}

// ListCatalog returns every entry of a catalog in insertion order
func (s *Store) ListCatalog(ctx context.Context, kind model.CatalogKind) ([]model.CatalogEntry, error) {
	t, err := kind.Table()
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	entries := []model.CatalogEntry{}
	query := fmt.Sprintf("SELECT id, %s AS nombre FROM %s ORDER BY id", t.KeyColumn, t.Table)
	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, wrapErr("list "+t.Table, fmt.Errorf("failed to list %s: %w", t.Table, err))
	}
	return entries, nil
}

// CountCatalog returns the number of rows of a catalog
func (s *Store) CountCatalog(ctx context.Context, kind model.CatalogKind) (int, error) {
	t, err := kind.Table()
	if err != nil {
		return 0, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var n int
	if err := s.db.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", t.Table)); err != nil {
		return 0, wrapErr("count "+t.Table, fmt.Errorf("failed to count %s: %w", t.Table, err))
	}
	return n, nil
}
