// pkg/store/report.go
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// StageCount is the number of works in one stage
type StageCount struct {
	Stage string `db:"nombre"`
	Count int    `db:"cantidad"`
}

// TypeInvestment is the number of works and summed amount of one work type
type TypeInvestment struct {
	WorkType string  `db:"nombre"`
	Count    int     `db:"cantidad"`
	Total    float64 `db:"total"`
}

// CountByStage counts works per stage, largest first. Stages without works
// are listed with a zero count.
func (s *Store) CountByStage(ctx context.Context) ([]StageCount, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows := []StageCount{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT e.nombre AS nombre, COUNT(o.id) AS cantidad
		FROM etapas e
		LEFT JOIN obras o ON o.etapa_id = e.id
		GROUP BY e.id, e.nombre
		ORDER BY cantidad DESC, e.nombre`)
	if err != nil {
		return nil, wrapErr("count by stage", fmt.Errorf("failed to count works by stage: %w", err))
	}
	return rows, nil
}

// InvestmentByType counts works and sums their amounts per work type, largest
// amount first. Absent amounts count as 0 in the sum.
func (s *Store) InvestmentByType(ctx context.Context) ([]TypeInvestment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows := []TypeInvestment{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.nombre AS nombre, COUNT(o.id) AS cantidad, COALESCE(SUM(o.monto_contrato), 0) AS total
		FROM tipos_obra t
		LEFT JOIN obras o ON o.tipo_obra_id = t.id
		GROUP BY t.id, t.nombre
		ORDER BY total DESC, t.nombre`)
	if err != nil {
		return nil, wrapErr("investment by type", fmt.Errorf("failed to sum investment by type: %w", err))
	}
	return rows, nil
}

// NeighborhoodsInDistricts lists the neighborhoods of the given district
// numbers ordered by district then name
func (s *Store) NeighborhoodsInDistricts(ctx context.Context, districts []string) ([]model.Neighborhood, error) {
	rows := []model.Neighborhood{}
	if len(districts) == 0 {
		return rows, nil
	}

	query, args, err := sqlx.In(`
		SELECT b.id, b.nombre, b.comuna_id, c.numero AS comuna
		FROM barrios b
		JOIN comunas c ON c.id = b.comuna_id
		WHERE c.numero IN (?)
		ORDER BY c.numero, b.nombre`, districts)
	if err != nil {
		return nil, fmt.Errorf("failed to expand district filter: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, wrapErr("neighborhoods in districts", fmt.Errorf("failed to list neighborhoods: %w", err))
	}
	return rows, nil
}

// CountFinishedWithin counts works in the Finalizada stage whose term is at
// most months. The bool is false when the stage does not exist yet.
func (s *Store) CountFinishedWithin(ctx context.Context, months int) (int, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	t, _ := model.KindStage.Table()
	id, found, err := s.lookupID(ctx, s.db, t, model.StageFinished)
	if err != nil || !found {
		return 0, found, err
	}

	var n int
	err = s.db.GetContext(ctx, &n, s.db.Rebind(
		"SELECT COUNT(*) FROM obras WHERE etapa_id = ? AND plazo_meses <= ?"), id, months)
	if err != nil {
		return 0, true, wrapErr("count finished", fmt.Errorf("failed to count finished works: %w", err))
	}
	return n, true, nil
}

// TotalAmount sums the contract amount of every work; 0 when there are none
func (s *Store) TotalAmount(ctx context.Context) (float64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var total float64
	if err := s.db.GetContext(ctx, &total, "SELECT COALESCE(SUM(monto_contrato), 0) FROM obras"); err != nil {
		return 0, wrapErr("total amount", fmt.Errorf("failed to sum contract amounts: %w", err))
	}
	return total, nil
}
