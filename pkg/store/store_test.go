package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/config"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/connector"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	conn, err := connector.NewSQLiteConnector(ctx, &config.StoreConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "obras.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	s, err := NewStore(conn, logger)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int64) *int64       { return &i }

func mustResolve(t *testing.T, s *Store, kind model.CatalogKind, name string) int64 {
	t.Helper()
	id, _, err := s.ResolveOrCreate(context.Background(), s.DB(), kind, name)
	require.NoError(t, err)
	return id
}

func TestNewStoreRejectsNil(t *testing.T) {
	_, err := NewStore(nil, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureSchema(ctx))

	n, err := s.CountWorks(ctx, s.DB())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResolveOrCreateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, created, err := s.ResolveOrCreate(ctx, s.DB(), model.KindWorkType, "Hidraulica")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := s.ResolveOrCreate(ctx, s.DB(), model.KindWorkType, "Hidraulica")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, second)

	n, err := s.CountCatalog(ctx, model.KindWorkType)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResolveOrCreateRejectsEmptyName(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.ResolveOrCreate(context.Background(), s.DB(), model.KindCompany, "  ")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestResolveNeighborhoodKeepsExistingDistrict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	one := mustResolve(t, s, model.KindDistrict, "1")
	two := mustResolve(t, s, model.KindDistrict, "2")

	id, created, err := s.ResolveNeighborhood(ctx, s.DB(), "Retiro", &one)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := s.ResolveNeighborhood(ctx, s.DB(), "Retiro", &two)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	hoods, err := s.NeighborhoodsInDistricts(ctx, []string{"1", "2"})
	require.NoError(t, err)
	require.Len(t, hoods, 1)
	require.NotNil(t, hoods[0].DistrictID)
	assert.Equal(t, one, *hoods[0].DistrictID)
	assert.Equal(t, "1", *hoods[0].District)
}

func TestSearchCatalog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"Hidraulica", "Arquitectura", "Espacio Publico", "Vivienda"} {
		mustResolve(t, s, model.KindWorkType, name)
	}

	tests := []struct {
		name       string
		term       string
		match      model.MatchKind
		entry      string
		candidates int
	}{
		{name: "exact ignores case", term: "HIDRAULICA", match: model.MatchExact, entry: "Hidraulica"},
		{name: "unique partial", term: "quitec", match: model.MatchUniquePartial, entry: "Arquitectura"},
		{name: "ambiguous", term: "ic", match: model.MatchAmbiguous, candidates: 2},
		{name: "no match suggests", term: "puente", match: model.MatchNone, candidates: 4},
		{name: "wildcards are literal", term: "%", match: model.MatchNone, candidates: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.SearchCatalog(ctx, model.KindWorkType, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.match, result.Match)
			if tt.entry != "" {
				require.NotNil(t, result.Entry)
				assert.Equal(t, tt.entry, result.Entry.Name)
				assert.True(t, result.Resolved())
			} else {
				assert.Nil(t, result.Entry)
				assert.Len(t, result.Candidates, tt.candidates)
			}
		})
	}

	_, err := s.SearchCatalog(ctx, model.KindWorkType, " ")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestWorkRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stage := mustResolve(t, s, model.KindStage, model.StageProject)
	start := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	w := &model.WorkRecord{
		Name:       strPtr("Plaza Houssay"),
		StageID:    &stage,
		Amount:     floatPtr(1500000.5),
		StartDate:  &start,
		TermMonths: intPtr(12),
	}

	id, err := s.InsertWork(ctx, s.DB(), w)
	require.NoError(t, err)
	assert.Equal(t, id, w.ID)

	got, err := s.GetWork(ctx, s.DB(), id)
	require.NoError(t, err)
	assert.Equal(t, "Plaza Houssay", got.DisplayName())
	assert.Equal(t, model.StageProject, got.StageName())
	assert.InDelta(t, 1500000.5, *got.Amount, 0.001)
	require.NotNil(t, got.StartDate)
	assert.True(t, start.Equal(*got.StartDate))
	assert.Zero(t, got.Progress)

	got.Progress = 40
	require.NoError(t, s.UpdateWork(ctx, s.DB(), got))

	again, err := s.GetWork(ctx, s.DB(), id)
	require.NoError(t, err)
	assert.Equal(t, 40.0, again.Progress)

	_, err = s.GetWork(ctx, s.DB(), id+100)
	assert.ErrorIs(t, err, model.ErrNotFound)

	list, err := s.ListWorks(ctx, "proyecto", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDanglingReferenceIsIntegrityError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := &model.WorkRecord{Name: strPtr("Plaza")}
	_, err := s.InsertWork(ctx, s.DB(), w)
	require.NoError(t, err)

	w.WorkTypeID = intPtr(999)
	err = s.UpdateWork(ctx, s.DB(), w)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrIntegrity)
	assert.True(t, IsConstraintViolation(err))
}

func TestWithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, "test", func(tx *sqlx.Tx) error {
		if _, _, err := s.ResolveOrCreate(ctx, tx, model.KindArea, "Ministerio de Cultura"); err != nil {
			return err
		}
		if _, err := s.InsertWork(ctx, tx, &model.WorkRecord{Name: strPtr("Teatro")}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := s.CountWorks(ctx, s.DB())
	require.NoError(t, err)
	assert.Zero(t, n)

	areas, err := s.CountCatalog(ctx, model.KindArea)
	require.NoError(t, err)
	assert.Zero(t, areas)
}

func TestReportsOnEmptyStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	total, err := s.TotalAmount(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	n, found, err := s.CountFinishedWithin(ctx, 24)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, n)

	stages, err := s.CountByStage(ctx)
	require.NoError(t, err)
	assert.Empty(t, stages)
}

func TestReports(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	finished := mustResolve(t, s, model.KindStage, model.StageFinished)
	execution := mustResolve(t, s, model.KindStage, model.StageExecution)
	mustResolve(t, s, model.KindStage, model.StageRescinded)
	hydraulic := mustResolve(t, s, model.KindWorkType, "Hidraulica")
	housing := mustResolve(t, s, model.KindWorkType, "Vivienda")
	mustResolve(t, s, model.KindWorkType, "Transporte")

	works := []*model.WorkRecord{
		{StageID: &finished, WorkTypeID: &hydraulic, Amount: floatPtr(100), TermMonths: intPtr(12)},
		{StageID: &finished, WorkTypeID: &hydraulic, Amount: floatPtr(50), TermMonths: intPtr(36)},
		{StageID: &finished, WorkTypeID: &housing, TermMonths: intPtr(24)},
		{StageID: &execution, WorkTypeID: &housing, Amount: floatPtr(400)},
	}
	for _, w := range works {
		_, err := s.InsertWork(ctx, s.DB(), w)
		require.NoError(t, err)
	}

	stages, err := s.CountByStage(ctx)
	require.NoError(t, err)
	require.Len(t, stages, 3)
	assert.Equal(t, StageCount{Stage: model.StageFinished, Count: 3}, stages[0])
	assert.Equal(t, StageCount{Stage: model.StageExecution, Count: 1}, stages[1])
	assert.Equal(t, StageCount{Stage: model.StageRescinded, Count: 0}, stages[2])

	invest, err := s.InvestmentByType(ctx)
	require.NoError(t, err)
	require.Len(t, invest, 3)
	assert.Equal(t, "Vivienda", invest[0].WorkType)
	assert.Equal(t, 2, invest[0].Count)
	assert.InDelta(t, 400, invest[0].Total, 0.001)
	assert.Equal(t, "Hidraulica", invest[1].WorkType)
	assert.InDelta(t, 150, invest[1].Total, 0.001)
	assert.Equal(t, "Transporte", invest[2].WorkType)
	assert.Zero(t, invest[2].Count)

	n, found, err := s.CountFinishedWithin(ctx, 24)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, n)

	total, err := s.TotalAmount(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 550, total, 0.001)
}

func TestImportAudit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	started := time.Now().UTC()

	run := &model.ImportRun{ID: "run-1", Source: "obras.csv", Status: model.ImportRunning, StartedAt: started}
	require.NoError(t, s.CreateImport(ctx, run))

	ops := []model.CleaningOperation{
		{ImportID: "run-1", ColumnName: "monto_contrato", OriginalValue: strPtr("abc"),
			RowIdentifier: "plaza|retiro", CleaningOperation: model.OperationNumericCoercion,
			CleaningReason: "unparseable_number", CleanedAt: started},
		{ImportID: "run-1", ColumnName: "codigo", RowIdentifier: "plaza|retiro",
			CleaningOperation: model.OperationDuplicateKey, CleaningReason: "duplicate", CleanedAt: started},
	}
	require.NoError(t, s.RecordCleaningOperations(ctx, ops))
	require.NoError(t, s.RecordCleaningOperations(ctx, nil))

	n, err := s.CountCleaningOperations(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	finished := started.Add(time.Second)
	run.RowsRead, run.RowsClean, run.RowsDropped, run.RowsLoaded = 3, 2, 1, 2
	run.Status = model.ImportCompleted
	run.FinishedAt = &finished
	require.NoError(t, s.FinishImport(ctx, run))

	got, err := s.GetImport(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, model.ImportCompleted, got.Status)
	assert.Equal(t, 2, got.RowsLoaded)
	assert.Equal(t, 1, got.RowsDropped)
	assert.Nil(t, got.Error)
	require.NotNil(t, got.FinishedAt)
	assert.WithinDuration(t, finished, *got.FinishedAt, time.Millisecond)

	_, err = s.GetImport(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, s.FinishImport(ctx, &model.ImportRun{ID: "missing"}), model.ErrNotFound)
}
