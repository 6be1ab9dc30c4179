package lifecycle

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/config"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/connector"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/store"
)

func setup(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	conn, err := connector.NewSQLiteConnector(ctx, &config.StoreConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "obras.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	st, err := store.NewStore(conn, logger)
	require.NoError(t, err)
	require.NoError(t, st.EnsureSchema(ctx))

	svc, err := NewService(st, logger)
	require.NoError(t, err)
	return svc, st
}

func newWork(t *testing.T, svc *Service) *model.WorkRecord {
	t.Helper()
	w, err := svc.Create(context.Background(), NewWork{Name: "Plaza Houssay"})
	require.NoError(t, err)
	return w
}

func reload(t *testing.T, st *store.Store, id int64) *model.WorkRecord {
	t.Helper()
	w, err := st.GetWork(context.Background(), st.DB(), id)
	require.NoError(t, err)
	return w
}

func resolve(t *testing.T, st *store.Store, kind model.CatalogKind, name string) int64 {
	t.Helper()
	id, _, err := st.ResolveOrCreate(context.Background(), st.DB(), kind, name)
	require.NoError(t, err)
	return id
}

func TestCreateStartsAsProject(t *testing.T) {
	svc, st := setup(t)

	w := newWork(t, svc)
	assert.NotZero(t, w.ID)
	assert.Equal(t, model.StageProject, w.StageName())

	stored := reload(t, st, w.ID)
	assert.Equal(t, model.StageProject, stored.StageName())
	assert.Equal(t, "Plaza Houssay", stored.DisplayName())
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc, st := setup(t)

	_, err := svc.Create(context.Background(), NewWork{Name: "  "})
	assert.ErrorIs(t, err, model.ErrValidation)

	n, err := st.CountWorks(context.Background(), st.DB())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFullProgression(t *testing.T) {
	svc, st := setup(t)
	ctx := context.Background()
	w := newWork(t, svc)

	contracting := resolve(t, st, model.KindContractingType, "Licitacion Publica")
	company := resolve(t, st, model.KindCompany, "Constructora Sur")
	funding := resolve(t, st, model.KindFundingSource, "Tesoro")

	require.NoError(t, svc.StartContracting(ctx, w, contracting, "LP-12/2021"))
	assert.Equal(t, model.StageTender, w.StageName())

	require.NoError(t, svc.Award(ctx, w, company, "EX-2021-001"))
	assert.Equal(t, model.StageAwarded, w.StageName())

	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.StartExecution(ctx, w, Execution{
		Featured: true, Start: start, End: end, FundingSourceID: funding, Workforce: 20,
	}))

	stored := reload(t, st, w.ID)
	assert.Equal(t, model.StageExecution, stored.StageName())
	assert.Equal(t, contracting, *stored.ContractingTypeID)
	assert.Equal(t, "LP-12/2021", *stored.ContractingNumber)
	assert.Equal(t, company, *stored.CompanyID)
	assert.Equal(t, "EX-2021-001", *stored.FileNumber)
	assert.Equal(t, model.FeaturedYes, *stored.Featured)
	assert.True(t, start.Equal(*stored.StartDate))
	assert.True(t, end.Equal(*stored.EndDate))
	assert.Equal(t, funding, *stored.FundingSourceID)
	assert.Equal(t, int64(20), *stored.Workforce)
}

func TestUpdateProgressBounds(t *testing.T) {
	svc, st := setup(t)
	ctx := context.Background()
	w := newWork(t, svc)

	tests := []struct {
		value float64
		ok    bool
	}{
		{0, true},
		{55.5, true},
		{100, true},
		{-0.1, false},
		{100.01, false},
	}

	for _, tt := range tests {
		before := reload(t, st, w.ID).Progress
		err := svc.UpdateProgress(ctx, w, tt.value)
		stored := reload(t, st, w.ID)
		if tt.ok {
			require.NoError(t, err)
			assert.Equal(t, tt.value, w.Progress)
			assert.Equal(t, tt.value, stored.Progress)
		} else {
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Equal(t, before, w.Progress)
			assert.Equal(t, before, stored.Progress)
		}
	}
}

func TestIncrementsTreatAbsentAsZero(t *testing.T) {
	svc, st := setup(t)
	ctx := context.Background()
	w := newWork(t, svc)
	require.Nil(t, w.TermMonths)
	require.Nil(t, w.Workforce)

	require.NoError(t, svc.ExtendTerm(ctx, w, 6))
	require.NoError(t, svc.ExtendTerm(ctx, w, 3))
	require.NoError(t, svc.AddWorkforce(ctx, w, 0))
	require.NoError(t, svc.AddWorkforce(ctx, w, 12))

	assert.ErrorIs(t, svc.ExtendTerm(ctx, w, -1), model.ErrValidation)
	assert.ErrorIs(t, svc.AddWorkforce(ctx, w, -5), model.ErrValidation)

	stored := reload(t, st, w.ID)
	assert.Equal(t, int64(9), *stored.TermMonths)
	assert.Equal(t, int64(12), *stored.Workforce)
	assert.Equal(t, int64(9), *w.TermMonths)
	assert.Equal(t, int64(12), *w.Workforce)
}

func TestFinishForcesFullProgress(t *testing.T) {
	svc, st := setup(t)
	ctx := context.Background()
	w := newWork(t, svc)

	require.NoError(t, svc.UpdateProgress(ctx, w, 37))
	require.NoError(t, svc.Finish(ctx, w))

	stored := reload(t, st, w.ID)
	assert.Equal(t, model.StageFinished, stored.StageName())
	assert.Equal(t, 100.0, stored.Progress)
}

func TestRescindKeepsExecutionFields(t *testing.T) {
	svc, st := setup(t)
	ctx := context.Background()
	w := newWork(t, svc)
	funding := resolve(t, st, model.KindFundingSource, "Credito Externo")
	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.StartExecution(ctx, w, Execution{
		Start: start, End: start.AddDate(1, 0, 0), FundingSourceID: funding, Workforce: 4,
	}))
	require.NoError(t, svc.Rescind(ctx, w))

	stored := reload(t, st, w.ID)
	assert.Equal(t, model.StageRescinded, stored.StageName())
	require.NotNil(t, stored.StartDate)
	assert.True(t, start.Equal(*stored.StartDate))
	assert.Equal(t, funding, *stored.FundingSourceID)
	assert.Equal(t, model.FeaturedNo, *stored.Featured)
}

func TestOutOfOrderTransitionIsAllowed(t *testing.T) {
	svc, st := setup(t)
	ctx := context.Background()
	w := newWork(t, svc)

	require.NoError(t, svc.Finish(ctx, w))
	require.NoError(t, svc.NewProject(ctx, w))

	assert.Equal(t, model.StageProject, reload(t, st, w.ID).StageName())

	stages, err := st.CountCatalog(ctx, model.KindStage)
	require.NoError(t, err)
	assert.Equal(t, 2, stages)
}

func TestFailedPersistRestoresRecord(t *testing.T) {
	svc, st := setup(t)
	ctx := context.Background()
	w := newWork(t, svc)

	err := svc.Award(ctx, w, 9999, "EX-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrIntegrity)

	assert.Nil(t, w.CompanyID)
	assert.Nil(t, w.FileNumber)
	assert.Equal(t, model.StageProject, w.StageName())

	stored := reload(t, st, w.ID)
	assert.Nil(t, stored.CompanyID)
	assert.Equal(t, model.StageProject, stored.StageName())
}

func TestTransitionRequiresPersistedRecord(t *testing.T) {
	svc, _ := setup(t)
	assert.Error(t, svc.Finish(context.Background(), &model.WorkRecord{}))
	assert.Error(t, svc.Rescind(context.Background(), nil))
}
