// pkg/pipeline/manager.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/cleaner"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/config"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/loader"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/source"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/store"
)

// Manager orchestrates a batch import: extract, clean, load and verify
type Manager struct {
	store    *store.Store
	reader   *source.CSVReader
	cleaner  *cleaner.DataCleaner
	loader   *loader.Loader
	verifier *Verifier
	metrics  *Metrics
	logger   *zap.Logger
}

// NewManager wires every stage of the pipeline on st
func NewManager(cfg *config.Config, st *store.Store, logger *zap.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}
	if st == nil {
		return nil, errors.New("store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	reader, err := source.NewCSVReader(cfg.DelimiterRune(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV reader: %w", err)
	}
	dc, err := cleaner.NewDataCleaner(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create data cleaner: %w", err)
	}
	ld, err := loader.NewLoader(st, logger, cfg.ProgressEvery)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}
	verifier, err := NewVerifier(st, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create verifier: %w", err)
	}

	logger = logger.Named("pipeline")
	return &Manager{
		store:    st,
		reader:   reader,
		cleaner:  dc,
		loader:   ld,
		verifier: verifier,
		metrics:  NewMetrics(logger),
		logger:   logger,
	}, nil
}

// Metrics returns the timings of the last run
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Run executes job. Records are loaded only when the store holds no works,
// unless the job is forced. The import and its cleaning operations are
// recorded in the audit tables whatever the outcome.
func (m *Manager) Run(ctx context.Context, job ImportJob) (*ImportResult, error) {
	m.metrics = NewMetrics(m.logger)
	result := NewImportResult(job)

	m.logger.Info("Starting import",
		zap.String("job_id", job.ID),
		zap.String("source", job.Source),
		zap.Bool("force", job.Force))

	if err := m.store.EnsureSchema(ctx); err != nil {
		return m.fail(result, "schema", err, false)
	}
	if err := m.store.CreateImport(ctx, result.Run()); err != nil {
		return m.fail(result, "audit", err, false)
	}

	phase := m.metrics.StartPhase(PhaseExtract)
	raw, err := m.reader.ReadFile(ctx, job.Source)
	if err != nil {
		return m.fail(result, PhaseExtract, err, true)
	}
	result.RowsRead = raw.Len()
	m.metrics.EndPhase(phase, raw.Len())

	phase = m.metrics.StartPhase(PhaseClean)
	dataset, ops, err := m.cleaner.Clean(raw)
	if err != nil {
		return m.fail(result, PhaseClean, err, true)
	}
	result.RowsClean = dataset.Len()
	result.RowsDropped = dataset.Duplicates
	result.CleaningOperations = len(ops)
	m.metrics.EndPhase(phase, dataset.Len())

	for i := range ops {
		ops[i].ImportID = job.ID
	}
	if err := m.store.RecordCleaningOperations(ctx, ops); err != nil {
		return m.fail(result, "audit", err, true)
	}

	existing, err := m.store.CountWorks(ctx, m.store.DB())
	if err != nil {
		return m.fail(result, PhaseLoad, err, true)
	}
	if existing > 0 && !job.Force {
		m.logger.Info("Store already contains works, skipping load", zap.Int("works", existing))
		result.AddWarning(fmt.Sprintf("load skipped: store already contains %d works", existing))
		return m.finish(result, model.ImportSkipped)
	}

	phase = m.metrics.StartPhase(PhaseLoad)
	loaded, err := m.loader.Load(ctx, dataset)
	if err != nil {
		return m.fail(result, PhaseLoad, err, true)
	}
	result.RowsLoaded = loaded.RowsLoaded
	m.metrics.EndPhase(phase, loaded.RowsLoaded)

	phase = m.metrics.StartPhase(PhaseVerify)
	report, err := m.verifier.GenerateVerificationReport(ctx, existing+loaded.RowsLoaded)
	if err != nil {
		return m.fail(result, PhaseVerify, err, true)
	}
	result.Verification = report
	if !report.RowCountMatches {
		result.AddWarning(fmt.Sprintf("expected %d works after load, found %d", report.ExpectedRows, report.ActualRows))
	}
	m.metrics.EndPhase(phase, report.ActualRows)

	return m.finish(result, model.ImportCompleted)
}

func (m *Manager) finish(result *ImportResult, status string) (*ImportResult, error) {
	result.Complete(status)
	m.metrics.Complete()
	m.recordRun(result)

	m.logger.Info("Import finished",
		zap.String("job_id", result.JobID),
		zap.String("status", status),
		zap.Int("rows_read", result.RowsRead),
		zap.Int("rows_clean", result.RowsClean),
		zap.Int("rows_dropped", result.RowsDropped),
		zap.Int("rows_loaded", result.RowsLoaded),
		zap.Int("cleaning_operations", result.CleaningOperations),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// fail records err on the result and, when the audit row exists, marks it failed
func (m *Manager) fail(result *ImportResult, phase string, err error, audited bool) (*ImportResult, error) {
	record := NewErrorRecord(phase, err)
	result.AddError(record)
	result.Complete(model.ImportFailed)
	m.metrics.Complete()

	m.logger.Error("Import failed",
		zap.String("job_id", result.JobID),
		zap.String("phase", phase),
		zap.String("category", record.Category.String()),
		zap.Error(err))

	if audited {
		m.recordRun(result)
	}
	return result, fmt.Errorf("import %s failed during %s: %w", result.JobID, phase, err)
}

// recordRun writes the final state of the run; failures are only logged
func (m *Manager) recordRun(result *ImportResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.store.FinishImport(ctx, result.Run()); err != nil {
		m.logger.Error("Failed to record import run",
			zap.String("job_id", result.JobID),
			zap.Error(err))
	}
}
