package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// ImportJob identifies one batch import of a source file
type ImportJob struct {
	ID        string    // Unique job identifier, also the importaciones key
	Source    string    // Path of the CSV file
	Force     bool      // Load even when the store already holds works
	CreatedAt time.Time // Job creation timestamp
}

// NewImportJob creates a job with a fresh identifier
func NewImportJob(source string) ImportJob {
	return ImportJob{
		ID:        uuid.New().String(),
		Source:    source,
		CreatedAt: time.Now(),
	}
}

// WithForce sets whether the load guard is bypassed and returns the modified job
func (j ImportJob) WithForce(force bool) ImportJob {
	j.Force = force
	return j
}

// ImportResult represents the outcome of an import job
type ImportResult struct {
	JobID              string
	Source             string
	Status             string
	RowsRead           int
	RowsClean          int
	RowsDropped        int
	RowsLoaded         int
	CleaningOperations int
	Errors             []ErrorRecord
	Warnings           []string
	Verification       *VerificationReport
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}

// NewImportResult initializes the result of job
func NewImportResult(job ImportJob) *ImportResult {
	return &ImportResult{
		JobID:     job.ID,
		Source:    job.Source,
		Status:    model.ImportRunning,
		StartTime: time.Now(),
		Errors:    make([]ErrorRecord, 0),
		Warnings:  make([]string, 0),
	}
}

// Complete marks the import as finished with status and calculates duration
func (r *ImportResult) Complete(status string) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Status = status
}

// AddError adds an error to the result
func (r *ImportResult) AddError(err ErrorRecord) {
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the result
func (r *ImportResult) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

// HasErrors checks if any errors occurred
func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Success reports whether the import finished without failing
func (r *ImportResult) Success() bool {
	return r.Status == model.ImportCompleted || r.Status == model.ImportSkipped
}

// Run converts the result into its audit row
func (r *ImportResult) Run() *model.ImportRun {
	run := &model.ImportRun{
		ID:          r.JobID,
		Source:      r.Source,
		RowsRead:    r.RowsRead,
		RowsClean:   r.RowsClean,
		RowsDropped: r.RowsDropped,
		RowsLoaded:  r.RowsLoaded,
		Status:      r.Status,
		StartedAt:   r.StartTime,
	}
	if !r.EndTime.IsZero() {
		end := r.EndTime
		run.FinishedAt = &end
	}
	if len(r.Errors) > 0 {
		msg := r.Errors[len(r.Errors)-1].String()
		run.Error = &msg
	}
	return run
}
