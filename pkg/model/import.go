package model

import "time"

// Import run states
const (
	ImportRunning   = "running"
	ImportCompleted = "completed"
	ImportSkipped   = "skipped"
	ImportFailed    = "failed"
)

// ImportRun is the audit row of one batch import (table importaciones)
type ImportRun struct {
	ID          string     `db:"id"`
	Source      string     `db:"fuente"`
	RowsRead    int        `db:"filas_leidas"`
	RowsClean   int        `db:"filas_limpias"`
	RowsDropped int        `db:"filas_descartadas"`
	RowsLoaded  int        `db:"filas_cargadas"`
	Status      string     `db:"estado"`
	Error       *string    `db:"error"`
	StartedAt   time.Time  `db:"iniciada"`
	FinishedAt  *time.Time `db:"finalizada"`
}
