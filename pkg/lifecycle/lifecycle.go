// pkg/lifecycle/lifecycle.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/store"
)

// NewWork holds the inputs of an interactively created work record
type NewWork struct {
	Name           string
	WorkTypeID     *int64
	AreaID         *int64
	NeighborhoodID *int64
}

// Execution holds the inputs of StartExecution
type Execution struct {
	Featured        bool
	Start           time.Time
	End             time.Time
	FundingSourceID int64
	Workforce       int64
}

// Service moves persisted work records through their stages. Every
// operation persists immediately in its own atomic unit. When validation or
// persistence fails the record is left as it was, in memory and in the store.
// Transitions may be called from any stage; out-of-order calls are logged.
type Service struct {
	store  *store.Store
	logger *zap.Logger
}

// NewService creates a lifecycle service on st
func NewService(st *store.Store, logger *zap.Logger) (*Service, error) {
	if st == nil {
		return nil, errors.New("store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Service{store: st, logger: logger.Named("lifecycle")}, nil
}

// Create inserts a new work record and places it in the Proyecto stage
func (s *Service) Create(ctx context.Context, nw NewWork) (*model.WorkRecord, error) {
	name := strings.TrimSpace(nw.Name)
	if name == "" {
		return nil, s.reject(0, &model.ValidationError{Field: "nombre", Value: nw.Name, Reason: "name cannot be empty"})
	}

	w := &model.WorkRecord{
		Name:           &name,
		WorkTypeID:     nw.WorkTypeID,
		AreaID:         nw.AreaID,
		NeighborhoodID: nw.NeighborhoodID,
	}

	err := s.store.WithTx(ctx, "create work", func(tx *sqlx.Tx) error {
		id, _, err := s.store.ResolveOrCreate(ctx, tx, model.KindStage, model.StageProject)
		if err != nil {
			return err
		}
		w.StageID = &id
		_, err = s.store.InsertWork(ctx, tx, w)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create work record: %w", err)
	}

	stage := model.StageProject
	w.Stage = &stage
	s.logger.Info("Created work record", zap.Int64("id", w.ID), zap.String("name", name))
	return w, nil
}

// NewProject places w in the Proyecto stage
func (s *Service) NewProject(ctx context.Context, w *model.WorkRecord) error {
	return s.apply(ctx, w, "new project", model.StageProject, nil)
}

// StartContracting records the contracting type and number and moves w to En Licitacion
func (s *Service) StartContracting(ctx context.Context, w *model.WorkRecord, contractingTypeID int64, number string) error {
	return s.apply(ctx, w, "start contracting", model.StageTender, func(w *model.WorkRecord) {
		w.ContractingTypeID = &contractingTypeID
		w.ContractingNumber = &number
	})
}

// Award records the awarded company and file number and moves w to Adjudicada
func (s *Service) Award(ctx context.Context, w *model.WorkRecord, companyID int64, fileNumber string) error {
	return s.apply(ctx, w, "award", model.StageAwarded, func(w *model.WorkRecord) {
		w.CompanyID = &companyID
		w.FileNumber = &fileNumber
	})
}

// StartExecution records the execution plan and moves w to En Ejecucion
func (s *Service) StartExecution(ctx context.Context, w *model.WorkRecord, e Execution) error {
	if e.Workforce < 0 {
		return s.reject(idOf(w), &model.ValidationError{Field: "mano_obra", Value: e.Workforce, Reason: "must be >= 0"})
	}

	return s.apply(ctx, w, "start execution", model.StageExecution, func(w *model.WorkRecord) {
		featured := model.FeaturedNo
		if e.Featured {
			featured = model.FeaturedYes
		}
		start, end := e.Start, e.End
		w.Featured = &featured
		w.StartDate = &start
		w.EndDate = &end
		w.FundingSourceID = &e.FundingSourceID
		w.Workforce = &e.Workforce
	})
}

// UpdateProgress sets the progress percentage, which must be within [0, 100]
func (s *Service) UpdateProgress(ctx context.Context, w *model.WorkRecord, percentage float64) error {
	if math.IsNaN(percentage) || percentage < 0 || percentage > model.MaxProgress {
		return s.reject(idOf(w), &model.ValidationError{Field: "porcentaje_avance", Value: percentage, Reason: "must be between 0 and 100"})
	}

	return s.apply(ctx, w, "update progress", "", func(w *model.WorkRecord) {
		w.Progress = percentage
	})
}

// ExtendTerm adds months to the term; an absent term counts as 0
func (s *Service) ExtendTerm(ctx context.Context, w *model.WorkRecord, months int64) error {
	if months < 0 {
		return s.reject(idOf(w), &model.ValidationError{Field: "plazo_meses", Value: months, Reason: "must be >= 0"})
	}

	return s.apply(ctx, w, "extend term", "", func(w *model.WorkRecord) {
		total := months
		if w.TermMonths != nil {
			total += *w.TermMonths
		}
		w.TermMonths = &total
	})
}

// AddWorkforce adds headcount to the workforce; an absent workforce counts as 0
func (s *Service) AddWorkforce(ctx context.Context, w *model.WorkRecord, headcount int64) error {
	if headcount < 0 {
		return s.reject(idOf(w), &model.ValidationError{Field: "mano_obra", Value: headcount, Reason: "must be >= 0"})
	}

	return s.apply(ctx, w, "add workforce", "", func(w *model.WorkRecord) {
		total := headcount
		if w.Workforce != nil {
			total += *w.Workforce
		}
		w.Workforce = &total
	})
}

// Finish sets progress to 100 and moves w to Finalizada
func (s *Service) Finish(ctx context.Context, w *model.WorkRecord) error {
	return s.apply(ctx, w, "finish", model.StageFinished, func(w *model.WorkRecord) {
		w.Progress = model.MaxProgress
	})
}

// Rescind moves w to Rescindida, keeping every other field
func (s *Service) Rescind(ctx context.Context, w *model.WorkRecord) error {
	return s.apply(ctx, w, "rescind", model.StageRescinded, nil)
}

// apply mutates w, resolves the target stage when one is given and persists
// both in one unit. On failure w is restored from a snapshot.
func (s *Service) apply(ctx context.Context, w *model.WorkRecord, op, stage string, mutate func(*model.WorkRecord)) error {
	if w == nil {
		return errors.New("work record cannot be nil")
	}
	if w.ID == 0 {
		return fmt.Errorf("cannot %s: work record is not persisted", op)
	}

	before := w.Clone()
	err := s.store.WithTx(ctx, op, func(tx *sqlx.Tx) error {
		if stage != "" {
			id, _, err := s.store.ResolveOrCreate(ctx, tx, model.KindStage, stage)
			if err != nil {
				return err
			}
			w.StageID = &id
		}
		if mutate != nil {
			mutate(w)
		}
		return s.store.UpdateWork(ctx, tx, w)
	})
	if err != nil {
		*w = *before
		return fmt.Errorf("failed to %s work record %d: %w", op, w.ID, err)
	}

	if stage != "" {
		s.logTransition(w.ID, op, before.StageName(), stage)
		w.Stage = &stage
	} else {
		s.logger.Debug("Updated work record", zap.Int64("id", w.ID), zap.String("operation", op))
	}
	return nil
}

func (s *Service) logTransition(id int64, op, from, to string) {
	fields := []zap.Field{
		zap.Int64("id", id),
		zap.String("operation", op),
		zap.String("from", from),
		zap.String("to", to),
	}

	fromOrder, known := model.StageOrder[from]
	if known && model.StageOrder[to] < fromOrder {
		s.logger.Warn("Out of order stage transition", fields...)
		return
	}
	s.logger.Info("Stage transition", fields...)
}

// reject logs a validation failure and returns it unchanged
func (s *Service) reject(id int64, verr *model.ValidationError) error {
	s.logger.Warn("Rejected lifecycle input",
		zap.Int64("id", id),
		zap.String("field", verr.Field),
		zap.Any("value", verr.Value),
		zap.String("reason", verr.Reason))
	return verr
}

func idOf(w *model.WorkRecord) int64 {
	if w == nil {
		return 0
	}
	return w.ID
}
