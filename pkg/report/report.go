// pkg/report/report.go
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/store"
)

// FinishedTermMonths is the term limit of the finished-works indicator
const FinishedTermMonths = 24

// Districts lists the district numbers whose neighborhoods are reported
var Districts = []string{"1", "2", "3"}

// Indicators is the full set of aggregate figures over the store
type Indicators struct {
	GeneratedAt        time.Time
	Areas              []model.CatalogEntry
	WorkTypes          []model.CatalogEntry
	ByStage            []store.StageCount
	ByType             []store.TypeInvestment
	Districts          []string
	Neighborhoods      []model.Neighborhood
	TermLimit          int
	FinishedWithinTerm int
	FinishedStageFound bool
	TotalAmount        float64
}

// Reporter reads indicators from the store
type Reporter struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReporter creates a Reporter on st
func NewReporter(st *store.Store, logger *zap.Logger) (*Reporter, error) {
	if st == nil {
		return nil, errors.New("store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Reporter{store: st, logger: logger.Named("report")}, nil
}

// Collect runs every indicator query
func (r *Reporter) Collect(ctx context.Context) (*Indicators, error) {
	ind := &Indicators{
		GeneratedAt: time.Now(),
		Districts:   Districts,
		TermLimit:   FinishedTermMonths,
	}

	var err error
	if ind.Areas, err = r.store.ListCatalog(ctx, model.KindArea); err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	if ind.WorkTypes, err = r.store.ListCatalog(ctx, model.KindWorkType); err != nil {
		return nil, fmt.Errorf("failed to list work types: %w", err)
	}
	if ind.ByStage, err = r.store.CountByStage(ctx); err != nil {
		return nil, err
	}
	if ind.ByType, err = r.store.InvestmentByType(ctx); err != nil {
		return nil, err
	}
	if ind.Neighborhoods, err = r.store.NeighborhoodsInDistricts(ctx, ind.Districts); err != nil {
		return nil, err
	}
	if ind.FinishedWithinTerm, ind.FinishedStageFound, err = r.store.CountFinishedWithin(ctx, ind.TermLimit); err != nil {
		return nil, err
	}
	if ind.TotalAmount, err = r.store.TotalAmount(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("Collected indicators",
		zap.Int("areas", len(ind.Areas)),
		zap.Int("work_types", len(ind.WorkTypes)),
		zap.Int("stages", len(ind.ByStage)),
		zap.Float64("total_amount", ind.TotalAmount))
	return ind, nil
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators and two decimals
func FormatAmount(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// WriteText renders the indicators as plain text
func (ind *Indicators) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("Areas responsables:\n")
	for _, a := range ind.Areas {
		ew.printf("  - %s\n", a.Name)
	}

	ew.printf("\nTipos de obra:\n")
	for _, t := range ind.WorkTypes {
		ew.printf("  - %s\n", t.Name)
	}

	ew.printf("\nObras por etapa:\n")
	for _, s := range ind.ByStage {
		ew.printf("  - %s: %d obras\n", s.Stage, s.Count)
	}

	ew.printf("\nInversion por tipo de obra:\n")
	for _, t := range ind.ByType {
		ew.printf("  - %s: %d obras - Total: %s\n", t.WorkType, t.Count, FormatAmount(t.Total))
	}

	ew.printf("\nBarrios en comunas %v:\n", ind.Districts)
	for _, n := range ind.Neighborhoods {
		ew.printf("  - Comuna %s: %s\n", deref(n.District), n.Name)
	}

	ew.printf("\nObras finalizadas en %d meses o menos:\n", ind.TermLimit)
	if ind.FinishedStageFound {
		ew.printf("  - %d obras\n", ind.FinishedWithinTerm)
	} else {
		ew.printf("  - No existe la etapa %q\n", model.StageFinished)
	}

	ew.printf("\nMonto total de inversion:\n  - %s\n", FormatAmount(ind.TotalAmount))
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
