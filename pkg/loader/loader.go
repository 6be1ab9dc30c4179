// pkg/loader/loader.go
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/store"
)

// DefaultProgressEvery is the row interval between progress log lines
const DefaultProgressEvery = 500

// LoadResult summarizes one load
type LoadResult struct {
	RowsLoaded     int
	CatalogCreated map[model.CatalogKind]int
	CatalogPhase   time.Duration
	RecordPhase    time.Duration
}

// Loader persists a cleaned dataset: catalogs first, then work records,
// each phase in its own atomic unit
type Loader struct {
	store         *store.Store
	logger        *zap.Logger
	progressEvery int
}

// NewLoader creates a Loader on st
func NewLoader(st *store.Store, logger *zap.Logger, progressEvery int) (*Loader, error) {
	if st == nil {
		return nil, errors.New("store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if progressEvery <= 0 {
		progressEvery = DefaultProgressEvery
	}

	return &Loader{
		store:         st,
		logger:        logger.Named("loader"),
		progressEvery: progressEvery,
	}, nil
}

// Load inserts every row of dataset as a new work record. It never updates
// existing rows: loading the same dataset twice duplicates the records.
// A failure in the record phase rolls back every record of the load while
// catalog rows committed by the catalog phase persist.
func (l *Loader) Load(ctx context.Context, dataset *model.Dataset) (*LoadResult, error) {
	if dataset == nil {
		return nil, errors.New("dataset cannot be nil")
	}

	if err := l.store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	result := &LoadResult{}
	cache := newCatalogCache()

	start := time.Now()
	err := l.store.WithTx(ctx, "catalog phase", func(tx *sqlx.Tx) error {
		return l.loadCatalogs(ctx, tx, dataset, cache)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}
	result.CatalogPhase = time.Since(start)
	result.CatalogCreated = cache.created

	l.logger.Info("Catalog phase committed",
		zap.Int("entries", cache.size()),
		zap.Duration("duration", result.CatalogPhase))

	start = time.Now()
	err = l.store.WithTx(ctx, "record phase", func(tx *sqlx.Tx) error {
		n, err := l.loadRecords(ctx, tx, dataset, cache)
		result.RowsLoaded = n
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load work records: %w", err)
	}
	result.RecordPhase = time.Since(start)

	l.logger.Info("Record phase committed",
		zap.Int("rows", result.RowsLoaded),
		zap.Duration("duration", result.RecordPhase))
	return result, nil
}

func (l *Loader) loadCatalogs(ctx context.Context, tx *sqlx.Tx, dataset *model.Dataset, cache *catalogCache) error {
	for _, row := range dataset.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		district := valueOr(row.District, model.DefaultDistrict)
		districtID, err := cache.resolve(model.KindDistrict, district, func() (int64, bool, error) {
			return l.store.ResolveOrCreate(ctx, tx, model.KindDistrict, district)
		})
		if err != nil {
			return err
		}

		hood := valueOr(row.Neighborhood, model.DefaultNeighborhood)
		if _, err := cache.resolve(model.KindNeighborhood, hood, func() (int64, bool, error) {
			return l.store.ResolveNeighborhood(ctx, tx, hood, &districtID)
		}); err != nil {
			return err
		}
	}

	for _, dim := range dimensions {
		for i := range dataset.Rows {
			v := dim.value(&dataset.Rows[i])
			if v == nil {
				continue
			}
			name := *v
			if _, err := cache.resolve(dim.kind, name, func() (int64, bool, error) {
				return l.store.ResolveOrCreate(ctx, tx, dim.kind, name)
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loader) loadRecords(ctx context.Context, tx *sqlx.Tx, dataset *model.Dataset, cache *catalogCache) (int, error) {
	loaded := 0
	for i := range dataset.Rows {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}

		row := &dataset.Rows[i]
		w := newWorkRecord(row, cache)
		if _, err := l.store.InsertWork(ctx, tx, w); err != nil {
			return loaded, fmt.Errorf("row %d (%s): %w", row.Line, row.Code, err)
		}
		loaded++

		if loaded%l.progressEvery == 0 {
			l.logger.Info("Loading work records",
				zap.Int("loaded", loaded),
				zap.Int("total", dataset.Len()))
		}
	}
	return loaded, nil
}

// newWorkRecord maps a clean row onto a work record, resolving every
// reference through the cache. Absent values become NULL references.
func newWorkRecord(row *model.CleanRow, cache *catalogCache) *model.WorkRecord {
	w := &model.WorkRecord{
		Name:              row.Name,
		Description:       row.Description,
		Context:           row.Context,
		WorkTypeID:        cache.lookup(model.KindWorkType, row.WorkType),
		AreaID:            cache.lookup(model.KindArea, row.Area),
		NeighborhoodID:    cache.lookup(model.KindNeighborhood, row.Neighborhood),
		StageID:           cache.lookup(model.KindStage, row.Stage),
		CompanyID:         cache.lookup(model.KindCompany, row.Company),
		ContractingTypeID: cache.lookup(model.KindContractingType, row.ContractingType),
		FundingSourceID:   cache.lookup(model.KindFundingSource, row.FundingSource),
		Amount:            row.Amount,
		Address:           row.Address,
		Lat:               row.Lat,
		Lng:               row.Lng,
		StartDate:         row.StartDate,
		EndDate:           row.EndDate,
		TermMonths:        row.Term,
		Workforce:         row.Workforce,
		BidYear:           row.BidYear,
		ContractingNumber: row.ContractingNumber,
		FileNumber:        row.FileNumber,
		ContractorTaxID:   row.ContractorTaxID,
		Featured:          row.Featured,
		BAElige:           row.BAElige,
		Beneficiaries:     row.Beneficiaries,
		Commitment:        row.Commitment,
		Image1:            row.Image1,
		Image2:            row.Image2,
		Image3:            row.Image3,
		Image4:            row.Image4,
		InternalLink:      row.InternalLink,
		SpecsURL:          row.SpecsURL,
		EnvironmentalURL:  row.EnvironmentalURL,
	}
	if row.Code != "" {
		code := row.Code
		w.Code = &code
	}
	if row.Progress != nil {
		w.Progress = *row.Progress
	}
	return w
}

func valueOr(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}
