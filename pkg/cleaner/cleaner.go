// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// DataCleaner turns the raw source table into typed, normalized rows
type DataCleaner struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewDataCleaner creates a new DataCleaner instance
func NewDataCleaner(logger *zap.Logger) (*DataCleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &DataCleaner{
		logger: logger.Named("cleaner"),
		now:    time.Now,
	}, nil
}

// Clean normalizes every record of raw and drops synthetic-key duplicates.
// Records are copied before any change so raw is left untouched. Values that
// are present in the source but cannot be coerced become absent and are
// reported as cleaning operations.
func (c *DataCleaner) Clean(raw *model.RawTable) (*model.Dataset, []model.CleaningOperation, error) {
	if raw == nil {
		return nil, nil, errors.New("raw table cannot be nil")
	}

	columns, unrecognized := resolveColumns(raw.Header)
	if len(unrecognized) > 0 {
		c.logger.Debug("Dropping unrecognized columns", zap.Strings("columns", unrecognized))
	}

	dataset := &model.Dataset{
		Source:   raw.Source,
		Columns:  make([]model.Field, 0, len(columns)),
		RowsRead: raw.Len(),
	}
	for _, col := range columns {
		dataset.Columns = append(dataset.Columns, col.Field)
	}

	rows := make([]model.CleanRow, 0, raw.Len())
	var operations []model.CleaningOperation

	for i, record := range raw.Records {
		snapshot := make([]string, len(record))
		copy(snapshot, record)

		row, ops := c.cleanRecord(i+1, snapshot, columns)
		rows = append(rows, row)
		operations = append(operations, ops...)
	}

	kept, dropped := dedup(rows)
	for _, d := range dropped {
		code := d.Code
		operations = append(operations, model.CleaningOperation{
			ColumnName:        "codigo",
			OriginalValue:     &code,
			RowIdentifier:     code,
			CleaningOperation: model.OperationDuplicateKey,
			CleaningReason:    "duplicate_synthetic_key",
			CleanedAt:         c.now(),
		})
	}

	dataset.Rows = kept
	dataset.Duplicates = len(dropped)

	c.logger.Info("Data cleaning completed",
		zap.Int("columns", len(dataset.Columns)),
		zap.Int("rows_read", dataset.RowsRead),
		zap.Int("rows_clean", dataset.Len()),
		zap.Int("duplicates", dataset.Duplicates),
		zap.Int("coercions", len(operations)-len(dropped)))

	return dataset, operations, nil
}

// cleanRecord handles text fields first so the synthetic key can identify the
// row in the coercion records that follow
func (c *DataCleaner) cleanRecord(line int, record []string, columns []resolvedColumn) (model.CleanRow, []model.CleaningOperation) {
	row := model.CleanRow{Line: line}

	for _, col := range columns {
		if col.Kind != kindText && col.Kind != kindCatalog {
			continue
		}
		raw, ok := valueAt(record, col.Index)
		if !ok {
			continue
		}
		target := textField(&row, col.Field)
		if target == nil {
			continue
		}
		if col.Kind == kindCatalog {
			if v, ok := normalizeCatalogText(col.Field, raw); ok {
				*target = &v
			}
			continue
		}
		v := raw
		*target = &v
	}

	row.Code = SyntheticKey(row.Name, row.Neighborhood)

	var operations []model.CleaningOperation
	for _, col := range columns {
		raw, ok := valueAt(record, col.Index)
		if !ok {
			continue
		}

		var parsed bool
		switch col.Kind {
		case kindAmount, kindFloat:
			parse := parseNumber
			if col.Kind == kindAmount {
				parse = parseAmount
			}
			var f float64
			if f, parsed = parse(raw); parsed {
				if target := floatField(&row, col.Field); target != nil {
					*target = &f
				}
			}
		case kindInteger:
			var n int64
			if n, parsed = parseInteger(raw); parsed {
				if target := intField(&row, col.Field); target != nil {
					*target = &n
				}
			}
		case kindDate:
			var t time.Time
			if t, parsed = parseDayFirstDate(raw); parsed {
				if target := dateField(&row, col.Field); target != nil {
					*target = &t
				}
			}
		default:
			continue
		}

		if !parsed {
			operations = append(operations, c.coercionFailure(col, raw, row.Code))
		}
	}

	return row, operations
}

func (c *DataCleaner) coercionFailure(col resolvedColumn, raw, rowID string) model.CleaningOperation {
	op := model.CleaningOperation{
		ColumnName:        string(col.Field),
		OriginalValue:     &raw,
		RowIdentifier:     rowID,
		CleaningOperation: model.OperationNumericCoercion,
		CleaningReason:    "unparseable_number",
		CleanedAt:         c.now(),
	}
	if col.Kind == kindDate {
		op.CleaningOperation = model.OperationDateCoercion
		op.CleaningReason = "unparseable_date"
	}
	c.logger.Debug("Coerced value to absent",
		zap.String("column", op.ColumnName),
		zap.String("value", raw),
		zap.String("row", rowID))
	return op
}

// valueAt returns the value at idx unless it is missing or a null marker
func valueAt(record []string, idx int) (string, bool) {
	if idx >= len(record) {
		return "", false
	}
	v := record[idx]
	if isNull(v) {
		return "", false
	}
	return v, true
}
