package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/store"
)

// IntegrityIssue represents a data quality finding on the loaded records
type IntegrityIssue struct {
	IssueType    string
	Description  string
	ColumnName   string
	AffectedRows int
}

// VerificationReport contains the results of a post-load verification
type VerificationReport struct {
	VerificationTime time.Time
	RowCountMatches  bool
	ExpectedRows     int
	ActualRows       int
	IntegrityIssues  []IntegrityIssue
	Duration         time.Duration
}

// Verifier checks the store after a load
type Verifier struct {
	store  *store.Store
	logger *zap.Logger
}

// NewVerifier creates a new verifier
func NewVerifier(st *store.Store, logger *zap.Logger) (*Verifier, error) {
	if st == nil {
		return nil, errors.New("store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Verifier{store: st, logger: logger.Named("verifier")}, nil
}

// VerifyRowCount checks that obras holds exactly expected rows
func (v *Verifier) VerifyRowCount(ctx context.Context, expected int) (bool, int, error) {
	actual, err := v.store.CountWorks(ctx, v.store.DB())
	if err != nil {
		return false, 0, fmt.Errorf("failed to count loaded rows: %w", err)
	}

	matches := actual == expected
	if matches {
		v.logger.Info("Row count verification successful", zap.Int("count", actual))
	} else {
		v.logger.Warn("Row count mismatch",
			zap.Int("expected", expected),
			zap.Int("actual", actual),
			zap.Int("difference", expected-actual))
	}
	return matches, actual, nil
}

// VerifyIntegrity reports, per referenced catalog, how many records carry no reference
func (v *Verifier) VerifyIntegrity(ctx context.Context) ([]IntegrityIssue, error) {
	var issues []IntegrityIssue
	for _, kind := range model.CatalogKinds {
		t, err := kind.Table()
		if err != nil {
			return nil, err
		}
		if t.RefColumn == "" {
			continue
		}

		n, err := v.store.CountUnlinked(ctx, kind)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}

		issues = append(issues, IntegrityIssue{
			IssueType:    "null_reference",
			Description:  fmt.Sprintf("%d records without %s", n, kind),
			ColumnName:   t.RefColumn,
			AffectedRows: n,
		})
		v.logger.Debug("Records without reference",
			zap.String("column", t.RefColumn),
			zap.Int("count", n))
	}
	return issues, nil
}

// GenerateVerificationReport runs every check
func (v *Verifier) GenerateVerificationReport(ctx context.Context, expected int) (*VerificationReport, error) {
	start := time.Now()
	report := &VerificationReport{VerificationTime: start, ExpectedRows: expected}

	matches, actual, err := v.VerifyRowCount(ctx, expected)
	if err != nil {
		return nil, err
	}
	report.RowCountMatches = matches
	report.ActualRows = actual

	if report.IntegrityIssues, err = v.VerifyIntegrity(ctx); err != nil {
		return nil, fmt.Errorf("failed to verify integrity: %w", err)
	}

	report.Duration = time.Since(start)
	v.logger.Info("Verification completed",
		zap.Bool("row_count_matches", report.RowCountMatches),
		zap.Int("integrity_issues", len(report.IntegrityIssues)),
		zap.Duration("duration", report.Duration))
	return report, nil
}
