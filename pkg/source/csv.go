// pkg/source/csv.go
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// CSVReader extracts the raw works table from a Latin-1 delimited file
type CSVReader struct {
	delimiter rune
	logger    *zap.Logger
}

// NewCSVReader creates a reader for the given delimiter
func NewCSVReader(delimiter rune, logger *zap.Logger) (*CSVReader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if delimiter == 0 {
		delimiter = ';'
	}
	return &CSVReader{
		delimiter: delimiter,
		logger:    logger.Named("source"),
	}, nil
}

// ReadFile reads every record of path as text.
// A missing file yields model.ErrSourceNotFound, any other failure model.ErrSourceRead.
func (r *CSVReader) ReadFile(ctx context.Context, path string) (*model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no csv found at %q; set OBRAS_CSV_PATH or pass --csv with the correct location",
				model.ErrSourceNotFound, path)
		}
		r.logger.Error("Failed to open source file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to open %s: %v", model.ErrSourceRead, path, err)
	}
	defer f.Close()

	table, err := r.Read(ctx, f)
	if err != nil {
		r.logger.Error("Failed to read source file", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	table.Source = path

	r.logger.Info("Extracted source data",
		zap.String("path", path),
		zap.Int("columns", len(table.Header)),
		zap.Int("rows", table.Len()))

	return table, nil
}

// Read parses a Latin-1 encoded stream. Short records are padded with empty
// values up to the header width; extra trailing values are dropped.
func (r *CSVReader) Read(ctx context.Context, in io.Reader) (*model.RawTable, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(in))
	cr.Comma = r.delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file has no header row", model.ErrSourceRead)
		}
		return nil, fmt.Errorf("%w: failed to read csv header: %v", model.ErrSourceRead, err)
	}
	for i, h := range header {
		// Excel exports may carry a byte order mark decoded as Latin-1 text
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\u00ef\u00bb\u00bf"))
	}

	table := &model.RawTable{Header: header}
	width := len(header)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse record %d: %v", model.ErrSourceRead, table.Len()+1, err)
		}

		row := make([]string, width)
		copy(row, rec)
		table.Records = append(table.Records, row)
	}

	return table, nil
}
