// pkg/converter/converter.go
package converter

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// TypeConverter renders table metadata as DDL for one SQL dialect
type TypeConverter struct {
	logger  *zap.Logger
	dialect Dialect
}

// NewTypeConverter creates a TypeConverter for the given dialect
func NewTypeConverter(logger *zap.Logger, dialect Dialect) (*TypeConverter, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if _, ok := typeMappings[dialect]; !ok {
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
	return &TypeConverter{
		logger:  logger.Named("converter"),
		dialect: dialect,
	}, nil
}

// Dialect returns the dialect DDL is generated for
func (c *TypeConverter) Dialect() Dialect {
	return c.dialect
}

// GenerateColumnDefinitions creates the column clauses of a CREATE TABLE statement
func (c *TypeConverter) GenerateColumnDefinitions(metadata *model.TableMetadata) ([]string, error) {
	if metadata == nil {
		return nil, errors.New("table metadata cannot be nil")
	}

	definitions := make([]string, 0, len(metadata.Columns))

	for _, col := range metadata.Columns {
		if col.DataType == model.TypeSerial {
			definitions = append(definitions,
				fmt.Sprintf("%s %s", quoteIdentifier(col.Name), serialPrimaryKey(c.dialect)))
			continue
		}

		sqlType, err := c.MapLogicalType(col.DataType)
		if err != nil {
			return nil, fmt.Errorf("column %s.%s: %w", metadata.Table, col.Name, err)
		}

		parts := []string{quoteIdentifier(col.Name), sqlType}

		switch {
		case col.IsPrimaryKey:
			parts = append(parts, "PRIMARY KEY")
		case col.Nullable:
			parts = append(parts, "NULL")
		default:
			parts = append(parts, "NOT NULL")
		}

		if col.Unique && !col.IsPrimaryKey {
			parts = append(parts, "UNIQUE")
		}

		if col.Default != "" {
			parts = append(parts, "DEFAULT "+col.Default)
		}

		if col.IsForeignKey() {
			parts = append(parts, fmt.Sprintf("REFERENCES %s (%s) ON DELETE SET NULL",
				quoteIdentifier(col.References), quoteIdentifier("id")))
		}

		definitions = append(definitions, strings.Join(parts, " "))
	}

	return definitions, nil
}

// CreateTableSQL returns an idempotent CREATE TABLE statement
func (c *TypeConverter) CreateTableSQL(metadata *model.TableMetadata) (string, error) {
	definitions, err := c.GenerateColumnDefinitions(metadata)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		quoteIdentifier(metadata.Table),
		strings.Join(definitions, ",\n\t")), nil
}

// CreateIndexSQL returns one idempotent CREATE INDEX statement per indexed column
func (c *TypeConverter) CreateIndexSQL(metadata *model.TableMetadata) []string {
	statements := make([]string, 0, len(metadata.Indexes))
	for _, col := range metadata.Indexes {
		name := fmt.Sprintf("idx_%s_%s", metadata.Table, col)
		statements = append(statements, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			quoteIdentifier(name), quoteIdentifier(metadata.Table), quoteIdentifier(col)))
	}
	return statements
}

// quoteIdentifier properly quotes and escapes an identifier
func quoteIdentifier(name string) string {
	return fmt.Sprintf("\"%s\"", strings.ToLower(strings.ReplaceAll(name, "\"", "\"\"")))
}
