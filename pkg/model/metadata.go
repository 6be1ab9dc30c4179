// pkg/model/metadata.go
package model

import "strings"

// Logical column types understood by the DDL generator
const (
	TypeSerial  = "SERIAL"
	TypeText    = "TEXT"
	TypeInteger = "INTEGER"
	TypeDecimal = "DECIMAL"
	TypeFloat   = "FLOAT"
	TypeDate    = "DATE"
	TypeTime    = "TIMESTAMP"
	TypeForeign = "FOREIGN"
)

// TableMetadata contains the structure information for a database table
type TableMetadata struct {
	Table   string   // Table name
	Columns []Column // Column definitions
	Indexes []string // Columns carrying a non-unique index
}

// Column represents metadata about a database column
type Column struct {
	Name         string // Column name
	DataType     string // Logical type, one of the Type* constants
	Nullable     bool   // Whether column allows NULL values
	IsPrimaryKey bool   // Whether column is the primary key
	Unique       bool   // Whether column carries a UNIQUE constraint
	Default      string // Literal default expression, empty for none
	References   string // Referenced table for TypeForeign columns
}

// GetColumnByName returns a column by name (case-insensitive)
// Returns nil if column not found
func (tm *TableMetadata) GetColumnByName(name string) *Column {
	normalizedName := strings.ToLower(name)
	for i, col := range tm.Columns {
		if strings.ToLower(col.Name) == normalizedName {
			return &tm.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns the column names in declaration order
func (tm *TableMetadata) ColumnNames() []string {
	names := make([]string, len(tm.Columns))
	for i, col := range tm.Columns {
		names[i] = col.Name
	}
	return names
}

// IsForeignKey reports whether the column references another table
func (col *Column) IsForeignKey() bool {
	return col.DataType == TypeForeign && col.References != ""
}
