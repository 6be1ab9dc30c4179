// pkg/model/cleaning.go
package model

import (
	"time"
)

// Cleaning operation identifiers
const (
	OperationNumericCoercion = "numeric_coercion"
	OperationDateCoercion    = "date_coercion"
	OperationDuplicateKey    = "duplicate_key"
)

// CleaningOperation represents a single data cleaning operation
type CleaningOperation struct {
	ImportID          string    // Import run the operation belongs to
	ColumnName        string    // Column that was cleaned
	OriginalValue     *string   // Original value (may be nil)
	RowIdentifier     string    // Synthetic key or source line of the row
	CleaningOperation string    // Type of cleaning performed (e.g., "numeric_coercion")
	CleaningReason    string    // Reason for cleaning (e.g., "unparseable_number")
	CleanedAt         time.Time // When the cleaning occurred
}
