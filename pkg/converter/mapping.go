// pkg/converter/mapping.go
package converter

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// Dialect names a SQL flavour supported by the store
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// typeMappings translates logical column types into dialect types
var typeMappings = map[Dialect]map[string]string{
	DialectSQLite: {
		model.TypeText:    "TEXT",
		model.TypeInteger: "INTEGER",
		model.TypeDecimal: "REAL",
		model.TypeFloat:   "REAL",
		model.TypeDate:    "DATE",
		model.TypeTime:    "TIMESTAMP",
		model.TypeForeign: "INTEGER",
	},
	DialectPostgres: {
		model.TypeText:    "TEXT",
		model.TypeInteger: "BIGINT",
		model.TypeDecimal: "NUMERIC(18,2)",
		model.TypeFloat:   "DOUBLE PRECISION",
		model.TypeDate:    "DATE",
		model.TypeTime:    "TIMESTAMP WITH TIME ZONE",
		model.TypeForeign: "BIGINT",
	},
}

// MapLogicalType converts a logical column type to the dialect type
func (c *TypeConverter) MapLogicalType(logical string) (string, error) {
	if logical == "" {
		return typeMappings[c.dialect][model.TypeText], nil
	}

	sqlType, ok := typeMappings[c.dialect][strings.ToUpper(logical)]
	if !ok {
		c.logger.Warn("Unknown logical type encountered",
			zap.String("type", logical),
			zap.String("dialect", string(c.dialect)))
		return "TEXT", fmt.Errorf("unknown logical type: %s", logical)
	}
	return sqlType, nil
}

// serialPrimaryKey returns the auto-increment primary key clause
func serialPrimaryKey(d Dialect) string {
	if d == DialectPostgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}
