package model

import (
	"fmt"
	"strings"
)

// CatalogKind identifies one of the reference tables referenced by work records
type CatalogKind string

const (
	KindDistrict        CatalogKind = "comuna"
	KindNeighborhood    CatalogKind = "barrio"
	KindWorkType        CatalogKind = "tipo_obra"
	KindArea            CatalogKind = "area_responsable"
	KindCompany         CatalogKind = "empresa"
	KindStage           CatalogKind = "etapa"
	KindContractingType CatalogKind = "tipo_contratacion"
	KindFundingSource   CatalogKind = "fuente_financiamiento"
)

// Default labels used when a row carries no district or neighborhood
const (
	DefaultDistrict     = "Sin Comuna"
	DefaultNeighborhood = "Sin Barrio"
)

// CatalogKinds lists every kind in load order: districts before neighborhoods
var CatalogKinds = []CatalogKind{
	KindDistrict,
	KindNeighborhood,
	KindWorkType,
	KindArea,
	KindCompany,
	KindStage,
	KindContractingType,
	KindFundingSource,
}

// CatalogTable describes where a catalog kind lives in the store
type CatalogTable struct {
	Table     string // Table name
	KeyColumn string // Unique name/code column
	RefColumn string // Column in obras referencing this table, empty for districts
}

var catalogTables = map[CatalogKind]CatalogTable{
	KindDistrict:        {Table: "comunas", KeyColumn: "numero"},
	KindNeighborhood:    {Table: "barrios", KeyColumn: "nombre", RefColumn: "barrio_id"},
	KindWorkType:        {Table: "tipos_obra", KeyColumn: "nombre", RefColumn: "tipo_obra_id"},
	KindArea:            {Table: "areas_responsables", KeyColumn: "nombre", RefColumn: "area_responsable_id"},
	KindCompany:         {Table: "empresas", KeyColumn: "nombre", RefColumn: "empresa_id"},
	KindStage:           {Table: "etapas", KeyColumn: "nombre", RefColumn: "etapa_id"},
	KindContractingType: {Table: "tipos_contratacion", KeyColumn: "nombre", RefColumn: "tipo_contratacion_id"},
	KindFundingSource:   {Table: "fuentes_financiamiento", KeyColumn: "nombre", RefColumn: "fuente_financiamiento_id"},
}

// Table returns the storage description for the kind
func (k CatalogKind) Table() (CatalogTable, error) {
	t, ok := catalogTables[k]
	if !ok {
		return CatalogTable{}, fmt.Errorf("unknown catalog kind %q", string(k))
	}
	return t, nil
}

// ParseCatalogKind resolves a kind from its identifier or its table name
func ParseCatalogKind(s string) (CatalogKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range CatalogKinds {
		if string(k) == s || catalogTables[k].Table == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown catalog kind %q", s)
}

// CatalogEntry is a row of any catalog table
type CatalogEntry struct {
	ID   int64  `db:"id"`
	Name string `db:"nombre"`
}

// Neighborhood is a barrio row with its optional district
type Neighborhood struct {
	ID         int64   `db:"id"`
	Name       string  `db:"nombre"`
	DistrictID *int64  `db:"comuna_id"`
	District   *string `db:"comuna"`
}
