package model

import (
	"time"
)

// Field is a canonical internal column name produced by the cleaner
type Field string

const (
	FieldName              Field = "nombre"
	FieldNeighborhood      Field = "barrio"
	FieldCompany           Field = "empresa"
	FieldWorkType          Field = "tipo_obra"
	FieldStage             Field = "etapa"
	FieldAmount            Field = "monto_contrato"
	FieldStartDate         Field = "fecha_inicio"
	FieldEndDate           Field = "fecha_fin_inicial"
	FieldLat               Field = "lat"
	FieldLng               Field = "lng"
	FieldDistrict          Field = "comuna"
	FieldArea              Field = "area_responsable"
	FieldContractingType   Field = "tipo_contratacion"
	FieldFundingSource     Field = "fuente_financiamiento"
	FieldDescription       Field = "descripcion"
	FieldContext           Field = "entorno"
	FieldAddress           Field = "direccion"
	FieldTermMonths        Field = "plazo_meses"
	FieldProgress          Field = "porcentaje_avance"
	FieldWorkforce         Field = "mano_obra"
	FieldContractingNumber Field = "nro_contratacion"
	FieldFileNumber        Field = "nro_expediente"
	FieldContractorTaxID   Field = "cuit_contratista"
	FieldFeatured          Field = "destacada"
	FieldBidYear           Field = "licitacion_anio"
	FieldBAElige           Field = "ba_elige"
	FieldBeneficiaries     Field = "beneficiarios"
	FieldCommitment        Field = "compromiso"
	FieldImage1            Field = "imagen_1"
	FieldImage2            Field = "imagen_2"
	FieldImage3            Field = "imagen_3"
	FieldImage4            Field = "imagen_4"
	FieldInternalLink      Field = "link_interno"
	FieldSpecsURL          Field = "pliego_descarga"
	FieldEnvironmentalURL  Field = "estudio_ambiental_descarga"
)

// RawTable is the untyped content of the source file: every value is text
type RawTable struct {
	Source  string     // Path the table was read from
	Header  []string   // Column names as found in the file
	Records [][]string // Data rows, each padded to len(Header)
}

// Len returns the number of data rows
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// CleanRow is one normalized, typed source row ready for loading.
// A nil pointer means the value is absent.
type CleanRow struct {
	Line int    // 1-based data line in the source file
	Code string // Synthetic dedup key

	Name        *string
	Description *string
	Context     *string

	District        *string
	Neighborhood    *string
	WorkType        *string
	Area            *string
	Company         *string
	Stage           *string
	ContractingType *string
	FundingSource   *string

	Amount    *float64
	Lat       *float64
	Lng       *float64
	Progress  *float64
	Term      *int64
	Workforce *int64
	BidYear   *int64

	StartDate *time.Time
	EndDate   *time.Time

	Address           *string
	ContractingNumber *string
	FileNumber        *string
	ContractorTaxID   *string
	Featured          *string
	BAElige           *string
	Beneficiaries     *string
	Commitment        *string
	Image1            *string
	Image2            *string
	Image3            *string
	Image4            *string
	InternalLink      *string
	SpecsURL          *string
	EnvironmentalURL  *string
}

// Dataset is the normalized tabular buffer handed from the cleaner to the loader
type Dataset struct {
	Source     string  // Path of the originating file
	Columns    []Field // Canonical fields resolved from the source header
	Rows       []CleanRow
	RowsRead   int // Rows present in the raw table
	Duplicates int // Rows dropped by synthetic-key deduplication
}

// Len returns the number of clean rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// HasColumn reports whether the field was resolved from the source header
func (d *Dataset) HasColumn(f Field) bool {
	for _, c := range d.Columns {
		if c == f {
			return true
		}
	}
	return false
}
