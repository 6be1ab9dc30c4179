package model

import (
	"fmt"
	"time"
)

// Stage names as persisted in etapas. Values are stored in their normalized
// ASCII form so that stages created by the lifecycle and stages imported from
// the CSV collapse onto the same catalog row.
const (
	StageProject   = "Proyecto"
	StageTender    = "En Licitacion"
	StageAwarded   = "Adjudicada"
	StageExecution = "En Ejecucion"
	StageFinished  = "Finalizada"
	StageRescinded = "Rescindida"
)

const (
	FeaturedYes = "SI"
	FeaturedNo  = "NO"

	MaxProgress = 100.0

	// Placeholders used only to build the synthetic dedup key
	DefaultNameLabel = "SIN_NOMBRE"
	DefaultHoodLabel = "SIN_BARRIO"
)

// StageOrder is the canonical progression used for logging out-of-order calls
var StageOrder = map[string]int{
	StageProject:   0,
	StageTender:    1,
	StageAwarded:   2,
	StageExecution: 3,
	StageFinished:  4,
	StageRescinded: 4,
}

// WorkRecord is one public-works project row (table obras)
type WorkRecord struct {
	ID          int64   `db:"id"`
	Code        *string `db:"codigo"`
	Name        *string `db:"nombre"`
	Description *string `db:"descripcion"`
	Context     *string `db:"entorno"`

	WorkTypeID        *int64 `db:"tipo_obra_id"`
	AreaID            *int64 `db:"area_responsable_id"`
	NeighborhoodID    *int64 `db:"barrio_id"`
	StageID           *int64 `db:"etapa_id"`
	CompanyID         *int64 `db:"empresa_id"`
	ContractingTypeID *int64 `db:"tipo_contratacion_id"`
	FundingSourceID   *int64 `db:"fuente_financiamiento_id"`

	Amount *float64 `db:"monto_contrato"`

	Address *string  `db:"direccion"`
	Lat     *float64 `db:"lat"`
	Lng     *float64 `db:"lng"`

	StartDate  *time.Time `db:"fecha_inicio"`
	EndDate    *time.Time `db:"fecha_fin_inicial"`
	TermMonths *int64     `db:"plazo_meses"`

	Progress  float64 `db:"porcentaje_avance"`
	Workforce *int64  `db:"mano_obra"`

	BidCompany        *string `db:"licitacion_oferta_empresa"`
	BidYear           *int64  `db:"licitacion_anio"`
	ContractingNumber *string `db:"nro_contratacion"`
	FileNumber        *string `db:"nro_expediente"`
	ContractorTaxID   *string `db:"cuit_contratista"`

	Featured      *string `db:"destacada"`
	BAElige       *string `db:"ba_elige"`
	Beneficiaries *string `db:"beneficiarios"`
	Commitment    *string `db:"compromiso"`

	Image1           *string `db:"imagen_1"`
	Image2           *string `db:"imagen_2"`
	Image3           *string `db:"imagen_3"`
	Image4           *string `db:"imagen_4"`
	InternalLink     *string `db:"link_interno"`
	SpecsURL         *string `db:"pliego_descarga"`
	EnvironmentalURL *string `db:"estudio_ambiental_descarga"`

	// Stage is the resolved stage name, filled by reads that join etapas
	Stage *string `db:"etapa"`
}

// DisplayName returns the record name or a placeholder
func (w *WorkRecord) DisplayName() string {
	if w.Name == nil || *w.Name == "" {
		return DefaultNameLabel
	}
	return *w.Name
}

// StageName returns the resolved stage name or an empty string
func (w *WorkRecord) StageName() string {
	if w.Stage == nil {
		return ""
	}
	return *w.Stage
}

// String returns a short description used in logs and CLI output
func (w *WorkRecord) String() string {
	return fmt.Sprintf("Obra %d: %s (%s)", w.ID, w.DisplayName(), w.StageName())
}

// Clone returns a deep copy so callers can restore state after a failed persist
func (w *WorkRecord) Clone() *WorkRecord {
	c := *w
	c.Code = cloneString(w.Code)
	c.Name = cloneString(w.Name)
	c.Description = cloneString(w.Description)
	c.Context = cloneString(w.Context)
	c.WorkTypeID = cloneInt(w.WorkTypeID)
	c.AreaID = cloneInt(w.AreaID)
	c.NeighborhoodID = cloneInt(w.NeighborhoodID)
	c.StageID = cloneInt(w.StageID)
	c.CompanyID = cloneInt(w.CompanyID)
	c.ContractingTypeID = cloneInt(w.ContractingTypeID)
	c.FundingSourceID = cloneInt(w.FundingSourceID)
	c.Amount = cloneFloat(w.Amount)
	c.Address = cloneString(w.Address)
	c.Lat = cloneFloat(w.Lat)
	c.Lng = cloneFloat(w.Lng)
	c.StartDate = cloneTime(w.StartDate)
	c.EndDate = cloneTime(w.EndDate)
	c.TermMonths = cloneInt(w.TermMonths)
	c.Workforce = cloneInt(w.Workforce)
	c.BidCompany = cloneString(w.BidCompany)
	c.BidYear = cloneInt(w.BidYear)
	c.ContractingNumber = cloneString(w.ContractingNumber)
	c.FileNumber = cloneString(w.FileNumber)
	c.ContractorTaxID = cloneString(w.ContractorTaxID)
	c.Featured = cloneString(w.Featured)
	c.BAElige = cloneString(w.BAElige)
	c.Beneficiaries = cloneString(w.Beneficiaries)
	c.Commitment = cloneString(w.Commitment)
	c.Image1 = cloneString(w.Image1)
	c.Image2 = cloneString(w.Image2)
	c.Image3 = cloneString(w.Image3)
	c.Image4 = cloneString(w.Image4)
	c.InternalLink = cloneString(w.InternalLink)
	c.SpecsURL = cloneString(w.SpecsURL)
	c.EnvironmentalURL = cloneString(w.EnvironmentalURL)
	c.Stage = cloneString(w.Stage)
	return &c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
