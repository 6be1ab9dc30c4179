package cleaner

import (
	"strings"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

type valueKind int

const (
	kindText valueKind = iota
	kindCatalog
	kindAmount
	kindFloat
	kindInteger
	kindDate
)

// columnAlias maps a canonical field to the source headers accepted for it.
// Aliases are tried in order and the first header present wins.
type columnAlias struct {
	Field   model.Field
	Kind    valueKind
	Aliases []string
}

var columnAliases = []columnAlias{
	{model.FieldName, kindText, []string{"nombre", "obra", "nombre_obra"}},
	{model.FieldNeighborhood, kindCatalog, []string{"barrio"}},
	{model.FieldCompany, kindCatalog, []string{"empresa", "contratista", "licitacion_oferta_empresa"}},
	{model.FieldWorkType, kindCatalog, []string{"tipo_obra", "tipo"}},
	{model.FieldStage, kindCatalog, []string{"etapa"}},
	{model.FieldAmount, kindAmount, []string{"monto", "monto_contrato"}},
	{model.FieldStartDate, kindDate, []string{"fecha_inicio"}},
	{model.FieldEndDate, kindDate, []string{"fecha_fin_inicial", "fecha_fin"}},
	{model.FieldLat, kindFloat, []string{"lat", "latitude"}},
	{model.FieldLng, kindFloat, []string{"lon", "long", "longitude", "lng"}},
	{model.FieldDistrict, kindText, []string{"comuna"}},
	{model.FieldArea, kindCatalog, []string{"area_responsable"}},
	{model.FieldContractingType, kindCatalog, []string{"tipo_contratacion", "contratacion_tipo"}},
	{model.FieldFundingSource, kindCatalog, []string{"fuente_financiamiento", "financiamiento_fuente", "financiamiento"}},
	{model.FieldDescription, kindText, []string{"descripcion"}},
	{model.FieldContext, kindText, []string{"entorno"}},
	{model.FieldAddress, kindText, []string{"direccion"}},
	{model.FieldTermMonths, kindInteger, []string{"plazo_meses"}},
	{model.FieldProgress, kindFloat, []string{"porcentaje_avance"}},
	{model.FieldWorkforce, kindInteger, []string{"mano_obra"}},
	{model.FieldContractingNumber, kindText, []string{"nro_contratacion"}},
	{model.FieldFileNumber, kindText, []string{"nro_expediente"}},
	{model.FieldContractorTaxID, kindText, []string{"cuit_contratista"}},
	{model.FieldFeatured, kindText, []string{"destacada"}},
	{model.FieldBidYear, kindInteger, []string{"licitacion_anio"}},
	{model.FieldBAElige, kindText, []string{"ba_elige"}},
	{model.FieldBeneficiaries, kindText, []string{"beneficiarios"}},
	{model.FieldCommitment, kindText, []string{"compromiso"}},
	{model.FieldImage1, kindText, []string{"imagen_1"}},
	{model.FieldImage2, kindText, []string{"imagen_2"}},
	{model.FieldImage3, kindText, []string{"imagen_3"}},
	{model.FieldImage4, kindText, []string{"imagen_4"}},
	{model.FieldInternalLink, kindText, []string{"link_interno"}},
	{model.FieldSpecsURL, kindText, []string{"pliego_descarga"}},
	{model.FieldEnvironmentalURL, kindText, []string{"estudio_ambiental_descarga"}},
}

// resolvedColumn binds a canonical field to a position in the source record
type resolvedColumn struct {
	Field  model.Field
	Kind   valueKind
	Index  int
	Header string
}

// resolveColumns matches the lower-cased header against the alias table once
// per import. A source column is bound to at most one field; the remaining
// columns are reported back as unrecognized.
func resolveColumns(header []string) ([]resolvedColumn, []string) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	claimed := make(map[int]bool)
	var resolved []resolvedColumn
	for _, alias := range columnAliases {
		for _, candidate := range alias.Aliases {
			idx, ok := positions[candidate]
			if !ok || claimed[idx] {
				continue
			}
			claimed[idx] = true
			resolved = append(resolved, resolvedColumn{
				Field:  alias.Field,
				Kind:   alias.Kind,
				Index:  idx,
				Header: candidate,
			})
			break
		}
	}

	var dropped []string
	for i, h := range header {
		if !claimed[i] {
			dropped = append(dropped, h)
		}
	}

	return resolved, dropped
}
