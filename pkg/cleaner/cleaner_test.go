package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

func newCleaner(t *testing.T) *DataCleaner {
	t.Helper()
	c, err := NewDataCleaner(zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestNormalizeCatalogText(t *testing.T) {
	tests := []struct {
		name  string
		field model.Field
		in    string
		want  string
		ok    bool
	}{
		{"accents and casing", model.FieldStage, "en ejecución", "En Ejecucion", true},
		{"upper case input", model.FieldWorkType, "HIDRÁULICA", "Hidraulica", true},
		{"neighborhood typo", model.FieldNeighborhood, "monserrat ", "Montserrat", true},
		{"typo only for neighborhood", model.FieldCompany, "Monserrat SA", "Monserrat Sa", true},
		{"word fix", model.FieldArea, "secretari a de obras", "Secretaria De Obras", true},
		{"whitespace runs", model.FieldArea, "  Ministerio   de\tSalud ", "Ministerio De Salud", true},
		{"blank", model.FieldStage, "   ", "", false},
		{"only non ascii", model.FieldStage, "ª", "", false},
		{"none literal", model.FieldStage, "none", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeCatalogText(tt.field, tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizedTextIsASCII(t *testing.T) {
	inputs := []string{
		"Núñez", "Villa Pueyrredón", "Agronomía", "SECRETARÍA DE AMBIENTE", "çàéîõü",
		"Ñandú", "São Paulo", "Ω ohm", "日本", "über   straße",
	}
	for _, in := range inputs {
		out, ok := normalizeCatalogText(model.FieldNeighborhood, in)
		if ok {
			assert.True(t, IsASCII(out), "expected ascii output for %q, got %q", in, out)
		}
	}
}

func TestCleanMonserratWithoutDistrict(t *testing.T) {
	raw := &model.RawTable{
		Header:  []string{"Nombre", "BARRIO", "comuna"},
		Records: [][]string{{"Plaza Central", "monserrat ", ""}},
	}

	dataset, ops, err := newCleaner(t).Clean(raw)
	require.NoError(t, err)
	assert.Empty(t, ops)
	require.Equal(t, 1, dataset.Len())

	row := dataset.Rows[0]
	require.NotNil(t, row.Neighborhood)
	assert.Equal(t, "Montserrat", *row.Neighborhood)
	assert.Nil(t, row.District)
	assert.Equal(t, "PLAZA CENTRAL-MONTSERRAT", row.Code)
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	raw := &model.RawTable{
		Header:  []string{"nombre", "etapa", "monto"},
		Records: [][]string{{"Escuela", " en  ejecución ", "$1,000"}},
	}
	before := [][]string{{"Escuela", " en  ejecución ", "$1,000"}}

	_, _, err := newCleaner(t).Clean(raw)
	require.NoError(t, err)
	assert.Equal(t, before, raw.Records)
	assert.Equal(t, []string{"nombre", "etapa", "monto"}, raw.Header)
}

func TestCleanResolvesAliases(t *testing.T) {
	raw := &model.RawTable{
		Header:  []string{"obra", "LNG", "contratista", "financiamiento", "ignored"},
		Records: [][]string{{"Hospital", "-58.4", "acme sociedad", "fondos propios", "x"}},
	}

	dataset, _, err := newCleaner(t).Clean(raw)
	require.NoError(t, err)

	assert.Equal(t, []model.Field{
		model.FieldName, model.FieldCompany, model.FieldLng, model.FieldFundingSource,
	}, dataset.Columns)
	assert.False(t, dataset.HasColumn(model.FieldNeighborhood))

	row := dataset.Rows[0]
	assert.Equal(t, "Hospital", *row.Name)
	assert.Equal(t, "Acme Sociedad", *row.Company)
	assert.InDelta(t, -58.4, *row.Lng, 1e-9)
	assert.Equal(t, "Fondos Propios", *row.FundingSource)
}

func TestCleanCoercions(t *testing.T) {
	raw := &model.RawTable{
		Header: []string{"nombre", "monto_contrato", "lat", "plazo_meses", "mano_obra", "porcentaje_avance", "fecha_inicio", "fecha_fin_inicial"},
		Records: [][]string{
			{"A", "$1,500.50", "-34.6", "12.7", "NA", "45", "05/03/2021", "2021-12-31"},
			{"B", "no informado", "abc", "", "x", "", "31/02/2021", "fecha"},
		},
	}

	dataset, ops, err := newCleaner(t).Clean(raw)
	require.NoError(t, err)
	require.Equal(t, 2, dataset.Len())

	a := dataset.Rows[0]
	assert.InDelta(t, 1500.5, *a.Amount, 1e-9)
	assert.InDelta(t, -34.6, *a.Lat, 1e-9)
	assert.Equal(t, int64(12), *a.Term)
	assert.Nil(t, a.Workforce)
	assert.InDelta(t, 45.0, *a.Progress, 1e-9)
	assert.Equal(t, time.Date(2021, time.March, 5, 0, 0, 0, 0, time.UTC), *a.StartDate)
	assert.Equal(t, time.Date(2021, time.December, 31, 0, 0, 0, 0, time.UTC), *a.EndDate)

	b := dataset.Rows[1]
	assert.Nil(t, b.Amount)
	assert.Nil(t, b.Lat)
	assert.Nil(t, b.Term)
	assert.Nil(t, b.Workforce)
	assert.Nil(t, b.Progress)
	assert.Nil(t, b.StartDate)
	assert.Nil(t, b.EndDate)

	// Only present values that failed coercion are reported
	require.Len(t, ops, 5)
	byColumn := map[string]model.CleaningOperation{}
	for _, op := range ops {
		byColumn[op.ColumnName] = op
		assert.Equal(t, "B-SIN_BARRIO", op.RowIdentifier)
	}
	assert.Equal(t, model.OperationNumericCoercion, byColumn["monto_contrato"].CleaningOperation)
	assert.Equal(t, "no informado", *byColumn["monto_contrato"].OriginalValue)
	assert.Equal(t, model.OperationDateCoercion, byColumn["fecha_inicio"].CleaningOperation)
	assert.Contains(t, byColumn, "mano_obra")
	assert.Contains(t, byColumn, "fecha_fin_inicial")
	assert.Contains(t, byColumn, "lat")
}

func TestCleanDeduplicatesKeepingFirst(t *testing.T) {
	raw := &model.RawTable{
		Header: []string{"nombre", "barrio", "monto"},
		Records: [][]string{
			{"Plaza", "Palermo", "100"},
			{"PLAZA", "palermo", "200"},
			{"Plaza", "Belgrano", "300"},
			{"", "", "1"},
			{"NULL", "", "2"},
		},
	}

	dataset, ops, err := newCleaner(t).Clean(raw)
	require.NoError(t, err)

	require.Equal(t, 3, dataset.Len())
	assert.Equal(t, 2, dataset.Duplicates)
	assert.Equal(t, 5, dataset.RowsRead)
	assert.InDelta(t, 100.0, *dataset.Rows[0].Amount, 1e-9)
	assert.Equal(t, "PLAZA-BELGRANO", dataset.Rows[1].Code)
	assert.Equal(t, "SIN_NOMBRE-SIN_BARRIO", dataset.Rows[2].Code)
	assert.Equal(t, 4, dataset.Rows[2].Line)

	dups := 0
	for _, op := range ops {
		if op.CleaningOperation == model.OperationDuplicateKey {
			dups++
		}
	}
	assert.Equal(t, 2, dups)
}

func TestCleanNilTable(t *testing.T) {
	_, _, err := newCleaner(t).Clean(nil)
	assert.Error(t, err)
}

func TestParseDayFirstDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"01/02/2020", time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC), true},
		{"1/2/2020", time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC), true},
		{"15-08-2019", time.Date(2019, time.August, 15, 0, 0, 0, 0, time.UTC), true},
		{"2019-08-15", time.Date(2019, time.August, 15, 0, 0, 0, 0, time.UTC), true},
		{"15/08/2019 10:30:00", time.Date(2019, time.August, 15, 0, 0, 0, 0, time.UTC), true},
		{"15/08/19", time.Date(2019, time.August, 15, 0, 0, 0, 0, time.UTC), true},
		{"13/13/2019", time.Time{}, false},
		{"sin fecha", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDayFirstDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSyntheticKey(t *testing.T) {
	name := "Plaza Ñandú"
	hood := "Palermo"
	assert.Equal(t, "PLAZA ÑANDÚ-PALERMO", SyntheticKey(&name, &hood))
	assert.Equal(t, "SIN_NOMBRE-SIN_BARRIO", SyntheticKey(nil, nil))
}
