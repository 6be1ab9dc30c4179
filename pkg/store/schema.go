// pkg/store/schema.go
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

// Table names
const (
	TableWorks           = "obras"
	TableImports         = "importaciones"
	TableCleaningRecords = "limpiezas"
)

func idColumn() model.Column {
	return model.Column{Name: "id", DataType: model.TypeSerial, IsPrimaryKey: true}
}

func textColumn(name string) model.Column {
	return model.Column{Name: name, DataType: model.TypeText, Nullable: true}
}

func fkColumn(name, table string) model.Column {
	return model.Column{Name: name, DataType: model.TypeForeign, Nullable: true, References: table}
}

func catalogMetadata(table string, extra ...model.Column) model.TableMetadata {
	cols := []model.Column{
		idColumn(),
		{Name: "nombre", DataType: model.TypeText, Unique: true},
	}
	return model.TableMetadata{Table: table, Columns: append(cols, extra...)}
}

// Schema lists every table in creation order: referenced tables first
var Schema = []model.TableMetadata{
	{
		Table: "comunas",
		Columns: []model.Column{
			idColumn(),
			{Name: "numero", DataType: model.TypeText, Unique: true},
		},
	},
	{
		Table: "barrios",
		Columns: []model.Column{
			idColumn(),
			{Name: "nombre", DataType: model.TypeText, Unique: true},
			fkColumn("comuna_id", "comunas"),
		},
		Indexes: []string{"comuna_id"},
	},
	catalogMetadata("tipos_obra"),
	catalogMetadata("areas_responsables"),
	catalogMetadata("empresas", textColumn("cuit")),
	catalogMetadata("etapas"),
	catalogMetadata("tipos_contratacion"),
	catalogMetadata("fuentes_financiamiento"),
	{
		Table: TableWorks,
		Columns: []model.Column{
			idColumn(),
			textColumn("codigo"),
			textColumn("nombre"),
			textColumn("descripcion"),
			textColumn("entorno"),
			fkColumn("tipo_obra_id", "tipos_obra"),
			fkColumn("area_responsable_id", "areas_responsables"),
			fkColumn("barrio_id", "barrios"),
			fkColumn("etapa_id", "etapas"),
			fkColumn("empresa_id", "empresas"),
			fkColumn("tipo_contratacion_id", "tipos_contratacion"),
			fkColumn("fuente_financiamiento_id", "fuentes_financiamiento"),
			{Name: "monto_contrato", DataType: model.TypeDecimal, Nullable: true},
			textColumn("direccion"),
			{Name: "lat", DataType: model.TypeFloat, Nullable: true},
			{Name: "lng", DataType: model.TypeFloat, Nullable: true},
			{Name: "fecha_inicio", DataType: model.TypeDate, Nullable: true},
			{Name: "fecha_fin_inicial", DataType: model.TypeDate, Nullable: true},
			{Name: "plazo_meses", DataType: model.TypeInteger, Nullable: true},
			{Name: "porcentaje_avance", DataType: model.TypeFloat, Default: "0"},
			{Name: "mano_obra", DataType: model.TypeInteger, Nullable: true},
			textColumn("licitacion_oferta_empresa"),
			{Name: "licitacion_anio", DataType: model.TypeInteger, Nullable: true},
			textColumn("nro_contratacion"),
			textColumn("nro_expediente"),
			textColumn("cuit_contratista"),
			textColumn("destacada"),
			textColumn("ba_elige"),
			textColumn("beneficiarios"),
			textColumn("compromiso"),
			textColumn("imagen_1"),
			textColumn("imagen_2"),
			textColumn("imagen_3"),
			textColumn("imagen_4"),
			textColumn("link_interno"),
			textColumn("pliego_descarga"),
			textColumn("estudio_ambiental_descarga"),
		},
		Indexes: []string{"codigo", "nombre", "etapa_id", "tipo_obra_id", "barrio_id"},
	},
	{
		Table: TableImports,
		Columns: []model.Column{
			{Name: "id", DataType: model.TypeText, IsPrimaryKey: true},
			{Name: "fuente", DataType: model.TypeText},
			{Name: "filas_leidas", DataType: model.TypeInteger, Default: "0"},
			{Name: "filas_limpias", DataType: model.TypeInteger, Default: "0"},
			{Name: "filas_descartadas", DataType: model.TypeInteger, Default: "0"},
			{Name: "filas_cargadas", DataType: model.TypeInteger, Default: "0"},
			{Name: "estado", DataType: model.TypeText},
			textColumn("error"),
			{Name: "iniciada", DataType: model.TypeTime},
			{Name: "finalizada", DataType: model.TypeTime, Nullable: true},
		},
	},
	{
		Table: TableCleaningRecords,
		Columns: []model.Column{
			idColumn(),
			textColumn("importacion_id"),
			{Name: "columna", DataType: model.TypeText},
			textColumn("valor_original"),
			{Name: "clave_fila", DataType: model.TypeText},
			{Name: "operacion", DataType: model.TypeText},
			{Name: "motivo", DataType: model.TypeText},
			{Name: "registrada", DataType: model.TypeTime},
		},
		Indexes: []string{"importacion_id"},
	},
}

// EnsureSchema creates every missing table and index. Running it against an
// existing schema changes nothing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	for i := range Schema {
		meta := &Schema[i]

		ddl, err := s.converter.CreateTableSQL(meta)
		if err != nil {
			return fmt.Errorf("failed to generate DDL for %s: %w", meta.Table, err)
		}
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return wrapErr("create table "+meta.Table, fmt.Errorf("failed to create table %s: %w", meta.Table, err))
		}

		for _, idx := range s.converter.CreateIndexSQL(meta) {
			if _, err := s.db.ExecContext(ctx, idx); err != nil {
				return wrapErr("create index", fmt.Errorf("failed to create index on %s: %w", meta.Table, err))
			}
		}

		s.logger.Debug("Ensured table exists", zap.String("table", meta.Table))
	}

	s.logger.Info("Schema ready", zap.Int("tables", len(Schema)))
	return nil
}
