package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook
const (
	SheetSummary       = "Resumen"
	SheetAreas         = "Areas"
	SheetWorkTypes     = "Tipos de Obra"
	SheetByStage       = "Obras por Etapa"
	SheetInvestment    = "Inversion por Tipo"
	SheetNeighborhoods = "Barrios"
)

// WriteXLSX exports the indicators to a workbook at path, one sheet per indicator
func (ind *Indicators) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	finished := interface{}(ind.FinishedWithinTerm)
	if !ind.FinishedStageFound {
		finished = "N/A"
	}
	summary := [][]interface{}{
		{"Indicador", "Valor"},
		{"Generado", ind.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Monto total de inversion", ind.TotalAmount},
		{fmt.Sprintf("Obras finalizadas en %d meses o menos", ind.TermLimit), finished},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	areas := [][]interface{}{{"ID", "Nombre"}}
	for _, a := range ind.Areas {
		areas = append(areas, []interface{}{a.ID, a.Name})
	}
	types := [][]interface{}{{"ID", "Nombre"}}
	for _, t := range ind.WorkTypes {
		types = append(types, []interface{}{t.ID, t.Name})
	}
	stages := [][]interface{}{{"Etapa", "Cantidad"}}
	for _, s := range ind.ByStage {
		stages = append(stages, []interface{}{s.Stage, s.Count})
	}
	invest := [][]interface{}{{"Tipo de obra", "Cantidad", "Total"}}
	for _, t := range ind.ByType {
		invest = append(invest, []interface{}{t.WorkType, t.Count, t.Total})
	}
	hoods := [][]interface{}{{"Comuna", "Barrio"}}
	for _, n := range ind.Neighborhoods {
		hoods = append(hoods, []interface{}{deref(n.District), n.Name})
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SheetAreas, areas},
		{SheetWorkTypes, types},
		{SheetByStage, stages},
		{SheetInvestment, invest},
		{SheetNeighborhoods, hoods},
	}
	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(SheetSummary, "A", "A", 42)
	_ = f.SetColWidth(SheetSummary, "B", "B", 22)
	_ = f.SetColWidth(SheetInvestment, "A", "A", 32)
	_ = f.SetColWidth(SheetInvestment, "C", "C", 20)
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
