package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/todmy/pdf-eval/internal/analysis"
)

// StatisticsSheet names the workbook sheet holding the findings
const StatisticsSheet = "statistics"

const defaultSheet = "Sheet1"

// WriteWorkbook saves one sheet per table plus a statistics sheet to path
func WriteWorkbook(path string, tables []analysis.NamedTable, findings []analysis.Finding) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, nt := range tables {
		if err := writeTableSheet(f, nt); err != nil {
			return fmt.Errorf("sheet %s: %w", nt.Name, err)
		}
	}
	if err := writeStatisticsSheet(f, findings); err != nil {
		return fmt.Errorf("sheet %s: %w", StatisticsSheet, err)
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeTableSheet(f *excelize.File, nt analysis.NamedTable) error {
	if _, err := f.NewSheet(nt.Name); err != nil {
		return err
	}

	grid := nt.Table.WithMargins()
	headers := nt.Headers
	if len(headers) == 0 {
		headers = append([]string{string(nt.Table.RowField)}, grid.ColLabels...)
	}
	if err := setRow(f, nt.Name, 1, toCells(headers)); err != nil {
		return err
	}

	for i, counts := range grid.Cells {
		cells := []interface{}{grid.RowLabels[i]}
		for _, c := range counts {
			cells = append(cells, c)
		}
		if err := setRow(f, nt.Name, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeStatisticsSheet(f *excelize.File, findings []analysis.Finding) error {
	if _, err := f.NewSheet(StatisticsSheet); err != nil {
		return err
	}
	if err := setRow(f, StatisticsSheet, 1, toCells(StatisticsHeaders)); err != nil {
		return err
	}

	for i, finding := range findings {
		var cells []interface{}
		if finding.Err != nil {
			cells = []interface{}{finding.Description + " (" + finding.Reason() + ")", Undefined, Undefined, Undefined}
		} else {
			cells = []interface{}{finding.Description, finding.Result.V, finding.Result.P, finding.Result.DOF}
		}
		if err := setRow(f, StatisticsSheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
