package measurements

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Measurements"

var exportHeader = []string{"Date", "Type", "Value", "Unit", "Recorded By", "Created At"}

// WriteXLSX exporta records (ya ordenados) a una planilla con una fila por medición.
func WriteXLSX(w io.Writer, babyName string, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := f.SetCellValue(exportSheet, "A1", babyName); err != nil {
		return err
	}

	header := make([]any, 0, len(exportHeader))
	for _, h := range exportHeader {
		header = append(header, h)
	}
	if err := f.SetSheetRow(exportSheet, "A2", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeader), 2)
	if err := f.SetCellStyle(exportSheet, "A2", last, headerStyle); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, m := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		row := []any{
			m.Date.Format("2006-01-02"),
			string(m.Type),
			m.Value,
			m.Type.Unit(),
			m.RecordedBy,
			m.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+3, err)
		}
	}

	for col, width := range map[string]float64{"A": 14, "B": 20, "C": 10, "D": 8, "E": 38, "F": 20} {
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
