package output

import (
	"fmt"
	"p6export/table"

	"github.com/xuri/excelize/v2"
)

// maxSheetNameLength is Excel's limit on worksheet names.
const maxSheetNameLength = 31

type ExcelWriter struct{}

func (w *ExcelWriter) Format() string {
	return "excel"
}

func (w *ExcelWriter) Extension() string {
	return ".xlsx"
}

// Write stores every cell as text so identifiers and decimals keep the exact
// rendering they have in the CSV artifact.
func (w *ExcelWriter) Write(path string, t table.Table) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := sheetName(t.Name)
	if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename excel sheet %s: %w", sheet, err)
	}

	for col, header := range t.Header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellStr(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range t.Rows {
		row := i + 2
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellStr(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

func sheetName(name string) string {
	if name == "" {
		return "Sheet1"
	}
	if len(name) > maxSheetNameLength {
		return name[:maxSheetNameLength]
	}
	return name
}
