package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"p6export/table"
)

type CSVWriter struct{}

func (w *CSVWriter) Format() string {
	return "csv"
}

func (w *CSVWriter) Extension() string {
	return ".csv"
}

func (w *CSVWriter) Write(path string, t table.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return file.Close()
}
