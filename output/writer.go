package output

import (
	"fmt"
	"p6export/table"
	"strings"
)

type Writer interface {
	Format() string
	Extension() string
	Write(path string, t table.Table) error
}

// SupportedFormats lists the canonical format names accepted by WriterForFormat.
var SupportedFormats = []string{"csv", "excel", "sqlite"}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "", "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	case "sqlite", "db":
		return &SQLiteWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func IsSupportedFormat(format string) bool {
	_, err := WriterForFormat(format)
	return err == nil
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
