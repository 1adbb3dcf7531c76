package tabular

import (
	"strings"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

// Writer serializes a table back to bytes.
type Writer struct{}

// NewWriter creates a writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write serializes the table in the requested format. Parquet output is
// not supported; loads come in through parquet, cleaned exports go out as
// one of the row-oriented formats.
func (w *Writer) Write(t *table.Table, fileType string) ([]byte, error) {
	switch strings.ToLower(fileType) {
	case FormatCSV:
		return writeCSV(t)
	case FormatXLSX, FormatXLS:
		return writeExcel(t)
	case FormatJSON:
		return writeJSON(t)
	default:
		return nil, apperrors.UnsupportedFormat(fileType)
	}
}
