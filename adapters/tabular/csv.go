package tabular

import (
	"bytes"
	"encoding/csv"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

func readCSV(data []byte) (*table.Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // ragged rows pad out as missing cells
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.ParseError(FormatCSV, err)
	}
	if len(records) == 0 {
		return nil, apperrors.EmptyDataset("csv input has no header row")
	}
	return buildTable(records[0], records[1:])
}

func writeCSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Names()); err != nil {
		return nil, err
	}
	cols := t.Columns()
	row := make([]string, len(cols))
	for i := 0; i < t.NumRows(); i++ {
		for j, col := range cols {
			if col.IsMissing(i) {
				row[j] = ""
			} else {
				row[j] = col.CellString(i)
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
