package tabular

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

func readExcel(data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.ParseError(FormatXLSX, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.EmptyDataset("workbook has no sheets")
	}

	// First sheet only; multi-sheet workbooks load their primary sheet.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.ParseError(FormatXLSX, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.EmptyDataset("sheet has no header row")
	}
	return buildTable(rows[0], rows[1:])
}

func writeExcel(t *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, t.NumCols())
	for j, name := range t.Names() {
		header[j] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	cols := t.Columns()
	for i := 0; i < t.NumRows(); i++ {
		row := make([]interface{}, len(cols))
		for j, col := range cols {
			if col.IsMissing(i) {
				row[j] = nil
			} else {
				row[j] = col.CellValue(i)
			}
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
