package tabular

import (
	"encoding/json"
	"fmt"
	"sort"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

// readJSON decodes a record-oriented array of flat objects. Keys are
// unioned across records and ordered lexically for determinism.
func readJSON(data []byte) (*table.Table, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.ParseError(FormatJSON, err)
	}
	if len(records) == 0 {
		return nil, apperrors.EmptyDataset("json input has no records")
	}

	keySet := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keySet[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(keySet))
	for k := range keySet {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(headers))
		for j, k := range headers {
			row[j] = jsonCellString(rec[k])
		}
		rows[i] = row
	}
	return buildTable(headers, rows)
}

func jsonCellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return fmt.Sprintf("%v", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		// Nested objects and arrays flatten to their JSON text.
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}

func writeJSON(t *table.Table) ([]byte, error) {
	cols := t.Columns()
	records := make([]map[string]interface{}, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		rec := make(map[string]interface{}, len(cols))
		for _, col := range cols {
			if col.IsMissing(i) {
				rec[col.Name] = nil
			} else {
				rec[col.Name] = col.CellValue(i)
			}
		}
		records[i] = rec
	}
	return json.Marshal(records)
}
