package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"zyra/domain/table"
)

// datetimeLayouts are tried in order when classifying a column.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// numericThreshold is the fraction of parseable cells required before a
// column is declared numeric; the remaining stray text becomes missing.
const numericThreshold = 0.8

var booleanTokens = map[string]bool{
	"true": true, "false": false,
	"yes": true, "no": false,
	"y": true, "n": false,
}

// buildTable converts raw string cells into a typed table. Empty cells
// are missing; a declared-numeric column converts unparseable cells to
// missing rather than failing the load.
func buildTable(headers []string, rows [][]string) (*table.Table, error) {
	headers = dedupeHeaders(headers)
	cols := make([]table.Column, 0, len(headers))
	for j, name := range headers {
		values := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				values[i] = strings.TrimSpace(row[j])
			}
		}
		cols = append(cols, inferColumn(name, values))
	}
	return table.New(cols...)
}

// dedupeHeaders keeps column names unique, suffixing repeats.
func dedupeHeaders(headers []string) []string {
	seen := make(map[string]int)
	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		}
		seen[h] = 1
		out[i] = h
	}
	return out
}

func inferColumn(name string, values []string) table.Column {
	present := 0
	booleans := 0
	numerics := 0
	datetimes := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		present++
		if _, ok := booleanTokens[strings.ToLower(v)]; ok {
			booleans++
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			numerics++
		}
		if _, ok := parseDatetime(v); ok {
			datetimes++
		}
	}

	if present == 0 {
		return table.NewCategorical(name, values, allMissing(len(values)))
	}

	switch {
	case booleans == present:
		return booleanColumn(name, values)
	case datetimes == present && numerics < present:
		return datetimeColumn(name, values)
	case float64(numerics)/float64(present) >= numericThreshold:
		return numericColumn(name, values)
	default:
		return categoricalColumn(name, values)
	}
}

func parseDatetime(v string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func booleanColumn(name string, values []string) table.Column {
	out := make([]bool, len(values))
	missing := make([]bool, len(values))
	for i, v := range values {
		if v == "" {
			missing[i] = true
			continue
		}
		out[i] = booleanTokens[strings.ToLower(v)]
	}
	return table.NewBoolean(name, out, missing)
}

func datetimeColumn(name string, values []string) table.Column {
	out := make([]time.Time, len(values))
	missing := make([]bool, len(values))
	for i, v := range values {
		ts, ok := parseDatetime(v)
		if v == "" || !ok {
			missing[i] = true
			continue
		}
		out[i] = ts
	}
	return table.NewDatetime(name, out, missing)
}

func numericColumn(name string, values []string) table.Column {
	out := make([]float64, len(values))
	missing := make([]bool, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if v == "" || err != nil {
			missing[i] = true
			continue
		}
		out[i] = f
	}
	return table.NewNumeric(name, out, missing)
}

func categoricalColumn(name string, values []string) table.Column {
	missing := make([]bool, len(values))
	for i, v := range values {
		missing[i] = v == ""
	}
	return table.NewCategorical(name, values, missing)
}

func allMissing(n int) []bool {
	missing := make([]bool, n)
	for i := range missing {
		missing[i] = true
	}
	return missing
}
