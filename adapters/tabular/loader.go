// Package tabular materializes Tables from raw bytes in the supported
// encodings and serializes Tables back out. Loading is a pure function of
// bytes plus declared format.
package tabular

import (
	"math/rand"
	"sort"
	"strings"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

// Supported file types.
const (
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatXLS     = "xls"
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// subsampleSeed fixes the row sample so repeated loads of the same input
// produce the same table.
const subsampleSeed = 42

// Loader decodes raw bytes into a Table, bounding row count.
type Loader struct {
	maxRows int
}

// NewLoader creates a loader. maxRows <= 0 disables subsampling.
func NewLoader(maxRows int) *Loader {
	return &Loader{maxRows: maxRows}
}

// Load dispatches on the declared file type and returns a typed table.
func (l *Loader) Load(data []byte, fileType string) (*table.Table, error) {
	var (
		t   *table.Table
		err error
	)
	switch strings.ToLower(fileType) {
	case FormatCSV:
		t, err = readCSV(data)
	case FormatXLSX, FormatXLS:
		t, err = readExcel(data)
	case FormatJSON:
		t, err = readJSON(data)
	case FormatParquet:
		t, err = readParquet(data)
	default:
		return nil, apperrors.UnsupportedFormat(fileType)
	}
	if err != nil {
		return nil, err
	}
	if t.NumRows() == 0 {
		return nil, apperrors.EmptyDataset("dataset contains no rows")
	}
	return l.subsample(t), nil
}

// subsample bounds the table to maxRows with a fixed-seed sample that
// preserves the original row order.
func (l *Loader) subsample(t *table.Table) *table.Table {
	if l.maxRows <= 0 || t.NumRows() <= l.maxRows {
		return t
	}
	rng := rand.New(rand.NewSource(subsampleSeed))
	picked := rng.Perm(t.NumRows())[:l.maxRows]
	sort.Ints(picked)

	keep := make([]bool, t.NumRows())
	for _, i := range picked {
		keep[i] = true
	}
	return t.FilterRows(keep)
}
