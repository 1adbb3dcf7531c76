package tabular

import (
	"bytes"
	"context"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

// readParquet materializes a parquet file through an arrow table. Arrow
// types outside the four column kinds load as their string rendering.
func readParquet(data []byte) (*table.Table, error) {
	rdr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.ParseError(FormatParquet, err)
	}
	defer rdr.Close()

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, apperrors.ParseError(FormatParquet, err)
	}
	arrowTable, err := fr.ReadTable(context.Background())
	if err != nil {
		return nil, apperrors.ParseError(FormatParquet, err)
	}
	defer arrowTable.Release()

	cols := make([]table.Column, 0, arrowTable.NumCols())
	for i := 0; i < int(arrowTable.NumCols()); i++ {
		col := arrowTable.Column(i)
		cols = append(cols, convertArrowColumn(col.Name(), col.Data().Chunks()))
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, apperrors.ParseError(FormatParquet, err)
	}
	return t, nil
}

func convertArrowColumn(name string, chunks []arrow.Array) table.Column {
	total := 0
	for _, c := range chunks {
		total += c.Len()
	}
	if total == 0 {
		return table.NewCategorical(name, nil, nil)
	}

	switch chunks[0].(type) {
	case *array.Float64, *array.Float32,
		*array.Int64, *array.Int32, *array.Int16, *array.Int8,
		*array.Uint64, *array.Uint32, *array.Uint16, *array.Uint8:
		return arrowNumeric(name, chunks, total)
	case *array.Boolean:
		return arrowBoolean(name, chunks, total)
	case *array.Timestamp, *array.Date32, *array.Date64:
		return arrowDatetime(name, chunks, total)
	default:
		return arrowCategorical(name, chunks, total)
	}
}

func arrowNumeric(name string, chunks []arrow.Array, total int) table.Column {
	values := make([]float64, 0, total)
	missing := make([]bool, 0, total)
	for _, chunk := range chunks {
		for i := 0; i < chunk.Len(); i++ {
			if chunk.IsNull(i) {
				values = append(values, 0)
				missing = append(missing, true)
				continue
			}
			values = append(values, numericAt(chunk, i))
			missing = append(missing, false)
		}
	}
	return table.NewNumeric(name, values, missing)
}

func numericAt(chunk arrow.Array, i int) float64 {
	switch arr := chunk.(type) {
	case *array.Float64:
		return arr.Value(i)
	case *array.Float32:
		return float64(arr.Value(i))
	case *array.Int64:
		return float64(arr.Value(i))
	case *array.Int32:
		return float64(arr.Value(i))
	case *array.Int16:
		return float64(arr.Value(i))
	case *array.Int8:
		return float64(arr.Value(i))
	case *array.Uint64:
		return float64(arr.Value(i))
	case *array.Uint32:
		return float64(arr.Value(i))
	case *array.Uint16:
		return float64(arr.Value(i))
	case *array.Uint8:
		return float64(arr.Value(i))
	default:
		return 0
	}
}

func arrowBoolean(name string, chunks []arrow.Array, total int) table.Column {
	values := make([]bool, 0, total)
	missing := make([]bool, 0, total)
	for _, chunk := range chunks {
		arr := chunk.(*array.Boolean)
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				values = append(values, false)
				missing = append(missing, true)
				continue
			}
			values = append(values, arr.Value(i))
			missing = append(missing, false)
		}
	}
	return table.NewBoolean(name, values, missing)
}

func arrowDatetime(name string, chunks []arrow.Array, total int) table.Column {
	values := make([]time.Time, 0, total)
	missing := make([]bool, 0, total)
	for _, chunk := range chunks {
		for i := 0; i < chunk.Len(); i++ {
			if chunk.IsNull(i) {
				values = append(values, time.Time{})
				missing = append(missing, true)
				continue
			}
			values = append(values, timeAt(chunk, i))
			missing = append(missing, false)
		}
	}
	return table.NewDatetime(name, values, missing)
}

func timeAt(chunk arrow.Array, i int) time.Time {
	switch arr := chunk.(type) {
	case *array.Timestamp:
		unit := arr.DataType().(*arrow.TimestampType).Unit
		return arr.Value(i).ToTime(unit)
	case *array.Date32:
		return arr.Value(i).ToTime()
	case *array.Date64:
		return arr.Value(i).ToTime()
	default:
		return time.Time{}
	}
}

func arrowCategorical(name string, chunks []arrow.Array, total int) table.Column {
	values := make([]string, 0, total)
	missing := make([]bool, 0, total)
	for _, chunk := range chunks {
		for i := 0; i < chunk.Len(); i++ {
			if chunk.IsNull(i) {
				values = append(values, "")
				missing = append(missing, true)
				continue
			}
			values = append(values, chunk.ValueStr(i))
			missing = append(missing, false)
		}
	}
	return table.NewCategorical(name, values, missing)
}
