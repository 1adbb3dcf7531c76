package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zyra/domain/table"
	apperrors "zyra/internal/errors"
)

const sampleCSV = `name,age,active,signup,score
alice,34,true,2024-01-15,88.5
bob,29,false,2024-02-20,91.2
carol,41,yes,2024-03-05,n/a
dan,,no,2024-04-11,79.9
erin,52,true,2024-05-30,85.0
`

func TestLoadCSVInfersKinds(t *testing.T) {
	tbl, err := NewLoader(0).Load([]byte(sampleCSV), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, 5, tbl.NumRows())
	assert.Equal(t, 5, tbl.NumCols())

	name, _ := tbl.Column("name")
	assert.Equal(t, table.KindCategorical, name.Kind)

	age, _ := tbl.Column("age")
	assert.Equal(t, table.KindNumeric, age.Kind)
	assert.True(t, age.IsMissing(3), "empty cell should be missing")

	active, _ := tbl.Column("active")
	assert.Equal(t, table.KindBoolean, active.Kind)
	assert.True(t, active.Bools[2], "yes should read as true")

	signup, _ := tbl.Column("signup")
	assert.Equal(t, table.KindDatetime, signup.Kind)

	score, _ := tbl.Column("score")
	assert.Equal(t, table.KindNumeric, score.Kind, "mostly-numeric column stays numeric")
	assert.True(t, score.IsMissing(2), "stray text in a numeric column becomes missing")
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := NewLoader(0).Load([]byte("x"), "hdf5")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnsupportedFormat, apperrors.GetCode(err))
}

func TestLoadHeaderOnlyCSVIsEmpty(t *testing.T) {
	_, err := NewLoader(0).Load([]byte("a,b,c\n"), FormatCSV)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeEmptyDataset, apperrors.GetCode(err))
}

func TestLoadMalformedJSON(t *testing.T) {
	_, err := NewLoader(0).Load([]byte("{not json"), FormatJSON)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeParseError, apperrors.GetCode(err))
}

func TestLoadJSONRecords(t *testing.T) {
	data := []byte(`[
		{"b": 2, "a": "x", "flag": true},
		{"b": 3.5, "a": "y", "flag": null},
		{"b": null, "a": "z", "flag": false}
	]`)

	tbl, err := NewLoader(0).Load(data, FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "flag"}, tbl.Names(), "keys order lexically")

	b, _ := tbl.Column("b")
	assert.Equal(t, table.KindNumeric, b.Kind)
	assert.True(t, b.IsMissing(2))

	flag, _ := tbl.Column("flag")
	assert.Equal(t, table.KindBoolean, flag.Kind)
	assert.True(t, flag.IsMissing(1))
}

func TestSubsampleIsDeterministic(t *testing.T) {
	rows := "v\n"
	for i := 0; i < 500; i++ {
		rows += "1\n"
	}
	loader := NewLoader(100)

	first, err := loader.Load([]byte(rows), FormatCSV)
	require.NoError(t, err)
	second, err := loader.Load([]byte(rows), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, 100, first.NumRows())
	assert.Equal(t, second.NumRows(), first.NumRows())
}

func TestSubsamplePreservesIdentity(t *testing.T) {
	rows := "v\n"
	for i := 0; i < 300; i++ {
		rows += "1\n"
	}
	tbl, err := NewLoader(1000).Load([]byte(rows), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 300, tbl.NumRows(), "tables under the cap load whole")
}

func TestCSVRoundTrip(t *testing.T) {
	tbl, err := NewLoader(0).Load([]byte(sampleCSV), FormatCSV)
	require.NoError(t, err)

	out, err := NewWriter().Write(tbl, FormatCSV)
	require.NoError(t, err)

	again, err := NewLoader(0).Load(out, FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, tbl.NumRows(), again.NumRows())
	assert.Equal(t, tbl.Names(), again.Names())
	age, _ := again.Column("age")
	assert.Equal(t, table.KindNumeric, age.Kind)
	assert.True(t, age.IsMissing(3), "missing cells survive the round trip")
}

func TestExcelRoundTrip(t *testing.T) {
	tbl, err := NewLoader(0).Load([]byte(sampleCSV), FormatCSV)
	require.NoError(t, err)

	out, err := NewWriter().Write(tbl, FormatXLSX)
	require.NoError(t, err)

	again, err := NewLoader(0).Load(out, FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, tbl.NumRows(), again.NumRows())
	assert.Equal(t, tbl.NumCols(), again.NumCols())
}

func TestWriteParquetUnsupported(t *testing.T) {
	tbl := table.MustNew(table.NewNumeric("x", []float64{1}, nil))

	_, err := NewWriter().Write(tbl, FormatParquet)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnsupportedFormat, apperrors.GetCode(err))
}
