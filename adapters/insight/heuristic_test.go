package insight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zyra/ports"
)

func TestHeuristicGeneratorFlagsQualityProblems(t *testing.T) {
	g := NewHeuristicGenerator()
	require.True(t, g.Available())

	set, err := g.Generate(context.Background(), ports.InsightRequest{
		DatasetName:     "orders",
		RowCount:        1000,
		ColumnCount:     12,
		MissingRatio:    0.3,
		DuplicateRows:   40,
		QualityScore:    55,
		ConstantColumns: []string{"region_code"},
		TopCorrelations: []ports.CorrelatedPair{
			{ColumnA: "price", ColumnB: "total", Correlation: 0.97},
		},
	})
	require.NoError(t, err)

	kinds := map[string]int{}
	for _, f := range set.Findings {
		kinds[f.Kind]++
	}
	assert.GreaterOrEqual(t, kinds["data_quality"], 2)
	assert.GreaterOrEqual(t, kinds["structure"], 1)
	assert.GreaterOrEqual(t, kinds["correlation"], 1)
	assert.NotEmpty(t, set.Recommendations)
	assert.Contains(t, set.Summary, "poor")
	assert.Equal(t, "heuristic", set.Generator)
}

func TestHeuristicGeneratorCleanDataset(t *testing.T) {
	set, err := NewHeuristicGenerator().Generate(context.Background(), ports.InsightRequest{
		RowCount:     200,
		ColumnCount:  4,
		QualityScore: 100,
	})
	require.NoError(t, err)

	assert.Empty(t, set.Findings)
	assert.Contains(t, set.Summary, "good")
}

func TestUnavailableGenerator(t *testing.T) {
	var g Unavailable
	assert.False(t, g.Available())

	_, err := g.Generate(context.Background(), ports.InsightRequest{})
	assert.Error(t, err)
}
