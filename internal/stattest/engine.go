package stattest

import (
	apperrors "zyra/internal/errors"

	"zyra/domain/table"
)

// Engine dispatches test requests. Stateless and safe for concurrent use.
type Engine struct{}

// NewEngine creates an engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Run validates the request against the table and executes the test.
// A failure aborts the whole request; partial results are never returned.
func (e *Engine) Run(t *table.Table, req Request) (*Result, error) {
	if req.Alpha == 0 {
		req.Alpha = DefaultAlpha
	}
	if req.Alpha <= 0 || req.Alpha >= 1 {
		return nil, apperrors.InvalidInput("alpha must be in (0, 1)")
	}

	switch req.TestType {
	case TestTTest:
		cols, err := e.numericColumns(t, req, 2, 2)
		if err != nil {
			return nil, err
		}
		return twoSampleCompare(cols[0], cols[1], req.Alpha)
	case TestChiSquare:
		cols, err := e.categoricalColumns(t, req, 2, 2)
		if err != nil {
			return nil, err
		}
		return chiSquareIndependence(cols[0], cols[1], req.Alpha)
	case TestANOVA:
		cols, err := e.numericColumns(t, req, 2, 0)
		if err != nil {
			return nil, err
		}
		return oneWayANOVA(cols, req.Alpha)
	case TestCorrelation:
		cols, err := e.numericColumns(t, req, 2, 0)
		if err != nil {
			return nil, err
		}
		return correlationSignificance(cols, req.Alpha)
	case TestNormality:
		cols, err := e.numericColumns(t, req, 1, 0)
		if err != nil {
			return nil, err
		}
		return normalityAssessment(cols, req.Alpha)
	case TestMannWhitney:
		cols, err := e.numericColumns(t, req, 2, 2)
		if err != nil {
			return nil, err
		}
		return mannWhitneyCompare(cols[0], cols[1], req.Alpha)
	default:
		return nil, apperrors.UnsupportedTest(string(req.TestType))
	}
}

// numericColumns resolves and validates numeric test columns. max 0 means
// unbounded.
func (e *Engine) numericColumns(t *table.Table, req Request, min, max int) ([]table.Column, error) {
	if err := checkCount(req, min, max); err != nil {
		return nil, err
	}
	cols := make([]table.Column, 0, len(req.Columns))
	for _, name := range req.Columns {
		col, ok := t.Column(name)
		if !ok {
			return nil, apperrors.MissingColumn(name)
		}
		if !col.IsNumeric() {
			return nil, apperrors.InvalidInput("column \"" + name + "\" is not numeric")
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func (e *Engine) categoricalColumns(t *table.Table, req Request, min, max int) ([]table.Column, error) {
	if err := checkCount(req, min, max); err != nil {
		return nil, err
	}
	cols := make([]table.Column, 0, len(req.Columns))
	for _, name := range req.Columns {
		col, ok := t.Column(name)
		if !ok {
			return nil, apperrors.MissingColumn(name)
		}
		if col.Kind != table.KindCategorical && col.Kind != table.KindBoolean {
			return nil, apperrors.InvalidInput("column \"" + name + "\" is not categorical")
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func checkCount(req Request, min, max int) error {
	n := len(req.Columns)
	if max > 0 && min == max && n != min {
		return apperrors.InvalidColumnCount(string(req.TestType), "exactly 2", n)
	}
	if n < min {
		return apperrors.InvalidColumnCount(string(req.TestType), atLeast(min), n)
	}
	return nil
}

func atLeast(n int) string {
	if n == 1 {
		return "at least 1"
	}
	return "at least 2"
}
