package pipeline

import (
	"fmt"
	"math"
	"sort"

	"zyra/domain/table"
	"zyra/internal/profiling"
)

func removeOutliersStep(t *table.Table, step Step) (*table.Table, map[string]interface{}, error) {
	cols, err := resolveColumns(t, step.Columns, table.Column.IsNumeric)
	if err != nil {
		return nil, nil, err
	}

	method := step.Method
	if method == "" {
		method = "iqr"
	}
	var flagged []bool
	switch method {
	case "iqr":
		flagged = flagOutliersIQR(t, cols)
	case "zscore":
		flagged = flagOutliersZScore(t, cols, 3)
	case "isolation":
		flagged = flagOutliersIsolation(t, cols, 0.1)
	default:
		return nil, nil, fmt.Errorf("unknown outlier method %q", method)
	}

	keep := make([]bool, t.NumRows())
	removed := 0
	for i := range keep {
		keep[i] = !flagged[i]
		if flagged[i] {
			removed++
		}
	}
	return t.FilterRows(keep), map[string]interface{}{
		"method":       method,
		"rows_removed": removed,
	}, nil
}

func handleMissingStep(t *table.Table, step Step) (*table.Table, map[string]interface{}, error) {
	strategy := step.Strategy
	if strategy == "" {
		strategy = "drop"
	}
	before := t.MissingCellCount()

	switch strategy {
	case "drop":
		selected, err := resolveColumns(t, step.Columns, nil)
		if err != nil {
			return nil, nil, err
		}
		keep := make([]bool, t.NumRows())
		for i := range keep {
			keep[i] = true
			for _, c := range selected {
				if c.IsMissing(i) {
					keep[i] = false
					break
				}
			}
		}
		next := t.FilterRows(keep)
		return next, map[string]interface{}{
			"strategy":               strategy,
			"missing_values_handled": before - next.MissingCellCount(),
		}, nil

	case "mean", "median":
		// Numeric-only strategies leave other columns untouched.
		selected, err := resolveColumns(t, step.Columns, table.Column.IsNumeric)
		if err != nil {
			return nil, nil, err
		}
		next := t
		for _, c := range selected {
			values := c.FloatValues()
			if len(values) == 0 {
				continue
			}
			var fill float64
			if strategy == "mean" {
				for _, v := range values {
					fill += v
				}
				fill /= float64(len(values))
			} else {
				fill, _ = profiling.Quantile(values, 0.5)
			}
			next, err = fillNumeric(next, c.Name, fill)
			if err != nil {
				return nil, nil, err
			}
		}
		return next, map[string]interface{}{
			"strategy":               strategy,
			"missing_values_handled": before - next.MissingCellCount(),
		}, nil

	case "mode":
		selected, err := resolveColumns(t, step.Columns, nil)
		if err != nil {
			return nil, nil, err
		}
		next := t
		for _, c := range selected {
			next, err = fillMode(next, c)
			if err != nil {
				return nil, nil, err
			}
		}
		return next, map[string]interface{}{
			"strategy":               strategy,
			"missing_values_handled": before - next.MissingCellCount(),
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown missing-value strategy %q", strategy)
	}
}

func fillNumeric(t *table.Table, name string, fill float64) (*table.Table, error) {
	c, _ := t.Column(name)
	if c.Kind != table.KindNumeric && c.Kind != table.KindBoolean {
		return t, nil
	}
	if c.Kind == table.KindBoolean {
		// Boolean columns take the rounded fill.
		clone := c.Clone()
		for i := range clone.Missing {
			if clone.Missing[i] {
				clone.Bools[i] = fill >= 0.5
				clone.Missing[i] = false
			}
		}
		return t.ReplaceColumn(clone)
	}
	clone := c.Clone()
	for i := range clone.Missing {
		if clone.Missing[i] {
			clone.Numbers[i] = fill
			clone.Missing[i] = false
		}
	}
	return t.ReplaceColumn(clone)
}

func fillMode(t *table.Table, c table.Column) (*table.Table, error) {
	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			counts[c.CellString(i)]++
		}
	}
	if len(counts) == 0 {
		return t, nil
	}
	best, bestN := "", -1
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}

	clone := c.Clone()
	for i := range clone.Missing {
		if !clone.Missing[i] {
			continue
		}
		switch clone.Kind {
		case table.KindNumeric:
			var v float64
			fmt.Sscanf(best, "%g", &v)
			clone.Numbers[i] = v
		case table.KindCategorical:
			clone.Strings[i] = best
		case table.KindBoolean:
			clone.Bools[i] = best == "true"
		case table.KindDatetime:
			continue // no sensible mode fill for timestamps
		}
		clone.Missing[i] = false
	}
	return t.ReplaceColumn(clone)
}

func encodeCategoricalStep(t *table.Table, step Step) (*table.Table, map[string]interface{}, error) {
	method := step.Method
	if method == "" {
		method = "label"
	}
	if method != "label" && method != "onehot" {
		return nil, nil, fmt.Errorf("unknown encoding method %q", method)
	}

	// Already-numeric columns pass through untouched, which makes label
	// encoding idempotent.
	selected, err := resolveColumns(t, step.Columns, func(c table.Column) bool {
		return c.Kind == table.KindCategorical
	})
	if err != nil {
		return nil, nil, err
	}

	next := t
	var encoded []string
	var created []string
	for _, c := range selected {
		if method == "label" {
			next, err = labelEncode(next, c)
			if err != nil {
				return nil, nil, err
			}
		} else {
			var newCols []string
			next, newCols, err = oneHotEncode(next, c)
			if err != nil {
				return nil, nil, err
			}
			created = append(created, newCols...)
		}
		encoded = append(encoded, c.Name)
	}

	details := map[string]interface{}{
		"method":          method,
		"encoded_columns": encoded,
	}
	if method == "onehot" {
		details["created_columns"] = created
	}
	return next, details, nil
}

// labelEncode assigns integer codes in lexical category order so repeated
// runs produce identical codes.
func labelEncode(t *table.Table, c table.Column) (*table.Table, error) {
	cats := sortedCategories(c)
	code := make(map[string]float64, len(cats))
	for i, cat := range cats {
		code[cat] = float64(i)
	}
	values := make([]float64, c.Len())
	missing := make([]bool, c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			missing[i] = true
			continue
		}
		values[i] = code[c.Strings[i]]
	}
	return t.ReplaceColumn(table.NewNumeric(c.Name, values, missing))
}

// oneHotEncode expands into one boolean column per category minus the
// first (lexically), then removes the source column.
func oneHotEncode(t *table.Table, c table.Column) (*table.Table, []string, error) {
	cats := sortedCategories(c)
	if len(cats) > 1 {
		cats = cats[1:] // drop first to avoid the redundant indicator
	}
	next := t
	var created []string
	for _, cat := range cats {
		name := c.Name + "_" + cat
		values := make([]bool, c.Len())
		for i := 0; i < c.Len(); i++ {
			values[i] = !c.IsMissing(i) && c.Strings[i] == cat
		}
		var err error
		next, err = next.AppendColumn(table.NewBoolean(name, values, nil))
		if err != nil {
			return nil, nil, err
		}
		created = append(created, name)
	}
	return next.DropColumns(c.Name), created, nil
}

func sortedCategories(c table.Column) []string {
	set := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			set[c.Strings[i]] = struct{}{}
		}
	}
	cats := make([]string, 0, len(set))
	for cat := range set {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

func scaleFeaturesStep(t *table.Table, step Step) (*table.Table, map[string]interface{}, error) {
	method := step.Method
	if method == "" {
		method = "standard"
	}
	selected, err := resolveColumns(t, step.Columns, func(c table.Column) bool {
		return c.Kind == table.KindNumeric
	})
	if err != nil {
		return nil, nil, err
	}

	next := t
	var scaled []string
	for _, c := range selected {
		values := c.FloatValues()
		if len(values) == 0 {
			continue
		}
		var center, spread float64
		switch method {
		case "standard":
			center = meanOf(values)
			spread = stdOf(values)
		case "minmax":
			lo, hi := minMax(values)
			center, spread = lo, hi-lo
		case "robust":
			center, _ = profiling.Quantile(values, 0.5)
			q1, _ := profiling.Quantile(values, 0.25)
			q3, _ := profiling.Quantile(values, 0.75)
			spread = q3 - q1
		default:
			return nil, nil, fmt.Errorf("unknown scaling method %q", method)
		}
		if spread == 0 {
			spread = 1 // constant columns scale to zero, not to infinity
		}

		clone := c.Clone()
		for i := range clone.Numbers {
			if !clone.Missing[i] {
				clone.Numbers[i] = (clone.Numbers[i] - center) / spread
			}
		}
		next, err = next.ReplaceColumn(clone)
		if err != nil {
			return nil, nil, err
		}
		scaled = append(scaled, c.Name)
	}
	return next, map[string]interface{}{
		"method":         method,
		"scaled_columns": scaled,
	}, nil
}

func createFeaturesStep(t *table.Table, step Step) (*table.Table, map[string]interface{}, error) {
	featureType := step.FeatureType
	if featureType == "" {
		featureType = "polynomial"
	}
	selected, err := resolveColumns(t, step.Columns, func(c table.Column) bool {
		return c.Kind == table.KindNumeric
	})
	if err != nil {
		return nil, nil, err
	}

	next := t
	var created []string
	switch featureType {
	case "polynomial":
		for _, c := range selected {
			name := c.Name + "_squared"
			values := make([]float64, c.Len())
			missing := make([]bool, c.Len())
			for i := 0; i < c.Len(); i++ {
				if c.IsMissing(i) {
					missing[i] = true
					continue
				}
				values[i] = c.Numbers[i] * c.Numbers[i]
			}
			next, err = next.AppendColumn(table.NewNumeric(name, values, missing))
			if err != nil {
				return nil, nil, err
			}
			created = append(created, name)
		}
	case "interaction":
		for i := 0; i < len(selected); i++ {
			for j := i + 1; j < len(selected); j++ {
				a, b := selected[i], selected[j]
				name := a.Name + "_x_" + b.Name
				values := make([]float64, a.Len())
				missing := make([]bool, a.Len())
				for r := 0; r < a.Len(); r++ {
					if a.IsMissing(r) || b.IsMissing(r) {
						missing[r] = true
						continue
					}
					values[r] = a.Numbers[r] * b.Numbers[r]
				}
				next, err = next.AppendColumn(table.NewNumeric(name, values, missing))
				if err != nil {
					return nil, nil, err
				}
				created = append(created, name)
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown feature type %q", featureType)
	}

	return next, map[string]interface{}{
		"feature_type":     featureType,
		"created_features": created,
	}, nil
}

// selectFeaturesStep drops one column from every pair correlated above
// 0.95. Pairs are visited in column order and the later column is dropped,
// so elimination is deterministic. The target column is never dropped.
func selectFeaturesStep(t *table.Table, step Step) (*table.Table, map[string]interface{}, error) {
	if step.Method != "" && step.Method != "correlation" {
		return nil, nil, fmt.Errorf("unknown selection method %q", step.Method)
	}
	if step.TargetColumn != "" && !t.Has(step.TargetColumn) {
		return nil, nil, fmt.Errorf("target column %q not found", step.TargetColumn)
	}

	numeric := t.NumericColumns()
	dropped := make(map[string]bool)
	for i := 0; i < len(numeric); i++ {
		if dropped[numeric[i].Name] {
			continue
		}
		for j := i + 1; j < len(numeric); j++ {
			if dropped[numeric[j].Name] || numeric[j].Name == step.TargetColumn {
				continue
			}
			r, ok := pairwisePearson(numeric[i], numeric[j])
			if ok && math.Abs(r) > 0.95 {
				dropped[numeric[j].Name] = true
			}
		}
	}

	names := make([]string, 0, len(dropped))
	for name := range dropped {
		names = append(names, name)
	}
	sort.Strings(names)
	return t.DropColumns(names...), map[string]interface{}{
		"method":          "correlation",
		"dropped_columns": names,
	}, nil
}

func transformSkewedStep(t *table.Table, step Step) (*table.Table, map[string]interface{}, error) {
	method := step.Method
	if method == "" {
		method = "log"
	}
	if method != "log" && method != "sqrt" {
		return nil, nil, fmt.Errorf("unknown skew transform %q", method)
	}
	selected, err := resolveColumns(t, step.Columns, func(c table.Column) bool {
		return c.Kind == table.KindNumeric
	})
	if err != nil {
		return nil, nil, err
	}

	next := t
	var transformed []string
	for _, c := range selected {
		values := c.FloatValues()
		if len(values) == 0 {
			continue
		}
		lo, _ := minMax(values)

		clone := c.Clone()
		for i := range clone.Numbers {
			if clone.Missing[i] {
				continue
			}
			// Shift guarantees a positive domain for both transforms.
			shifted := clone.Numbers[i] - lo + 1
			if method == "log" {
				clone.Numbers[i] = math.Log(shifted)
			} else {
				clone.Numbers[i] = math.Sqrt(shifted)
			}
		}
		next, err = next.ReplaceColumn(clone)
		if err != nil {
			return nil, nil, err
		}
		transformed = append(transformed, c.Name)
	}
	return next, map[string]interface{}{
		"method":              method,
		"transformed_columns": transformed,
	}, nil
}

func meanOf(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s / float64(len(values))
}

func stdOf(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := meanOf(values)
	var s float64
	for _, v := range values {
		s += (v - m) * (v - m)
	}
	return math.Sqrt(s / float64(len(values)-1))
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func pairwisePearson(a, b table.Column) (float64, bool) {
	var xs, ys []float64
	for i := 0; i < a.Len(); i++ {
		if a.IsMissing(i) || b.IsMissing(i) {
			continue
		}
		xs = append(xs, a.Float(i))
		ys = append(ys, b.Float(i))
	}
	if len(xs) < 2 {
		return 0, false
	}
	mx, my := meanOf(xs), meanOf(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0, false
	}
	return cov / math.Sqrt(vx*vy), true
}
