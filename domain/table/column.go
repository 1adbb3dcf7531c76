package table

import (
	"math"
	"strconv"
	"time"
)

// Kind identifies the declared type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindBoolean     Kind = "boolean"
	KindDatetime    Kind = "datetime"
)

// Column is one named, typed value sequence. Only the slice matching Kind is
// populated; Missing marks absent cells, which is distinct from zero or "".
type Column struct {
	Name    string
	Kind    Kind
	Numbers []float64
	Strings []string
	Bools   []bool
	Times   []time.Time
	Missing []bool
}

// NewNumeric builds a numeric column. A nil missing bitmap means all present.
func NewNumeric(name string, values []float64, missing []bool) Column {
	return Column{Name: name, Kind: KindNumeric, Numbers: values, Missing: normalizeMissing(missing, len(values))}
}

// NewCategorical builds a categorical/text column.
func NewCategorical(name string, values []string, missing []bool) Column {
	return Column{Name: name, Kind: KindCategorical, Strings: values, Missing: normalizeMissing(missing, len(values))}
}

// NewBoolean builds a boolean column.
func NewBoolean(name string, values []bool, missing []bool) Column {
	return Column{Name: name, Kind: KindBoolean, Bools: values, Missing: normalizeMissing(missing, len(values))}
}

// NewDatetime builds a datetime column.
func NewDatetime(name string, values []time.Time, missing []bool) Column {
	return Column{Name: name, Kind: KindDatetime, Times: values, Missing: normalizeMissing(missing, len(values))}
}

func normalizeMissing(missing []bool, n int) []bool {
	if missing == nil {
		return make([]bool, n)
	}
	return missing
}

// Len returns the row count.
func (c Column) Len() int {
	return len(c.Missing)
}

// IsMissing reports whether the cell at row i is absent.
func (c Column) IsMissing(i int) bool {
	return c.Missing[i]
}

// MissingCount returns the number of absent cells.
func (c Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// IsNumeric reports whether values can be treated as float64 samples.
// Boolean columns qualify (false=0, true=1), matching how the encoders
// and correlation engine consume them.
func (c Column) IsNumeric() bool {
	return c.Kind == KindNumeric || c.Kind == KindBoolean
}

// Float returns the numeric value at row i. Callers must check IsMissing
// first; missing cells return NaN so an unchecked read cannot masquerade
// as a real observation.
func (c Column) Float(i int) float64 {
	if c.Missing[i] {
		return math.NaN()
	}
	switch c.Kind {
	case KindNumeric:
		return c.Numbers[i]
	case KindBoolean:
		if c.Bools[i] {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

// FloatValues returns all present numeric values in row order.
func (c Column) FloatValues() []float64 {
	out := make([]float64, 0, c.Len())
	for i := range c.Missing {
		if c.Missing[i] {
			continue
		}
		out = append(out, c.Float(i))
	}
	return out
}

// StringValues returns all present categorical values in row order.
func (c Column) StringValues() []string {
	out := make([]string, 0, c.Len())
	for i := range c.Missing {
		if !c.Missing[i] && c.Kind == KindCategorical {
			out = append(out, c.Strings[i])
		}
	}
	return out
}

// UniqueCount counts distinct present values.
func (c Column) UniqueCount() int {
	seen := make(map[string]struct{})
	for i := range c.Missing {
		if c.Missing[i] {
			continue
		}
		seen[c.CellString(i)] = struct{}{}
	}
	return len(seen)
}

// CellString renders the cell at row i for export and row fingerprinting.
// Missing cells render as the empty string.
func (c Column) CellString(i int) string {
	if c.Missing[i] {
		return ""
	}
	switch c.Kind {
	case KindNumeric:
		return strconv.FormatFloat(c.Numbers[i], 'g', -1, 64)
	case KindCategorical:
		return c.Strings[i]
	case KindBoolean:
		return strconv.FormatBool(c.Bools[i])
	case KindDatetime:
		return c.Times[i].Format(time.RFC3339)
	}
	return ""
}

// CellValue returns the cell as a JSON-serializable value, nil when missing.
func (c Column) CellValue(i int) interface{} {
	if c.Missing[i] {
		return nil
	}
	switch c.Kind {
	case KindNumeric:
		return c.Numbers[i]
	case KindCategorical:
		return c.Strings[i]
	case KindBoolean:
		return c.Bools[i]
	case KindDatetime:
		return c.Times[i].Format(time.RFC3339)
	}
	return nil
}

// Clone deep-copies the column so mutating transformations cannot leak
// changes into the table they derived from.
func (c Column) Clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	out.Missing = append([]bool(nil), c.Missing...)
	switch c.Kind {
	case KindNumeric:
		out.Numbers = append([]float64(nil), c.Numbers...)
	case KindCategorical:
		out.Strings = append([]string(nil), c.Strings...)
	case KindBoolean:
		out.Bools = append([]bool(nil), c.Bools...)
	case KindDatetime:
		out.Times = append([]time.Time(nil), c.Times...)
	}
	return out
}

// Filter returns a copy containing only rows where keep[i] is true.
func (c Column) Filter(keep []bool) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	for i := range c.Missing {
		if !keep[i] {
			continue
		}
		out.Missing = append(out.Missing, c.Missing[i])
		switch c.Kind {
		case KindNumeric:
			out.Numbers = append(out.Numbers, c.Numbers[i])
		case KindCategorical:
			out.Strings = append(out.Strings, c.Strings[i])
		case KindBoolean:
			out.Bools = append(out.Bools, c.Bools[i])
		case KindDatetime:
			out.Times = append(out.Times, c.Times[i])
		}
	}
	return out
}
