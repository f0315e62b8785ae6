package table

import (
	"fmt"
	"math"
	"strconv"
)

// ValueType defines the storage type for a cell
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeMissing ValueType = "missing"
)

// Value represents a typed cell value
type Value struct {
	Type       ValueType `json:"type"`
	StringVal  *string   `json:"string_val,omitempty"`
	NumericVal *float64  `json:"numeric_val,omitempty"`
}

// NewStringValue creates a string value. Empty strings are kept as strings;
// readers decide whether a blank cell is missing.
func NewStringValue(s string) Value {
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// IsMissing returns true for missing cells
func (v Value) IsMissing() bool {
	return v.Type == ValueTypeMissing || (v.NumericVal == nil && v.StringVal == nil)
}

// IsNumeric returns true if the value represents a number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric && v.NumericVal != nil
}

// IsString returns true if the value represents a string
func (v Value) IsString() bool {
	return v.Type == ValueTypeString && v.StringVal != nil
}

// AsFloat64 returns the numeric value, or NaN if not numeric
func (v Value) AsFloat64() float64 {
	if v.IsNumeric() {
		return *v.NumericVal
	}
	return math.NaN()
}

// AsString returns the string value, or empty string if not a string
func (v Value) AsString() string {
	if v.IsString() {
		return *v.StringVal
	}
	return ""
}

// String returns the string representation of the value
func (v Value) String() string {
	switch {
	case v.IsNumeric():
		return strconv.FormatFloat(*v.NumericVal, 'g', -1, 64)
	case v.IsString():
		return *v.StringVal
	default:
		return "<missing>"
	}
}

// Interface returns the cell as float64, string or nil.
func (v Value) Interface() interface{} {
	switch {
	case v.IsNumeric():
		return *v.NumericVal
	case v.IsString():
		return *v.StringVal
	default:
		return nil
	}
}

// Equal compares two cells. NaN is equal to NaN.
func (v Value) Equal(o Value) bool {
	switch {
	case v.IsNumeric() && o.IsNumeric():
		a, b := *v.NumericVal, *o.NumericVal
		return a == b || (math.IsNaN(a) && math.IsNaN(b))
	case v.IsString() && o.IsString():
		return *v.StringVal == *o.StringVal
	default:
		return v.IsMissing() && o.IsMissing()
	}
}

// key encodes the value for hashing; two values with equal keys are Equal.
func (v Value) key() string {
	switch {
	case v.IsNumeric():
		f := *v.NumericVal
		if math.IsNaN(f) {
			return "n:NaN"
		}
		if f == 0 {
			f = 0 // folds -0 onto +0
		}
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	case v.IsString():
		return "s:" + *v.StringVal
	default:
		return "m:"
	}
}

// Row is an ordered list of cells aligned with Table.Columns
type Row []Value

// Key returns a string that is identical for rows whose cells are all Equal.
func (r Row) Key() string {
	b := make([]byte, 0, len(r)*8)
	for i, v := range r {
		if i > 0 {
			b = append(b, 0x1f)
		}
		k := v.key()
		b = strconv.AppendInt(b, int64(len(k)), 10)
		b = append(b, ':')
		b = append(b, k...)
	}
	return string(b)
}

// Kind classifies a whole column
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindString  Kind = "string"
)

// Table is an in-memory, row-oriented table with named columns
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// New builds a table, rejecting duplicate column names and rows whose width
// differs from the column count.
func New(columns []string, rows []Row) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(r), len(columns))
		}
	}
	return &Table{Columns: columns, Rows: rows, index: index}, nil
}

// MustNew is New for literals in tests and fixtures
func MustNew(columns []string, rows []Row) *Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		for i, c := range t.Columns {
			if c == name {
				return i, true
			}
		}
		return 0, false
	}
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Kind returns KindNumeric when no cell of the column is a string. An
// all-missing column is numeric.
func (t *Table) Kind(col int) Kind {
	for _, r := range t.Rows {
		if r[col].IsString() {
			return KindString
		}
	}
	return KindNumeric
}

// IsNumericColumn reports whether the named column exists and is numeric
func (t *Table) IsNumericColumn(name string) bool {
	i, ok := t.ColumnIndex(name)
	return ok && t.Kind(i) == KindNumeric
}

// Column returns a copy of the named column's cells
func (t *Table) Column(name string) ([]Value, bool) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, true
}

// Clone copies the column list and every row. Cells are never mutated in place,
// so they are shared.
func (t *Table) Clone() *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append(Row(nil), r...)
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	return &Table{Columns: cols, Rows: rows, index: index}
}
