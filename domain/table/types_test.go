package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"same number", NewNumericValue(1.5), NewNumericValue(1.5), true},
		{"NaN equals NaN", NewNumericValue(math.NaN()), NewNumericValue(math.NaN()), true},
		{"signed zeros", NewNumericValue(0), NewNumericValue(math.Copysign(0, -1)), true},
		{"number vs text", NewNumericValue(1), NewStringValue("1"), false},
		{"same text", NewStringValue("CA"), NewStringValue("CA"), true},
		{"missing", NewMissingValue(), Value{}, true},
		{"missing vs empty text", NewMissingValue(), NewStringValue(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, Row{tt.a}.Key() == Row{tt.b}.Key())
		})
	}
}

func TestRowKeyIsUnambiguous(t *testing.T) {
	a := Row{NewStringValue("a\x1f1:s:b")}
	b := Row{NewStringValue("a"), NewStringValue("b")}
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestValueAccessors(t *testing.T) {
	assert.True(t, math.IsNaN(NewStringValue("x").AsFloat64()))
	assert.Equal(t, "", NewNumericValue(3).AsString())
	assert.Equal(t, "3", NewNumericValue(3).String())
	assert.Equal(t, "<missing>", NewMissingValue().String())
	assert.Nil(t, NewMissingValue().Interface())
	assert.Equal(t, "CA", NewStringValue("CA").Interface())
}

func TestNewRejectsMalformedTables(t *testing.T) {
	_, err := New([]string{"a", "a"}, nil)
	assert.Error(t, err)

	_, err = New([]string{"a", "b"}, []Row{{NewMissingValue()}})
	assert.Error(t, err)
}

func TestKind(t *testing.T) {
	tbl := MustNew([]string{"n", "s", "empty"}, []Row{
		{NewNumericValue(1), NewStringValue("x"), NewMissingValue()},
		{NewMissingValue(), NewNumericValue(2), NewMissingValue()},
	})

	assert.True(t, tbl.IsNumericColumn("n"))
	assert.False(t, tbl.IsNumericColumn("s"))
	assert.True(t, tbl.IsNumericColumn("empty"))
	assert.False(t, tbl.IsNumericColumn("absent"))
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := MustNew([]string{"a"}, []Row{{NewNumericValue(1)}})
	clone := tbl.Clone()

	clone.Rows[0][0] = NewNumericValue(2)
	clone.Rows = clone.Rows[:0]

	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, 1.0, tbl.Rows[0][0].AsFloat64())

	col, ok := tbl.Column("a")
	require.True(t, ok)
	assert.Len(t, col, 1)
	_, ok = clone.ColumnIndex("a")
	assert.True(t, ok)
}
