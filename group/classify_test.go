package group

import (
	"math"
	"testing"

	"github.com/hupe1980/featquant/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumn(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name   string
		values []float64
		want   Group
	}{
		{"AllMissing", []float64{nan, nan}, Constant},
		{"SingleValue", []float64{3, 3, 3}, Constant},
		{"Binary", []float64{0, 1, 0, 1}, Binary},
		{"BinaryWithMissing", []float64{0, nan, 1}, Binary},
		{"OnlyOnesWithMissing", []float64{1, nan, 1}, Binary},
		{"SmallInt", []float64{1, 2, 3, 4}, SmallCardinalityInteger},
		{"SmallIntNegative", []float64{-3, -1, 2}, SmallCardinalityInteger},
		{"Count", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 40}, Count},
		{"WideNegativeInts", []float64{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5}, Continuous},
		{"Bounded", []float64{0, 0.25, 0.5, 1}, Bounded},
		{"Continuous", []float64{-1.5, 0.2, 3.7}, Continuous},
		{"InfinityIsMissing", []float64{0, math.Inf(1), 1}, Binary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Column(tt.values, DefaultSmallCardinalityLimit))
		})
	}
}

func TestClassify(t *testing.T) {
	tbl, err := table.New(
		table.String(table.InputColumn, []string{"a", "b", "c", "d"}),
		table.Int("a", []int64{0, 1, 0, 1}),
		table.Int("b", []int64{1, 2, 3, 4}),
		table.Float("c", []float64{-0.4, 1.3, 0.2, -1.1}),
		table.String("label", []string{"x", "y", "z", "w"}),
	)
	require.NoError(t, err)

	c, err := Classify(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, c.Columns)
	assert.Equal(t, Binary, c.Groups["a"])
	assert.Equal(t, SmallCardinalityInteger, c.Groups["b"])
	assert.Equal(t, Continuous, c.Groups["c"])
	assert.Equal(t, []string{"c"}, c.Members(Continuous))

	again, err := Classify(tbl)
	require.NoError(t, err)
	assert.Equal(t, c, again, "classification must be idempotent")
}

func TestClassify_SmallCardinalityLimit(t *testing.T) {
	tbl, err := table.New(table.Int("b", []int64{1, 2, 3, 4}))
	require.NoError(t, err)

	c, err := Classify(tbl, func(o *Options) { o.SmallCardinalityLimit = 3 })
	require.NoError(t, err)
	assert.Equal(t, Count, c.Groups["b"])
}

func TestClassify_Errors(t *testing.T) {
	empty, err := table.New()
	require.NoError(t, err)
	_, err = Classify(empty)
	assert.ErrorIs(t, err, ErrEmptyTable)

	strOnly, err := table.New(table.String(table.InputColumn, []string{"x"}), table.Int(table.KeyColumn, []int64{1}))
	require.NoError(t, err)
	_, err = Classify(strOnly)
	assert.ErrorIs(t, err, ErrNoNumericColumns)
}

func TestGroup_Text(t *testing.T) {
	for _, g := range All {
		text, err := g.MarshalText()
		require.NoError(t, err)

		var back Group
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, g, back)
	}

	_, err := Parse("nope")
	assert.ErrorIs(t, err, ErrUnknownGroup)
	assert.Equal(t, "unknown", Group(42).String())
}
