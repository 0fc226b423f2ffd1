package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	testCases := []struct {
		name     string
		sorted   []float64
		q        float64
		expected float64
	}{
		{name: "lower quartile", sorted: []float64{1, 2, 3, 4, 5, 6, 100}, q: 0.25, expected: 2.5},
		{name: "upper quartile", sorted: []float64{1, 2, 3, 4, 5, 6, 100}, q: 0.75, expected: 5.5},
		{name: "median even count", sorted: []float64{1, 2, 3, 4}, q: 0.5, expected: 2.5},
		{name: "single value", sorted: []float64{7}, q: 0.25, expected: 7},
		{name: "two values first percentile", sorted: []float64{0, 100}, q: 0.01, expected: 1},
		{name: "minimum", sorted: []float64{3, 4, 5}, q: 0, expected: 3},
		{name: "maximum", sorted: []float64{3, 4, 5}, q: 1, expected: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Quantile(tc.sorted, tc.q)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}

func TestQuantileEmpty(t *testing.T) {
	_, err := Quantile(nil, 0.5)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestDescribe(t *testing.T) {
	desc, err := Describe([]float64{4, 1, 3, 2})
	require.NoError(t, err)

	assert.Equal(t, 4, desc.Count)
	assert.InDelta(t, 2.5, desc.Mean, 1e-9)
	assert.Equal(t, 1.0, desc.Min)
	assert.Equal(t, 4.0, desc.Max)
	assert.InDelta(t, 1.75, desc.Q1, 1e-9)
	assert.InDelta(t, 2.5, desc.Median, 1e-9)
	assert.InDelta(t, 3.25, desc.Q3, 1e-9)
	require.NotNil(t, desc.StdDev)
	assert.InDelta(t, 1.2909944, *desc.StdDev, 1e-6)
}

func TestDescribeSingleValue(t *testing.T) {
	desc, err := Describe([]float64{42})
	require.NoError(t, err)

	assert.Nil(t, desc.StdDev)
	assert.Equal(t, 42.0, desc.Q1)
	assert.Equal(t, 42.0, desc.Q3)
}

func TestTukeyBounds(t *testing.T) {
	values := []float64{100, 1, 2, 3, 4, 5, 6}

	bounds, err := TukeyBounds(values, 3)
	require.NoError(t, err)
	assert.InDelta(t, -6.5, bounds.Lower, 1e-9)
	assert.InDelta(t, 14.5, bounds.Upper, 1e-9)
	assert.False(t, bounds.Contains(100))
	assert.True(t, bounds.Contains(6))
}

func TestPercentileBounds(t *testing.T) {
	values := make([]float64, 0, 101)
	for i := 100; i >= 0; i-- {
		values = append(values, float64(i))
	}

	bounds, err := PercentileBounds(values, 1, 99)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, bounds.Lower, 1e-9)
	assert.InDelta(t, 99.0, bounds.Upper, 1e-9)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3.14, Round(3.14159, 2))
	assert.Equal(t, -2.5, Round(-2.4999, 2))
	assert.Equal(t, 10.0, Round(9.999, 2))
}

func TestRoundWithin(t *testing.T) {
	band := Bounds{Lower: 1.003, Upper: 99.297}

	tests := []struct {
		name  string
		input float64
		b     Bounds
		want  float64
	}{
		{"inside rounds to nearest", 50.123, band, 50.12},
		{"lower bound rounds up", 1.003, band, 1.01},
		{"upper bound rounds down", 99.297, band, 99.29},
		{"band narrower than precision", 1.003, Bounds{Lower: 1.003, Upper: 1.004}, 1.003},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundWithin(tt.input, 2, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.True(t, tt.b.Contains(got), "%v outside %v", got, tt.b)
		})
	}
}
