// Package stats holds the numeric helpers shared by the assessor and the cleaner.
package stats

import (
	"errors"
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"

	"github.com/David-Botos/data-quality/pkg/model"
)

// ErrEmptyInput is returned when a statistic is requested over no values
var ErrEmptyInput = errors.New("stats: empty input")

// Quantile returns the q-th quantile (0 <= q <= 1) of already sorted data using linear
// interpolation between order statistics (Hyndman-Fan type 7).
func Quantile(sorted []float64, q float64) (float64, error) {
	n := len(sorted)
	if n == 0 {
		return 0, ErrEmptyInput
	}
	if q <= 0 {
		return sorted[0], nil
	}
	if q >= 1 {
		return sorted[n-1], nil
	}

	h := q * float64(n-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1], nil
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo]), nil
}

// Percentile returns the p-th percentile (0..100) of unsorted data
func Percentile(values []float64, p float64) (float64, error) {
	return Quantile(Sorted(values), p/100)
}

// Sorted returns a sorted copy of values
func Sorted(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

// Median returns the median of values
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	return mstats.Median(values)
}

// Describe computes the descriptive statistics of a numeric column
func Describe(values []float64) (model.ColumnStats, error) {
	if len(values) == 0 {
		return model.ColumnStats{}, ErrEmptyInput
	}

	sorted := Sorted(values)

	mean, err := mstats.Mean(sorted)
	if err != nil {
		return model.ColumnStats{}, err
	}
	min, err := mstats.Min(sorted)
	if err != nil {
		return model.ColumnStats{}, err
	}
	max, err := mstats.Max(sorted)
	if err != nil {
		return model.ColumnStats{}, err
	}
	median, err := mstats.Median(sorted)
	if err != nil {
		return model.ColumnStats{}, err
	}
	q1, _ := Quantile(sorted, 0.25)
	q3, _ := Quantile(sorted, 0.75)

	result := model.ColumnStats{
		Count:  len(sorted),
		Mean:   mean,
		Min:    min,
		Q1:     q1,
		Median: median,
		Q3:     q3,
		Max:    max,
	}

	// Sample standard deviation is undefined for a single value
	if len(sorted) > 1 {
		std, err := mstats.StandardDeviationSample(sorted)
		if err != nil {
			return model.ColumnStats{}, err
		}
		result.StdDev = &std
	}

	return result, nil
}

// Bounds is a closed interval derived from a distribution
type Bounds struct {
	Lower float64
	Upper float64
}

// Contains reports whether x lies within the bounds
func (b Bounds) Contains(x float64) bool {
	return x >= b.Lower && x <= b.Upper
}

// TukeyBounds returns [Q1 - k*IQR, Q3 + k*IQR] for the given multiplier
func TukeyBounds(values []float64, multiplier float64) (Bounds, error) {
	sorted := Sorted(values)
	q1, err := Quantile(sorted, 0.25)
	if err != nil {
		return Bounds{}, err
	}
	q3, _ := Quantile(sorted, 0.75)
	iqr := q3 - q1
	return Bounds{Lower: q1 - multiplier*iqr, Upper: q3 + multiplier*iqr}, nil
}

// PercentileBounds returns the [lower, upper] percentile band of values
func PercentileBounds(values []float64, lower, upper float64) (Bounds, error) {
	sorted := Sorted(values)
	lo, err := Quantile(sorted, lower/100)
	if err != nil {
		return Bounds{}, err
	}
	hi, _ := Quantile(sorted, upper/100)
	return Bounds{Lower: lo, Upper: hi}, nil
}

// Round rounds x to the given number of decimal places
func Round(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}

// RoundWithin rounds x to the given number of decimal places without leaving b.
// When nearest rounding falls outside, x is rounded toward the inside of b instead;
// when no value at that precision fits, x is returned unchanged.
func RoundWithin(x float64, places int, b Bounds) float64 {
	r := Round(x, places)
	if b.Contains(r) {
		return r
	}

	scale := math.Pow(10, float64(places))
	if r < b.Lower {
		r = math.Ceil(x*scale) / scale
	} else {
		r = math.Floor(x*scale) / scale
	}
	if b.Contains(r) {
		return r
	}
	return x
}
