// pkg/cleaner/missing.go
package cleaner

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/model"
	"github.com/David-Botos/data-quality/pkg/stats"
)

// handleMissing applies the three-tier missing value policy: drop sparse rows,
// forward fill along the time key within each entity, then fill with medians.
func (c *DataCleaner) handleMissing(ds *model.Dataset) (*model.Dataset, []model.CleaningLogEntry, error) {
	var entries []model.CleaningLogEntry

	// 1. Drop rows with too few present cells
	threshold := float64(ds.ColumnCount()) * c.config.RowMissingThreshold
	rows, removed := filterRows(ds.Rows, func(row []model.Value) bool {
		present := 0
		for _, cell := range row {
			if !cell.IsMissing() {
				present++
			}
		}
		return float64(present) >= threshold
	})
	if removed > 0 {
		entries = append(entries, newEntry("removed rows with excessive missing", "",
			removed, fmt.Sprintf("%d rows", removed)))
	}

	out := ds.WithRows(copyRows(rows))
	if out.Schema.HasTimeKey() {
		sortByTime(out)
	}
	groups := groupKeys(out)

	// 2. Forward fill in time order, never across entity groups
	if out.Schema.HasTimeKey() {
		for _, col := range out.Schema.NumericColumns() {
			filled := forwardFill(out.Rows, out.Schema.Index(col), groups)
			if filled > 0 {
				entries = append(entries, newEntry(fmt.Sprintf("forward filled %s", col), col,
					filled, fmt.Sprintf("%d values", filled)))
			}
		}
	}

	// 3. Median fill per entity group, falling back to the column median
	for _, col := range out.Schema.NumericColumns() {
		idx := out.Schema.Index(col)
		filled, unfilled := medianFill(out.Rows, idx, groups)
		if filled > 0 {
			entries = append(entries, newEntry(fmt.Sprintf("filled %s with median", col), col,
				filled, fmt.Sprintf("%d values", filled)))
		}
		if unfilled > 0 {
			c.logger.Warn("Column left with missing values",
				zap.String("dataset", ds.Name),
				zap.Error(&model.InsufficientDataError{
					Column:    col,
					Statistic: "median fill",
					Need:      1,
					Have:      0,
				}),
				zap.Int("missing", unfilled))
		}
	}

	return out, entries, nil
}

// groupKeys returns the entity group of every row. Without an entity column
// all rows share one group; a missing entity forms its own group.
func groupKeys(ds *model.Dataset) []string {
	keys := make([]string, ds.RowCount())
	if !ds.Schema.HasEntityGroup() {
		return keys
	}
	idx := ds.Schema.Index(ds.Schema.Roles.EntityColumn)
	for i, row := range ds.Rows {
		keys[i] = model.RowKey(row[idx : idx+1])
	}
	return keys
}

// sortByTime stably orders rows by year, then month
func sortByTime(ds *model.Dataset) {
	yearIdx := ds.Schema.Index(ds.Schema.Roles.YearColumn)
	monthIdx := -1
	if ds.Schema.HasMonth() {
		monthIdx = ds.Schema.Index(ds.Schema.Roles.MonthColumn)
	}

	sort.SliceStable(ds.Rows, func(i, j int) bool {
		if c := compareNumeric(ds.Rows[i][yearIdx], ds.Rows[j][yearIdx]); c != 0 {
			return c < 0
		}
		if monthIdx < 0 {
			return false
		}
		return compareNumeric(ds.Rows[i][monthIdx], ds.Rows[j][monthIdx]) < 0
	})
}

// compareNumeric orders numbers ascending with missing values last
func compareNumeric(a, b model.Value) int {
	fa, okA := a.Float()
	fb, okB := b.Float()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	}
	return 0
}

// forwardFill replaces missing cells with the last present value of the same group
func forwardFill(rows [][]model.Value, idx int, groups []string) int {
	last := make(map[string]model.Value)
	filled := 0
	for i, row := range rows {
		if row[idx].IsMissing() {
			if prev, ok := last[groups[i]]; ok {
				row[idx] = prev
				filled++
			}
			continue
		}
		last[groups[i]] = row[idx]
	}
	return filled
}

// medianFill replaces missing cells with the group median, or the column median when
// the group has no observations. It returns the filled and still-missing counts.
func medianFill(rows [][]model.Value, idx int, groups []string) (int, int) {
	byGroup := make(map[string][]float64)
	var all []float64
	missing := 0
	for i, row := range rows {
		f, ok := row[idx].Float()
		if !ok {
			missing++
			continue
		}
		byGroup[groups[i]] = append(byGroup[groups[i]], f)
		all = append(all, f)
	}
	if missing == 0 {
		return 0, 0
	}

	global, err := stats.Median(all)
	if err != nil {
		return 0, missing
	}

	medians := make(map[string]float64, len(byGroup))
	for group, values := range byGroup {
		m, err := stats.Median(values)
		if err != nil {
			continue
		}
		medians[group] = m
	}

	filled := 0
	for i, row := range rows {
		if !row[idx].IsMissing() {
			continue
		}
		m, ok := medians[groups[i]]
		if !ok {
			m = global
		}
		row[idx] = model.Number(m)
		filled++
	}
	return filled, missing - filled
}
