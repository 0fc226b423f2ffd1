// pkg/cleaner/operations.go
package cleaner

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/David-Botos/data-quality/pkg/model"
	"github.com/David-Botos/data-quality/pkg/stats"
)

// deduplicate drops exact duplicate rows, keeping the first occurrence in order.
// Kept rows are copied, so later stages never share cells with the input.
func (c *DataCleaner) deduplicate(ds *model.Dataset) (*model.Dataset, []model.CleaningLogEntry, error) {
	seen := make(map[string]struct{}, ds.RowCount())
	kept := make([][]model.Value, 0, ds.RowCount())

	for _, row := range ds.Rows {
		key := model.RowKey(row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}

	var entries []model.CleaningLogEntry
	if removed := ds.RowCount() - len(kept); removed > 0 {
		entries = append(entries, newEntry("removed duplicates", "", removed, fmt.Sprintf("%d rows", removed)))
	}

	return ds.WithRows(copyRows(kept)), entries, nil
}

// validateRanges drops rows whose year, then month, is missing or outside the valid domain
func (c *DataCleaner) validateRanges(ds *model.Dataset) (*model.Dataset, []model.CleaningLogEntry, error) {
	if !ds.Schema.HasTimeKey() {
		return ds, nil, nil
	}

	var entries []model.CleaningLogEntry
	rows := ds.Rows

	yearIdx := ds.Schema.Index(ds.Schema.Roles.YearColumn)
	rows, removed := filterRows(rows, func(row []model.Value) bool {
		return inRange(row[yearIdx], c.config.ValidYearMin, c.config.ValidYearMax)
	})
	if removed > 0 {
		entries = append(entries, newEntry("removed invalid years", ds.Schema.Roles.YearColumn,
			removed, fmt.Sprintf("%d records", removed)))
	}

	if ds.Schema.HasMonth() {
		monthIdx := ds.Schema.Index(ds.Schema.Roles.MonthColumn)
		rows, removed = filterRows(rows, func(row []model.Value) bool {
			return inRange(row[monthIdx], c.config.ValidMonthMin, c.config.ValidMonthMax)
		})
		if removed > 0 {
			entries = append(entries, newEntry("removed invalid months", ds.Schema.Roles.MonthColumn,
				removed, fmt.Sprintf("%d records", removed)))
		}
	}

	if len(entries) == 0 {
		return ds, nil, nil
	}
	return ds.WithRows(rows), entries, nil
}

// standardizeFormats truncates time keys to integers, normalizes entity names and
// rounds the remaining numeric columns. Rounding never moves a value of a clipped
// column outside its winsorization band.
func (c *DataCleaner) standardizeFormats(ds *model.Dataset, state *runState) (*model.Dataset, []model.CleaningLogEntry, error) {
	out := ds.WithRows(copyRows(ds.Rows))
	var entries []model.CleaningLogEntry

	// 1. Time keys become integers
	for _, col := range []string{ds.Schema.Roles.YearColumn, ds.Schema.Roles.MonthColumn} {
		if col == "" {
			continue
		}
		idx := out.Schema.Index(col)
		changed := mapNumeric(out.Rows, idx, math.Trunc)
		out.Schema.Columns[idx].Kind = model.KindInteger
		if changed > 0 {
			entries = append(entries, newEntry(fmt.Sprintf("converted %s to integer", col), col,
				changed, fmt.Sprintf("%d values", changed)))
		}
	}

	// 2. Entity names are trimmed and title-cased
	if ds.Schema.HasEntityGroup() {
		col := ds.Schema.Roles.EntityColumn
		idx := out.Schema.Index(col)
		caser := cases.Title(language.English)
		changed := 0
		for _, row := range out.Rows {
			s, ok := row[idx].Str()
			if !ok {
				continue
			}
			normalized := caser.String(strings.TrimSpace(s))
			if normalized != s {
				row[idx] = model.Text(normalized)
				changed++
			}
		}
		entries = append(entries, newEntry(fmt.Sprintf("standardized %s names", col), col,
			changed, "converted to title case"))
	}

	// 3. Measurements are rounded
	for _, col := range ds.Schema.NumericColumns() {
		if ds.Schema.IsTimeKey(col) {
			continue
		}
		idx := out.Schema.Index(col)
		round := func(f float64) float64 {
			return stats.Round(f, c.config.RoundingPrecision)
		}
		if bounds, clipped := state.clipBounds[col]; clipped {
			round = func(f float64) float64 {
				return stats.RoundWithin(f, c.config.RoundingPrecision, bounds)
			}
		}
		changed := mapNumeric(out.Rows, idx, round)
		if changed > 0 {
			c.logger.Debug("Rounded column",
				zap.String("dataset", ds.Name),
				zap.String("column", col),
				zap.Int("values", changed))
			entries = append(entries, newEntry(fmt.Sprintf("rounded %s", col), col,
				changed, fmt.Sprintf("%d values", changed)))
		}
	}

	return out, entries, nil
}

// Helper functions

// filterRows keeps the rows accepted by keep and returns how many were dropped
func filterRows(rows [][]model.Value, keep func([]model.Value) bool) ([][]model.Value, int) {
	kept := make([][]model.Value, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	return kept, len(rows) - len(kept)
}

// inRange reports whether a cell holds a number within [min, max]. Missing is out of range.
func inRange(v model.Value, min, max int) bool {
	f, ok := v.Float()
	return ok && f >= float64(min) && f <= float64(max)
}

// mapNumeric applies fn to every present number of a column in place and
// returns how many cells changed
func mapNumeric(rows [][]model.Value, idx int, fn func(float64) float64) int {
	changed := 0
	for _, row := range rows {
		f, ok := row[idx].Float()
		if !ok {
			continue
		}
		if g := fn(f); g != f {
			row[idx] = model.Number(g)
			changed++
		}
	}
	return changed
}
