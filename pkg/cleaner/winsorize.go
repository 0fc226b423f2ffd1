// pkg/cleaner/winsorize.go
package cleaner

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/model"
	"github.com/David-Botos/data-quality/pkg/stats"
)

// winsorize clips every measurement column to its percentile band.
// Bounds come from the column before clipping; time keys are never clipped.
// The band of every clipped column is kept in state for standardizeFormats.
func (c *DataCleaner) winsorize(ds *model.Dataset, state *runState) (*model.Dataset, []model.CleaningLogEntry, error) {
	out := ds.WithRows(copyRows(ds.Rows))
	var entries []model.CleaningLogEntry

	for _, col := range ds.Schema.NumericColumns() {
		if ds.Schema.IsTimeKey(col) {
			continue
		}

		values := ds.ColumnValues(col)
		bounds, err := stats.PercentileBounds(values,
			c.config.WinsorizeLowerPercentile, c.config.WinsorizeUpperPercentile)
		if err != nil {
			c.logger.Debug("Skipping winsorization of empty column",
				zap.String("dataset", ds.Name),
				zap.String("column", col))
			continue
		}

		idx := out.Schema.Index(col)
		low, high := 0, 0
		for _, row := range out.Rows {
			f, ok := row[idx].Float()
			if !ok {
				continue
			}
			switch {
			case f < bounds.Lower:
				row[idx] = model.Number(bounds.Lower)
				low++
			case f > bounds.Upper:
				row[idx] = model.Number(bounds.Upper)
				high++
			}
		}

		if low > 0 || high > 0 {
			state.clipBounds[col] = bounds
			c.logger.Debug("Winsorized column",
				zap.String("dataset", ds.Name),
				zap.String("column", col),
				zap.Float64("lower", bounds.Lower),
				zap.Float64("upper", bounds.Upper))
			entries = append(entries, newEntry(fmt.Sprintf("winsorized %s", col), col,
				low+high, fmt.Sprintf("%d low, %d high", low, high)))
		}
	}

	return out, entries, nil
}
