// pkg/assessor/summary.go
package assessor

import (
	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/model"
	"github.com/David-Botos/data-quality/pkg/stats"
)

// summarize computes shape and per-column descriptive statistics.
// Numeric columns without any present value are left out of the summary.
func (a *Assessor) summarize(ds *model.Dataset) model.Summary {
	summary := model.Summary{
		RecordCount:    ds.RowCount(),
		ColumnCount:    ds.ColumnCount(),
		NumericSummary: make(map[string]model.ColumnStats),
	}

	for _, col := range ds.Schema.NumericColumns() {
		described, err := stats.Describe(ds.ColumnValues(col))
		if err != nil {
			a.logger.Debug("Skipping summary for empty column",
				zap.String("dataset", ds.Name),
				zap.String("column", col))
			continue
		}
		summary.NumericSummary[col] = described
	}

	return summary
}
