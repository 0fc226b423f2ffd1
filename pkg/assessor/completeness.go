// pkg/assessor/completeness.go
package assessor

import (
	"github.com/David-Botos/data-quality/pkg/model"
)

// assessCompleteness counts missing cells overall and per column.
// A dataset with columns but no rows is fully complete.
func (a *Assessor) assessCompleteness(ds *model.Dataset) model.Completeness {
	rows := ds.RowCount()
	result := model.Completeness{
		TotalCells:             rows * ds.ColumnCount(),
		CompletenessPercentage: 100,
		ColumnsWithMissing:     make(map[string]model.MissingColumn),
	}

	for _, col := range ds.Schema.Columns {
		missing := ds.MissingCount(col.Name)
		if missing == 0 {
			continue
		}
		result.MissingCells += missing
		result.ColumnsWithMissing[col.Name] = model.MissingColumn{
			Count:      missing,
			Percentage: float64(missing) / float64(rows) * 100,
		}
	}

	if result.TotalCells > 0 {
		result.CompletenessPercentage =
			float64(result.TotalCells-result.MissingCells) / float64(result.TotalCells) * 100
	}

	return result
}
