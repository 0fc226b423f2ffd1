// pkg/assessor/consistency.go
package assessor

import (
	"github.com/David-Botos/data-quality/pkg/model"
)

// assessConsistency counts exact duplicate rows and negative values in numeric columns
func (a *Assessor) assessConsistency(ds *model.Dataset) model.Consistency {
	return model.Consistency{
		DuplicateRows:        CountDuplicates(ds),
		ColumnsWithNegatives: a.countNegatives(ds),
	}
}

// CountDuplicates returns the number of rows that have an identical earlier row
func CountDuplicates(ds *model.Dataset) int {
	seen := make(map[string]struct{}, ds.RowCount())
	duplicates := 0
	for _, row := range ds.Rows {
		key := model.RowKey(row)
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}

func (a *Assessor) countNegatives(ds *model.Dataset) map[string]int {
	negatives := make(map[string]int)
	for _, col := range ds.Schema.NumericColumns() {
		if a.config.NegativeAllowed(col) {
			continue
		}
		count := 0
		for _, v := range ds.ColumnValues(col) {
			if v < 0 {
				count++
			}
		}
		if count > 0 {
			negatives[col] = count
		}
	}
	return negatives
}
