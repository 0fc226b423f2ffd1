// pkg/assessor/accuracy.go
package assessor

import (
	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/model"
	"github.com/David-Botos/data-quality/pkg/stats"
)

// assessAccuracy flags extreme outliers with Tukey fences at OutlierIQRMultiplier.
// Only columns with at least one outlier are reported.
func (a *Assessor) assessAccuracy(ds *model.Dataset) model.Accuracy {
	result := model.Accuracy{
		OutliersByColumn: make(map[string]model.OutlierColumn),
	}

	for _, col := range ds.Schema.NumericColumns() {
		values := ds.ColumnValues(col)
		if len(values) < a.config.MinOutlierSamples {
			insufficient := &model.InsufficientDataError{
				Column:    col,
				Statistic: "outlier detection",
				Need:      a.config.MinOutlierSamples,
				Have:      len(values),
			}
			a.logger.Warn("Skipping outlier detection",
				zap.String("dataset", ds.Name),
				zap.Error(insufficient))
			if result.SkippedColumns == nil {
				result.SkippedColumns = make(map[string]string)
			}
			result.SkippedColumns[col] = insufficient.Error()
			continue
		}

		bounds, err := stats.TukeyBounds(values, a.config.OutlierIQRMultiplier)
		if err != nil {
			continue
		}

		count := 0
		minVal, maxVal := values[0], values[0]
		for _, v := range values {
			if !bounds.Contains(v) {
				count++
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
		if count == 0 {
			continue
		}

		result.OutliersByColumn[col] = model.OutlierColumn{
			Count:      count,
			Percentage: float64(count) / float64(ds.RowCount()) * 100,
			Range: model.OutlierRange{
				Min:         minVal,
				Max:         maxVal,
				ExpectedMin: bounds.Lower,
				ExpectedMax: bounds.Upper,
			},
		}
		a.logger.Debug("Outliers detected",
			zap.String("dataset", ds.Name),
			zap.String("column", col),
			zap.Int("count", count),
			zap.Float64("lower", bounds.Lower),
			zap.Float64("upper", bounds.Upper))
	}

	return result
}
