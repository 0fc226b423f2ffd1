// pkg/assessor/validity.go
package assessor

import (
	"fmt"
	"strconv"

	"github.com/David-Botos/data-quality/pkg/model"
)

// assessValidity checks the time key against the configured domains.
// A missing month is not within range and counts as invalid.
func (a *Assessor) assessValidity(ds *model.Dataset) model.Validity {
	var violations model.ConstraintViolations

	if ds.Schema.HasTimeKey() {
		years := ds.ColumnValues(ds.Schema.Roles.YearColumn)
		if len(years) > 0 {
			minYear, maxYear := years[0], years[0]
			for _, y := range years {
				if y < minYear {
					minYear = y
				}
				if y > maxYear {
					maxYear = y
				}
			}
			if minYear < float64(a.config.ValidYearMin) || maxYear > float64(a.config.ValidYearMax) {
				violations.YearRange = &model.RangeMismatch{
					Expected: fmt.Sprintf("%d-%d", a.config.ValidYearMin, a.config.ValidYearMax),
					Actual:   formatNumber(minYear) + "-" + formatNumber(maxYear),
				}
			}
		}
	}

	if ds.Schema.HasMonth() {
		idx := ds.Schema.Index(ds.Schema.Roles.MonthColumn)
		for _, row := range ds.Rows {
			if !a.validMonth(row[idx]) {
				violations.InvalidMonths++
			}
		}
	}

	return model.Validity{ConstraintViolations: violations}
}

func (a *Assessor) validMonth(v model.Value) bool {
	m, ok := v.Float()
	return ok && m >= float64(a.config.ValidMonthMin) && m <= float64(a.config.ValidMonthMax)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
