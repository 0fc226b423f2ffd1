// pkg/model/report.go
package model

// QualityReport is the assessment of one dataset. It is a pure function of the
// dataset and carries no timestamps.
type QualityReport struct {
	Dataset      string       `json:"dataset"`
	Summary      Summary      `json:"summary"`
	Completeness Completeness `json:"completeness"`
	Consistency  Consistency  `json:"consistency"`
	Accuracy     Accuracy     `json:"accuracy"`
	Validity     Validity     `json:"validity"`
}

// Summary holds shape and descriptive statistics
type Summary struct {
	RecordCount    int                    `json:"record_count"`
	ColumnCount    int                    `json:"column_count"`
	NumericSummary map[string]ColumnStats `json:"numeric_summary"`
}

// ColumnStats are the descriptive statistics of one numeric column
type ColumnStats struct {
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	StdDev *float64 `json:"std,omitempty"` // nil with fewer than 2 values
	Min    float64  `json:"min"`
	Q1     float64  `json:"25%"`
	Median float64  `json:"50%"`
	Q3     float64  `json:"75%"`
	Max    float64  `json:"max"`
}

// Completeness measures missing cells
type Completeness struct {
	TotalCells             int                      `json:"total_cells"`
	MissingCells           int                      `json:"missing_cells"`
	CompletenessPercentage float64                  `json:"completeness_percentage"`
	ColumnsWithMissing     map[string]MissingColumn `json:"columns_with_missing"`
}

// MissingColumn is the missing-value breakdown of one column
type MissingColumn struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Consistency measures duplicates and suspicious negatives
type Consistency struct {
	DuplicateRows        int            `json:"duplicate_rows"`
	ColumnsWithNegatives map[string]int `json:"columns_with_negatives"`
}

// Accuracy holds the extreme-outlier classification per column
type Accuracy struct {
	OutliersByColumn map[string]OutlierColumn `json:"outliers_by_column"`
	SkippedColumns   map[string]string        `json:"skipped_columns,omitempty"`
}

// OutlierColumn describes outliers found in one column
type OutlierColumn struct {
	Count      int          `json:"count"`
	Percentage float64      `json:"percentage"`
	Range      OutlierRange `json:"range"`
}

// OutlierRange is the observed range against the computed bounds
type OutlierRange struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	ExpectedMin float64 `json:"expected_min"`
	ExpectedMax float64 `json:"expected_max"`
}

// Validity holds domain constraint violations
type Validity struct {
	ConstraintViolations ConstraintViolations `json:"constraint_violations"`
}

// ConstraintViolations lists violated time-key constraints
type ConstraintViolations struct {
	YearRange     *RangeMismatch `json:"year_range,omitempty"`
	InvalidMonths int            `json:"invalid_months,omitempty"`
}

// RangeMismatch reports an actual range against the expected one
type RangeMismatch struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// HasViolations reports whether any constraint was violated
func (v Validity) HasViolations() bool {
	return v.ConstraintViolations.YearRange != nil || v.ConstraintViolations.InvalidMonths > 0
}
