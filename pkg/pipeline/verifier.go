// pkg/pipeline/verifier.go
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/model"
)

// QualityIssue is a check that did not improve after cleaning
type QualityIssue struct {
	Check       string
	Description string
	Before      int
	After       int
}

// Comparison contrasts the reports taken before and after cleaning
type Comparison struct {
	Dataset            string
	RowsBefore         int
	RowsAfter          int
	MissingBefore      int
	MissingAfter       int
	CompletenessBefore float64
	CompletenessAfter  float64
	DuplicatesBefore   int
	DuplicatesAfter    int
	OutlierColsBefore  int
	OutlierColsAfter   int
	ValidBefore        bool
	ValidAfter         bool
	Issues             []QualityIssue
}

// Improved reports whether no check got worse
func (c *Comparison) Improved() bool {
	return len(c.Issues) == 0
}

// Verifier checks that cleaning improved a dataset
type Verifier struct {
	logger *zap.Logger
}

// NewVerifier creates a new verifier
func NewVerifier(logger *zap.Logger) *Verifier {
	return &Verifier{logger: logger}
}

// Compare builds a comparison of two reports of the same dataset.
// Missing cells and duplicates must not grow, and the validity
// constraints must hold after cleaning.
func (v *Verifier) Compare(before, after *model.QualityReport) (*Comparison, error) {
	if before == nil || after == nil {
		return nil, fmt.Errorf("cannot compare reports: before and after are required")
	}

	c := &Comparison{
		Dataset:            after.Dataset,
		RowsBefore:         before.Summary.RecordCount,
		RowsAfter:          after.Summary.RecordCount,
		MissingBefore:      before.Completeness.MissingCells,
		MissingAfter:       after.Completeness.MissingCells,
		CompletenessBefore: before.Completeness.CompletenessPercentage,
		CompletenessAfter:  after.Completeness.CompletenessPercentage,
		DuplicatesBefore:   before.Consistency.DuplicateRows,
		DuplicatesAfter:    after.Consistency.DuplicateRows,
		OutlierColsBefore:  len(before.Accuracy.OutliersByColumn),
		OutlierColsAfter:   len(after.Accuracy.OutliersByColumn),
		ValidBefore:        !before.Validity.HasViolations(),
		ValidAfter:         !after.Validity.HasViolations(),
	}

	// 1. Missing cells
	if c.MissingAfter > c.MissingBefore {
		c.Issues = append(c.Issues, QualityIssue{
			Check:       "completeness",
			Description: "missing cells increased",
			Before:      c.MissingBefore,
			After:       c.MissingAfter,
		})
	}

	// 2. Duplicates
	if c.DuplicatesAfter > c.DuplicatesBefore {
		c.Issues = append(c.Issues, QualityIssue{
			Check:       "consistency",
			Description: "duplicate rows increased",
			Before:      c.DuplicatesBefore,
			After:       c.DuplicatesAfter,
		})
	}

	// 3. Validity
	if !c.ValidAfter {
		c.Issues = append(c.Issues, QualityIssue{
			Check:       "validity",
			Description: "time-key constraints violated after cleaning",
			Before:      before.Validity.ConstraintViolations.InvalidMonths,
			After:       after.Validity.ConstraintViolations.InvalidMonths,
		})
	}

	// 4. Outliers are informational; clipping at percentiles does not
	// guarantee the Tukey fences are met.
	if c.OutlierColsAfter > c.OutlierColsBefore {
		v.logger.Debug("More columns with extreme outliers after cleaning",
			zap.String("dataset", c.Dataset),
			zap.Int("before", c.OutlierColsBefore),
			zap.Int("after", c.OutlierColsAfter))
	}

	for _, issue := range c.Issues {
		v.logger.Warn("Quality check did not improve",
			zap.String("dataset", c.Dataset),
			zap.String("check", issue.Check),
			zap.String("description", issue.Description),
			zap.Int("before", issue.Before),
			zap.Int("after", issue.After))
	}

	v.logger.Info("Verification completed",
		zap.String("dataset", c.Dataset),
		zap.Int("rowsBefore", c.RowsBefore),
		zap.Int("rowsAfter", c.RowsAfter),
		zap.Float64("completenessBefore", c.CompletenessBefore),
		zap.Float64("completenessAfter", c.CompletenessAfter),
		zap.Bool("improved", c.Improved()))

	return c, nil
}
