// pkg/assessor/assessor.go
package assessor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/config"
	"github.com/David-Botos/data-quality/pkg/model"
)

// Assessor evaluates the quality of a dataset without modifying it.
// It holds no per-run state and is safe for concurrent use on distinct datasets.
type Assessor struct {
	config config.QualityConfig
	logger *zap.Logger
}

// NewAssessor creates a new assessor
func NewAssessor(cfg config.QualityConfig, logger *zap.Logger) (*Assessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quality configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assessor{
		config: cfg,
		logger: logger,
	}, nil
}

// Assess produces the quality report of a dataset.
// The report depends only on the dataset content and the configuration.
func (a *Assessor) Assess(ds *model.Dataset) (*model.QualityReport, error) {
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("failed to assess dataset: %w", err)
	}

	a.logger.Info("Assessing dataset quality",
		zap.String("dataset", ds.Name),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()))

	report := &model.QualityReport{
		Dataset: ds.Name,
		// 1. Shape and descriptive statistics
		Summary: a.summarize(ds),
		// 2. Missing cells
		Completeness: a.assessCompleteness(ds),
		// 3. Duplicates and negatives
		Consistency: a.assessConsistency(ds),
		// 4. Extreme outliers
		Accuracy: a.assessAccuracy(ds),
		// 5. Time-key domain constraints
		Validity: a.assessValidity(ds),
	}

	a.logger.Info("Quality assessment completed",
		zap.String("dataset", ds.Name),
		zap.Float64("completeness", report.Completeness.CompletenessPercentage),
		zap.Int("missingCells", report.Completeness.MissingCells),
		zap.Int("duplicates", report.Consistency.DuplicateRows),
		zap.Int("outlierColumns", len(report.Accuracy.OutliersByColumn)),
		zap.Bool("validityViolations", report.Validity.HasViolations()))

	return report, nil
}
