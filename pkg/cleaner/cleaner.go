// pkg/cleaner/cleaner.go
package cleaner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/config"
	"github.com/David-Botos/data-quality/pkg/model"
	"github.com/David-Botos/data-quality/pkg/stats"
)

// StageFunc transforms a dataset into a new one and returns the entries describing
// what it changed. It must not modify its input. Entries only carry Action, Column,
// Count and Details; the driver stamps the rest.
type StageFunc func(ds *model.Dataset) (*model.Dataset, []model.CleaningLogEntry, error)

// Stage is a named step of the cleaning pipeline
type Stage struct {
	Name string
	Run  StageFunc
}

// DataCleaner applies the fixed sequence of cleaning stages to a dataset.
// It holds no per-run state and is safe for concurrent use on distinct datasets.
type DataCleaner struct {
	config config.QualityConfig
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a DataCleaner
type Option func(*DataCleaner)

// WithClock sets the time source used to stamp log entries
func WithClock(now func() time.Time) Option {
	return func(c *DataCleaner) {
		c.now = now
	}
}

// NewDataCleaner creates a new DataCleaner instance
func NewDataCleaner(cfg config.QualityConfig, logger *zap.Logger, opts ...Option) (*DataCleaner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quality configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cleaner := &DataCleaner{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(cleaner)
	}

	return cleaner, nil
}

// runState carries what later stages of one run need from earlier ones
type runState struct {
	// Percentile band of every column the winsorize stage clipped
	clipBounds map[string]stats.Bounds
}

// Stages returns the cleaning stages in the order they are applied.
// Each call returns a fresh set bound to its own run state.
func (c *DataCleaner) Stages() []Stage {
	state := &runState{clipBounds: make(map[string]stats.Bounds)}
	return []Stage{
		{Name: model.StageDeduplicate, Run: c.deduplicate},
		{Name: model.StageValidateRanges, Run: c.validateRanges},
		{Name: model.StageHandleMissing, Run: c.handleMissing},
		{Name: model.StageWinsorize, Run: func(ds *model.Dataset) (*model.Dataset, []model.CleaningLogEntry, error) {
			return c.winsorize(ds, state)
		}},
		{Name: model.StageStandardizeFormats, Run: func(ds *model.Dataset) (*model.Dataset, []model.CleaningLogEntry, error) {
			return c.standardizeFormats(ds, state)
		}},
	}
}

// Clean runs every stage under a freshly generated run ID
func (c *DataCleaner) Clean(ds *model.Dataset) (*model.Dataset, []model.CleaningLogEntry, error) {
	return c.CleanWithRunID(uuid.New().String(), ds)
}

// CleanWithRunID runs every stage and returns the cleaned copy with its ordered log.
// The input dataset is left untouched.
func (c *DataCleaner) CleanWithRunID(runID string, ds *model.Dataset) (*model.Dataset, []model.CleaningLogEntry, error) {
	if err := ds.Validate(); err != nil {
		return nil, nil, fmt.Errorf("failed to clean dataset: %w", err)
	}

	c.logger.Info("Cleaning dataset",
		zap.String("dataset", ds.Name),
		zap.String("runID", runID),
		zap.Int("rows", ds.RowCount()))

	current := ds
	var cleaningLog []model.CleaningLogEntry

	for _, stage := range c.Stages() {
		rowsBefore := current.RowCount()

		next, entries, err := stage.Run(current)
		if err != nil {
			return nil, nil, fmt.Errorf("stage %s failed for dataset %s: %w", stage.Name, ds.Name, err)
		}

		stamp := c.now()
		for _, entry := range entries {
			entry.Timestamp = stamp
			entry.RunID = runID
			entry.Stage = stage.Name
			cleaningLog = append(cleaningLog, entry)
		}

		c.logger.Info("Cleaning stage completed",
			zap.String("dataset", ds.Name),
			zap.String("stage", stage.Name),
			zap.Int("rowsBefore", rowsBefore),
			zap.Int("rowsAfter", next.RowCount()),
			zap.Int("actions", len(entries)))

		current = next
	}

	c.logger.Info("Dataset cleaned",
		zap.String("dataset", ds.Name),
		zap.String("runID", runID),
		zap.Int("rowsBefore", ds.RowCount()),
		zap.Int("rowsAfter", current.RowCount()),
		zap.Int("logEntries", len(cleaningLog)))

	return current, cleaningLog, nil
}

// newEntry creates a stage-local log entry
func newEntry(action, column string, count int, details string) model.CleaningLogEntry {
	return model.CleaningLogEntry{
		Action:  action,
		Column:  column,
		Count:   count,
		Details: details,
	}
}

// copyRows copies the row slices so cells can be replaced without touching the source
func copyRows(rows [][]model.Value) [][]model.Value {
	out := make([][]model.Value, len(rows))
	for i, row := range rows {
		out[i] = append([]model.Value(nil), row...)
	}
	return out
}
