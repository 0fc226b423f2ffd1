// pkg/pipeline/job.go
package pipeline

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/David-Botos/data-quality/pkg/model"
)

// DatasetJob is one dataset to assess and clean
type DatasetJob struct {
	ID          string         // Run identifier stamped on the cleaning log
	Dataset     *model.Dataset // Input dataset
	OutputTable string         // Table for the cleaned dataset; empty skips the write
	CreatedAt   time.Time
}

// NewDatasetJob creates a job with a fresh run identifier
func NewDatasetJob(ds *model.Dataset) DatasetJob {
	return DatasetJob{
		ID:        uuid.New().String(),
		Dataset:   ds,
		CreatedAt: time.Now(),
	}
}

// WithOutputTable sets the table the cleaned dataset is written to
func (j DatasetJob) WithOutputTable(table string) DatasetJob {
	j.OutputTable = table
	return j
}

// Name returns the dataset name, or the job ID when no dataset is attached
func (j DatasetJob) Name() string {
	if j.Dataset == nil {
		return j.ID
	}
	return j.Dataset.Name
}

// RunResult is the outcome of one dataset run
type RunResult struct {
	RunID      string
	Dataset    string
	Before     *model.QualityReport
	After      *model.QualityReport
	Cleaned    *model.Dataset
	Log        []model.CleaningLogEntry
	Summary    model.CleaningSummary
	Comparison *Comparison
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Error      error
	Category   ErrorCategory
}

// newRunResult initializes a result for a job
func newRunResult(job DatasetJob) *RunResult {
	return &RunResult{
		RunID:     job.ID,
		Dataset:   job.Name(),
		StartTime: time.Now(),
	}
}

// Complete records the end time and the error, if any
func (r *RunResult) Complete(err error) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Error = err
	r.Category = CategorizeError(err)
}

// Success reports whether the run finished without error
func (r *RunResult) Success() bool {
	return r.Error == nil
}

// RowsRemoved sums the rows dropped by row-removing cleaning actions
func (r *RunResult) RowsRemoved() int {
	removed := 0
	for _, entry := range r.Log {
		if strings.HasPrefix(entry.Action, "removed") {
			removed += entry.Count
		}
	}
	return removed
}

// BatchSummary aggregates the results of a batch
type BatchSummary struct {
	Results         []*RunResult
	Succeeded       []string
	Failed          map[string]error
	ErrorCategories map[ErrorCategory]int
	CleaningActions int
	RowsRemoved     int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// NewBatchSummary initializes an empty summary
func NewBatchSummary() *BatchSummary {
	return &BatchSummary{
		Succeeded:       make([]string, 0),
		Failed:          make(map[string]error),
		ErrorCategories: make(map[ErrorCategory]int),
		StartTime:       time.Now(),
	}
}

// AddResult incorporates a run result into the summary
func (s *BatchSummary) AddResult(result *RunResult) {
	s.Results = append(s.Results, result)
	if result.Success() {
		s.Succeeded = append(s.Succeeded, result.Dataset)
		s.CleaningActions += len(result.Log)
		s.RowsRemoved += result.RowsRemoved()
		return
	}
	s.Failed[result.Dataset] = result.Error
	s.ErrorCategories[result.Category]++
}

// Complete marks the batch as complete and calculates duration
func (s *BatchSummary) Complete() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

// Total returns the number of datasets in the batch
func (s *BatchSummary) Total() int {
	return len(s.Results)
}

// Throughput returns datasets per second
func (s *BatchSummary) Throughput() float64 {
	if s.Duration.Seconds() <= 0 {
		return 0
	}
	return float64(s.Total()) / s.Duration.Seconds()
}

// SuccessRate returns the percentage of datasets processed successfully
func (s *BatchSummary) SuccessRate() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(len(s.Succeeded)) / float64(s.Total()) * 100
}
