// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/David-Botos/data-quality/pkg/assessor"
	"github.com/David-Botos/data-quality/pkg/cleaner"
	"github.com/David-Botos/data-quality/pkg/model"
)

// Report phases
const (
	PhaseBefore = "before"
	PhaseAfter  = "after"
)

// ResultSink persists the outputs of a run
type ResultSink interface {
	SaveReport(ctx context.Context, runID, phase string, report *model.QualityReport) error
	RecordCleaningLog(ctx context.Context, dataset string, entries []model.CleaningLogEntry) error
	WriteDataset(ctx context.Context, table string, ds *model.Dataset) error
}

// DatasetSource loads datasets by name
type DatasetSource interface {
	LoadDataset(ctx context.Context, name string) (*model.Dataset, error)
}

// Pipeline orchestrates assessment, cleaning and reassessment of datasets
type Pipeline struct {
	assessor    *assessor.Assessor
	cleaner     *cleaner.DataCleaner
	verifier    *Verifier
	sink        ResultSink
	metrics     *PipelineMetrics
	workerCount int
	logger      *zap.Logger
}

// NewPipeline creates a new pipeline. sink and metrics may be nil.
// A workerCount of 0 uses one worker per CPU.
func NewPipeline(
	a *assessor.Assessor,
	c *cleaner.DataCleaner,
	sink ResultSink,
	metrics *PipelineMetrics,
	workerCount int,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("pipeline")

	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	return &Pipeline{
		assessor:    a,
		cleaner:     c,
		verifier:    NewVerifier(logger),
		sink:        sink,
		metrics:     metrics,
		workerCount: workerCount,
		logger:      logger,
	}
}

// WorkerCount returns the number of datasets processed concurrently
func (p *Pipeline) WorkerCount() int {
	return p.workerCount
}

// Run assesses, cleans and reassesses one dataset. The returned result
// carries the error as well, so batch callers can record it.
func (p *Pipeline) Run(ctx context.Context, job DatasetJob) (*RunResult, error) {
	result := newRunResult(job)
	err := p.run(ctx, job, result)
	result.Complete(err)
	p.metrics.RecordRun(result)

	if err != nil {
		p.logger.Error("Dataset run failed",
			zap.String("dataset", result.Dataset),
			zap.String("runID", result.RunID),
			zap.String("category", result.Category.String()),
			zap.Error(err))
		return result, err
	}

	p.logger.Info("Dataset run completed",
		zap.String("dataset", result.Dataset),
		zap.String("runID", result.RunID),
		zap.Int("rowsBefore", result.Summary.RowsBefore),
		zap.Int("rowsAfter", result.Summary.RowsAfter),
		zap.Int("cleaningActions", len(result.Log)),
		zap.Duration("duration", result.Duration))
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, job DatasetJob, result *RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if job.Dataset == nil {
		return model.NewFormatError(job.Name(), "job has no dataset")
	}

	// 1. Assess the raw dataset
	before, err := p.assessor.Assess(job.Dataset)
	if err != nil {
		return fmt.Errorf("failed to assess %s: %w", job.Name(), err)
	}
	result.Before = before
	p.metrics.RecordReport(PhaseBefore, before)

	// 2. Clean
	cleaned, log, err := p.cleaner.CleanWithRunID(job.ID, job.Dataset)
	if err != nil {
		return fmt.Errorf("failed to clean %s: %w", job.Name(), err)
	}
	result.Cleaned = cleaned
	result.Log = log
	result.Summary = model.SummarizeCleaning(job.ID, job.Name(), job.Dataset.RowCount(), cleaned.RowCount(), log)
	p.metrics.RecordCleaningLog(log)

	// 3. Reassess the cleaned dataset
	after, err := p.assessor.Assess(cleaned)
	if err != nil {
		return fmt.Errorf("failed to reassess %s: %w", job.Name(), err)
	}
	result.After = after
	p.metrics.RecordReport(PhaseAfter, after)

	// 4. Verify the cleaning improved the dataset
	comparison, err := p.verifier.Compare(before, after)
	if err != nil {
		return fmt.Errorf("failed to verify %s: %w", job.Name(), err)
	}
	result.Comparison = comparison

	// 5. Persist
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.persist(ctx, job, result)
}

// persist hands reports, log and cleaned data to the sink
func (p *Pipeline) persist(ctx context.Context, job DatasetJob, result *RunResult) error {
	if p.sink == nil {
		return nil
	}

	if err := p.sink.SaveReport(ctx, job.ID, PhaseBefore, result.Before); err != nil {
		return &StorageError{Op: "save before report", Err: err}
	}
	if err := p.sink.SaveReport(ctx, job.ID, PhaseAfter, result.After); err != nil {
		return &StorageError{Op: "save after report", Err: err}
	}
	if err := p.sink.RecordCleaningLog(ctx, job.Name(), result.Log); err != nil {
		return &StorageError{Op: "record cleaning log", Err: err}
	}
	if job.OutputTable != "" {
		if err := p.sink.WriteDataset(ctx, job.OutputTable, result.Cleaned); err != nil {
			return &StorageError{Op: "write cleaned dataset", Err: err}
		}
	}

	p.logger.Debug("Persisted run results",
		zap.String("dataset", job.Name()),
		zap.String("runID", job.ID),
		zap.String("outputTable", job.OutputTable))
	return nil
}

// RunBatch processes jobs concurrently. A failing dataset never stops the
// others; its error is recorded in the summary. The returned error is set
// only when ctx was canceled.
func (p *Pipeline) RunBatch(ctx context.Context, jobs []DatasetJob) (*BatchSummary, error) {
	loaders := make([]func(context.Context) (DatasetJob, error), len(jobs))
	for i, job := range jobs {
		job := job
		loaders[i] = func(context.Context) (DatasetJob, error) { return job, nil }
	}
	return p.runAll(ctx, loaders)
}

// RunFromSource loads each named dataset from source and processes it.
// Cleaned datasets are written to "<name>_clean" when a sink is configured.
func (p *Pipeline) RunFromSource(ctx context.Context, source DatasetSource, names ...string) (*BatchSummary, error) {
	loaders := make([]func(context.Context) (DatasetJob, error), len(names))
	for i, name := range names {
		name := name
		loaders[i] = func(ctx context.Context) (DatasetJob, error) {
			ds, err := source.LoadDataset(ctx, name)
			if err != nil {
				job := NewDatasetJob(nil)
				job.ID = name
				return job, &StorageError{Op: "load dataset " + name, Err: err}
			}
			return NewDatasetJob(ds).WithOutputTable(ds.Name + "_clean"), nil
		}
	}
	return p.runAll(ctx, loaders)
}

// runAll runs loaders with bounded concurrency and collects results in input order
func (p *Pipeline) runAll(ctx context.Context, loaders []func(context.Context) (DatasetJob, error)) (*BatchSummary, error) {
	summary := NewBatchSummary()
	results := make([]*RunResult, len(loaders))

	p.logger.Info("Starting batch",
		zap.Int("datasets", len(loaders)),
		zap.Int("workers", p.workerCount))

	var g errgroup.Group
	g.SetLimit(p.workerCount)

	for i, load := range loaders {
		i, load := i, load
		g.Go(func() error {
			job, err := load(ctx)
			var result *RunResult
			if err != nil {
				result = newRunResult(job)
				result.Complete(err)
				p.metrics.RecordRun(result)
				p.logger.Error("Failed to load dataset",
					zap.String("dataset", result.Dataset),
					zap.Error(err))
			} else {
				result, _ = p.Run(ctx, job)
			}

			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range results {
		summary.AddResult(result)
	}
	summary.Complete()
	p.metrics.LogSummary(summary)

	p.logger.Info("Batch completed",
		zap.Int("succeeded", len(summary.Succeeded)),
		zap.Int("failed", len(summary.Failed)),
		zap.Duration("duration", summary.Duration))

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}
