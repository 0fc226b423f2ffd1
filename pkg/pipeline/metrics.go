// pkg/pipeline/metrics.go
package pipeline

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/model"
)

const metricsNamespace = "data_quality"

// PipelineMetrics tracks dataset runs, cleaning activity and completeness
type PipelineMetrics struct {
	logger *zap.Logger

	datasetsProcessed *prometheus.CounterVec
	cleaningActions   *prometheus.CounterVec
	rowsRemoved       *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	completeness      *prometheus.GaugeVec
	runDuration       prometheus.Histogram
}

// NewPipelineMetrics creates the collectors and registers them on reg.
// A nil registerer leaves the collectors unregistered.
func NewPipelineMetrics(reg prometheus.Registerer, logger *zap.Logger) (*PipelineMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &PipelineMetrics{
		logger: logger,
		datasetsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "datasets_processed_total",
			Help:      "Datasets processed by the pipeline, by outcome.",
		}, []string{"status"}),
		cleaningActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cleaning_actions_total",
			Help:      "Cleaning log entries produced, by stage.",
		}, []string{"stage"}),
		rowsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_removed_total",
			Help:      "Rows removed by the cleaner, by stage.",
		}, []string{"stage"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Failed dataset runs, by error category.",
		}, []string{"category"}),
		completeness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "completeness_percentage",
			Help:      "Share of present cells in the most recent report, by dataset and phase.",
		}, []string{"dataset", "phase"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a full assess, clean and reassess run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	if reg != nil {
		for _, c := range pm.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register pipeline metrics: %w", err)
			}
		}
	}

	return pm, nil
}

func (pm *PipelineMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		pm.datasetsProcessed,
		pm.cleaningActions,
		pm.rowsRemoved,
		pm.errorsTotal,
		pm.completeness,
		pm.runDuration,
	}
}

// RecordReport sets the completeness gauge for a dataset and phase
func (pm *PipelineMetrics) RecordReport(phase string, report *model.QualityReport) {
	if pm == nil || report == nil {
		return
	}
	pm.completeness.WithLabelValues(report.Dataset, phase).
		Set(report.Completeness.CompletenessPercentage)
}

// RecordCleaningLog counts entries per stage and the rows removed by row-dropping actions
func (pm *PipelineMetrics) RecordCleaningLog(entries []model.CleaningLogEntry) {
	if pm == nil {
		return
	}
	for _, entry := range entries {
		pm.cleaningActions.WithLabelValues(entry.Stage).Inc()
		if strings.HasPrefix(entry.Action, "removed") {
			pm.rowsRemoved.WithLabelValues(entry.Stage).Add(float64(entry.Count))
		}
	}
}

// RecordRun records the outcome and duration of one dataset run
func (pm *PipelineMetrics) RecordRun(result *RunResult) {
	if pm == nil || result == nil {
		return
	}

	status := "success"
	if result.Error != nil {
		status = "failed"
		pm.errorsTotal.WithLabelValues(result.Category.String()).Inc()
	}
	pm.datasetsProcessed.WithLabelValues(status).Inc()
	pm.runDuration.Observe(result.Duration.Seconds())

	pm.logger.Debug("Recorded run metrics",
		zap.String("dataset", result.Dataset),
		zap.String("status", status),
		zap.Duration("duration", result.Duration))
}

// LogSummary logs the aggregate outcome of a batch
func (pm *PipelineMetrics) LogSummary(summary *BatchSummary) {
	if pm == nil || summary == nil {
		return
	}

	pm.logger.Info("Pipeline batch summary",
		zap.Int("datasets", summary.Total()),
		zap.Int("succeeded", len(summary.Succeeded)),
		zap.Int("failed", len(summary.Failed)),
		zap.Int("cleaningActions", summary.CleaningActions),
		zap.Int("rowsRemoved", summary.RowsRemoved),
		zap.Duration("duration", summary.Duration),
		zap.String("throughput", fmt.Sprintf("%.2f datasets/s", summary.Throughput())))

	for category, count := range summary.ErrorCategories {
		pm.logger.Info("Errors by category",
			zap.String("category", category.String()),
			zap.Int("count", count))
	}
}
