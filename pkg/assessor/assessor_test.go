package assessor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/data-quality/pkg/config"
	"github.com/David-Botos/data-quality/pkg/model"
)

func newTestAssessor(t *testing.T) *Assessor {
	t.Helper()
	a, err := NewAssessor(config.DefaultQualityConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return a
}

func numbers(values ...float64) [][]model.Value {
	rows := make([][]model.Value, len(values))
	for i, v := range values {
		rows[i] = []model.Value{model.Number(v)}
	}
	return rows
}

func singleColumn(t *testing.T, name string, rows [][]model.Value) *model.Dataset {
	t.Helper()
	ds, err := model.NewDataset("test", model.Schema{
		Columns: []model.Column{{Name: name, Kind: model.KindNumeric}},
	}, rows)
	require.NoError(t, err)
	return ds
}

func weatherDataset(t *testing.T) *model.Dataset {
	t.Helper()
	n, s, m := model.Number, model.Text, model.Missing()
	ds, err := model.NewDataset("weather", model.Schema{
		Columns: []model.Column{
			{Name: "city", Kind: model.KindText},
			{Name: "year", Kind: model.KindNumeric},
			{Name: "month", Kind: model.KindNumeric},
			{Name: "TMAX", Kind: model.KindNumeric},
		},
		Roles: model.Roles{YearColumn: "year", MonthColumn: "month", EntityColumn: "city"},
	}, [][]model.Value{
		{s("NY"), n(2012), n(1), n(10)},
		{s("NY"), n(2020), n(13), m},
		{s("NY"), n(2020), m, n(-3)},
		{s("NY"), n(2020), m, n(-3)},
		{s("LA"), n(2022), n(6), n(25)},
	})
	require.NoError(t, err)
	return ds
}

func TestNewAssessorRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultQualityConfig()
	cfg.OutlierIQRMultiplier = 0

	_, err := NewAssessor(cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestAssessRejectsMalformedDataset(t *testing.T) {
	a := newTestAssessor(t)

	ds := &model.Dataset{
		Name: "broken",
		Schema: model.Schema{
			Columns: []model.Column{{Name: "x", Kind: model.KindNumeric}},
		},
		Rows: [][]model.Value{{model.Text("oops")}},
	}

	_, err := a.Assess(ds)
	require.Error(t, err)
	assert.True(t, model.IsFormatError(err))

	_, err = a.Assess(&model.Dataset{Name: "empty"})
	assert.True(t, model.IsFormatError(err))
}

func TestAssessOutlierWithMultiplierThree(t *testing.T) {
	a := newTestAssessor(t)
	ds := singleColumn(t, "sales", numbers(1, 2, 3, 4, 5, 6, 100))

	report, err := a.Assess(ds)
	require.NoError(t, err)

	require.Contains(t, report.Accuracy.OutliersByColumn, "sales")
	outliers := report.Accuracy.OutliersByColumn["sales"]
	assert.Equal(t, 1, outliers.Count)
	assert.InDelta(t, 100.0/7.0, outliers.Percentage, 1e-9)
	assert.InDelta(t, -6.5, outliers.Range.ExpectedMin, 1e-9)
	assert.InDelta(t, 14.5, outliers.Range.ExpectedMax, 1e-9)
	assert.Equal(t, 1.0, outliers.Range.Min)
	assert.Equal(t, 100.0, outliers.Range.Max)

	stats := report.Summary.NumericSummary["sales"]
	assert.Equal(t, 7, stats.Count)
	assert.InDelta(t, 2.5, stats.Q1, 1e-9)
	assert.InDelta(t, 4.0, stats.Median, 1e-9)
	assert.InDelta(t, 5.5, stats.Q3, 1e-9)
}

func TestAssessNoOutliersIsOmitted(t *testing.T) {
	a := newTestAssessor(t)
	ds := singleColumn(t, "sales", numbers(1, 2, 3, 4, 5, 6, 7))

	report, err := a.Assess(ds)
	require.NoError(t, err)
	assert.Empty(t, report.Accuracy.OutliersByColumn)
	assert.Empty(t, report.Accuracy.SkippedColumns)
}

func TestAssessSkipsTinyColumns(t *testing.T) {
	a := newTestAssessor(t)
	ds := singleColumn(t, "sales", numbers(1, 2, 300))

	report, err := a.Assess(ds)
	require.NoError(t, err)

	assert.Empty(t, report.Accuracy.OutliersByColumn)
	require.Contains(t, report.Accuracy.SkippedColumns, "sales")
	assert.Contains(t, report.Accuracy.SkippedColumns["sales"], "needs at least 4 values, have 3")

	// Quartiles stay defined for small columns
	assert.Contains(t, report.Summary.NumericSummary, "sales")
}

func TestAssessCompleteness(t *testing.T) {
	a := newTestAssessor(t)

	report, err := a.Assess(weatherDataset(t))
	require.NoError(t, err)

	c := report.Completeness
	assert.Equal(t, 20, c.TotalCells)
	assert.Equal(t, 3, c.MissingCells)
	assert.InDelta(t, 85.0, c.CompletenessPercentage, 1e-9)
	assert.Equal(t, 2, c.ColumnsWithMissing["month"].Count)
	assert.InDelta(t, 40.0, c.ColumnsWithMissing["month"].Percentage, 1e-9)
	assert.Equal(t, 1, c.ColumnsWithMissing["TMAX"].Count)
	assert.InDelta(t, 20.0, c.ColumnsWithMissing["TMAX"].Percentage, 1e-9)
	assert.NotContains(t, c.ColumnsWithMissing, "city")
	assert.GreaterOrEqual(t, c.CompletenessPercentage, 0.0)
	assert.LessOrEqual(t, c.CompletenessPercentage, 100.0)
}

func TestAssessZeroRowDatasetIsComplete(t *testing.T) {
	a := newTestAssessor(t)
	ds := singleColumn(t, "sales", nil)

	report, err := a.Assess(ds)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Summary.RecordCount)
	assert.Equal(t, 100.0, report.Completeness.CompletenessPercentage)
	assert.Empty(t, report.Summary.NumericSummary)
}

func TestAssessConsistency(t *testing.T) {
	cfg := config.DefaultQualityConfig()
	a, err := NewAssessor(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	report, err := a.Assess(weatherDataset(t))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Consistency.DuplicateRows)
	assert.Equal(t, map[string]int{"TMAX": 2}, report.Consistency.ColumnsWithNegatives)

	cfg.AllowNegativeColumns = []string{"tmax"}
	a, err = NewAssessor(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	report, err = a.Assess(weatherDataset(t))
	require.NoError(t, err)
	assert.Empty(t, report.Consistency.ColumnsWithNegatives)
}

func TestAssessValidity(t *testing.T) {
	a := newTestAssessor(t)

	report, err := a.Assess(weatherDataset(t))
	require.NoError(t, err)

	violations := report.Validity.ConstraintViolations
	require.NotNil(t, violations.YearRange)
	assert.Equal(t, "2013-2022", violations.YearRange.Expected)
	assert.Equal(t, "2012-2022", violations.YearRange.Actual)
	// One out-of-range month plus two missing months
	assert.Equal(t, 3, violations.InvalidMonths)
	assert.True(t, report.Validity.HasViolations())
}

func TestAssessValidityWithoutTimeKey(t *testing.T) {
	a := newTestAssessor(t)
	ds := singleColumn(t, "year", numbers(1990, 2050))

	report, err := a.Assess(ds)
	require.NoError(t, err)
	assert.False(t, report.Validity.HasViolations())
}

func TestAssessIsIdempotent(t *testing.T) {
	a := newTestAssessor(t)
	ds := weatherDataset(t)
	before := ds.Clone()

	first, err := a.Assess(ds)
	require.NoError(t, err)
	second, err := a.Assess(ds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, ds, "assessment must not modify the dataset")
}

func TestAssessAllNumericDataset(t *testing.T) {
	a := newTestAssessor(t)
	ds, err := model.NewDataset("retail", model.Schema{
		Columns: []model.Column{
			{Name: "year", Kind: model.KindNumeric},
			{Name: "sales", Kind: model.KindNumeric},
		},
		Roles: model.Roles{YearColumn: "year"},
	}, [][]model.Value{
		{model.Number(2015), model.Number(10)},
		{model.Number(2016), model.Number(12)},
	})
	require.NoError(t, err)

	report, err := a.Assess(ds)
	require.NoError(t, err)

	assert.Len(t, report.Summary.NumericSummary, 2)
	assert.Equal(t, 100.0, report.Completeness.CompletenessPercentage)
	assert.Nil(t, report.Validity.ConstraintViolations.YearRange)
	assert.Zero(t, report.Validity.ConstraintViolations.InvalidMonths)
}

func TestWriteTextSummary(t *testing.T) {
	report := &model.QualityReport{
		Dataset: "weather",
		Summary: model.Summary{RecordCount: 12345, ColumnCount: 7},
		Completeness: model.Completeness{
			CompletenessPercentage: 97.5,
			MissingCells:           2160,
			ColumnsWithMissing: map[string]model.MissingColumn{
				"TMIN": {Count: 10, Percentage: 0.081},
				"PRCP": {Count: 2150, Percentage: 17.4159},
			},
		},
		Consistency: model.Consistency{DuplicateRows: 4},
		Accuracy: model.Accuracy{OutliersByColumn: map[string]model.OutlierColumn{
			"PRCP": {Count: 3},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTextSummary(&buf, report, nil))

	out := buf.String()
	assert.Contains(t, out, "DATA QUALITY ASSESSMENT SUMMARY")
	assert.Contains(t, out, "WEATHER DATASET")
	assert.Contains(t, out, "Records: 12,345\n")
	assert.Contains(t, out, "Columns: 7\n")
	assert.Contains(t, out, "Completeness: 97.50%\n")
	assert.Contains(t, out, "Missing cells: 2,160\n")
	assert.Contains(t, out, "  - PRCP: 2,150 (17.42%)\n")
	assert.Contains(t, out, "  - TMIN: 10 (0.08%)\n")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("PRCP:")), bytes.Index(buf.Bytes(), []byte("TMIN:")))
	assert.Contains(t, out, "Duplicate rows: 4\n")
	assert.Contains(t, out, "Columns with outliers: 1\n")
}
