package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/data-quality/pkg/model"
)

func report(dataset string, missing, duplicates, invalidMonths int) *model.QualityReport {
	return &model.QualityReport{
		Dataset:      dataset,
		Summary:      model.Summary{RecordCount: 10, ColumnCount: 2},
		Completeness: model.Completeness{TotalCells: 20, MissingCells: missing},
		Consistency:  model.Consistency{DuplicateRows: duplicates},
		Validity: model.Validity{ConstraintViolations: model.ConstraintViolations{
			InvalidMonths: invalidMonths,
		}},
	}
}

func TestCompareImprovement(t *testing.T) {
	v := NewVerifier(zaptest.NewLogger(t))

	c, err := v.Compare(report("weather", 4, 2, 1), report("weather", 0, 0, 0))
	require.NoError(t, err)

	assert.True(t, c.Improved())
	assert.Equal(t, 4, c.MissingBefore)
	assert.Equal(t, 0, c.MissingAfter)
	assert.False(t, c.ValidBefore)
	assert.True(t, c.ValidAfter)
}

func TestCompareFlagsRegressions(t *testing.T) {
	v := NewVerifier(zaptest.NewLogger(t))

	c, err := v.Compare(report("retail", 1, 0, 0), report("retail", 3, 1, 2))
	require.NoError(t, err)

	assert.False(t, c.Improved())
	require.Len(t, c.Issues, 3)
	assert.Equal(t, "completeness", c.Issues[0].Check)
	assert.Equal(t, "consistency", c.Issues[1].Check)
	assert.Equal(t, "validity", c.Issues[2].Check)
	assert.Equal(t, 2, c.Issues[2].After)
}

func TestCompareRequiresBothReports(t *testing.T) {
	v := NewVerifier(zaptest.NewLogger(t))

	_, err := v.Compare(nil, report("weather", 0, 0, 0))
	assert.Error(t, err)
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ErrorCategoryNone},
		{"format", fmt.Errorf("wrapped: %w", model.NewFormatError("d", "bad")), ErrorCategoryFormat},
		{"insufficient data", &model.InsufficientDataError{Column: "x", Statistic: "quartiles", Need: 4, Have: 1}, ErrorCategoryInsufficientData},
		{"storage", &StorageError{Op: "save", Err: errors.New("boom")}, ErrorCategoryStorage},
		{"connection text", errors.New("dial tcp: connection refused"), ErrorCategoryStorage},
		{"canceled", fmt.Errorf("run: %w", context.Canceled), ErrorCategoryCanceled},
		{"deadline", context.DeadlineExceeded, ErrorCategoryCanceled},
		{"canceled storage", &StorageError{Op: "load", Err: context.Canceled}, ErrorCategoryCanceled},
		{"other", errors.New("something else"), ErrorCategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeError(tt.err))
		})
	}
}

func TestErrorCategoryString(t *testing.T) {
	assert.Equal(t, "insufficient_data", ErrorCategoryInsufficientData.String())
	assert.Equal(t, "unknown(42)", ErrorCategory(42).String())
}
