// pkg/assessor/text.go
package assessor

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/David-Botos/data-quality/pkg/model"
)

const ruleWidth = 60

// WriteTextSummary renders a human-readable summary of one or more reports
func WriteTextSummary(w io.Writer, reports ...*model.QualityReport) error {
	p := message.NewPrinter(language.English)
	rule := strings.Repeat("=", ruleWidth)

	var sb strings.Builder
	sb.WriteString("DATA QUALITY ASSESSMENT SUMMARY\n")
	sb.WriteString(rule + "\n\n")

	for _, report := range reports {
		if report == nil {
			continue
		}
		sb.WriteString(strings.ToUpper(report.Dataset) + " DATASET\n")
		sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")

		sb.WriteString(p.Sprintf("Records: %d\n", report.Summary.RecordCount))
		sb.WriteString(p.Sprintf("Columns: %d\n\n", report.Summary.ColumnCount))

		completeness := report.Completeness
		sb.WriteString(p.Sprintf("Completeness: %.2f%%\n", completeness.CompletenessPercentage))
		sb.WriteString(p.Sprintf("Missing cells: %d\n", completeness.MissingCells))

		if len(completeness.ColumnsWithMissing) > 0 {
			sb.WriteString("\nColumns with missing values:\n")
			for _, col := range sortedKeys(completeness.ColumnsWithMissing) {
				info := completeness.ColumnsWithMissing[col]
				sb.WriteString(p.Sprintf("  - %s: %d (%.2f%%)\n", col, info.Count, info.Percentage))
			}
		}

		sb.WriteString(p.Sprintf("\nDuplicate rows: %d\n", report.Consistency.DuplicateRows))
		sb.WriteString(p.Sprintf("\nColumns with outliers: %d\n", len(report.Accuracy.OutliersByColumn)))

		sb.WriteString("\n" + rule + "\n\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write quality summary: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
