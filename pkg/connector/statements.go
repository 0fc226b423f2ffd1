// pkg/connector/statements.go
package connector

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/David-Botos/data-quality/pkg/converter"
	"github.com/David-Botos/data-quality/pkg/model"
)

// Audit table names inside the audit schema
const (
	reportsTable     = "quality_reports"
	cleaningLogTable = "cleaning_log"
)

// Postgres accepts at most 65535 bind parameters per statement
const maxBindParams = 65535

// qualifiedName quotes and joins a schema and table name
func qualifiedName(schema, table string) string {
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

// auditTableStatements returns the DDL that creates the audit schema and tables
func auditTableStatements(schema string) []string {
	return []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pq.QuoteIdentifier(schema)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id SERIAL PRIMARY KEY,
	run_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	phase TEXT NOT NULL,
	report JSONB NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
)`, qualifiedName(schema, reportsTable)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id SERIAL PRIMARY KEY,
	run_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	stage TEXT NOT NULL,
	action TEXT NOT NULL,
	column_name TEXT,
	affected_count INTEGER NOT NULL,
	details TEXT NOT NULL,
	logged_at TIMESTAMP WITH TIME ZONE NOT NULL
)`, qualifiedName(schema, cleaningLogTable)),
	}
}

// insertReportStatement returns the named insert used for quality reports
func insertReportStatement(schema string) string {
	return fmt.Sprintf(`INSERT INTO %s (run_id, dataset, phase, report)
VALUES (:run_id, :dataset, :phase, :report)`, qualifiedName(schema, reportsTable))
}

// selectLatestReportStatement returns the query for the newest report of a dataset and phase
func selectLatestReportStatement(schema string) string {
	return fmt.Sprintf(`SELECT run_id, dataset, phase, report, created_at
FROM %s
WHERE dataset = $1 AND phase = $2
ORDER BY created_at DESC, id DESC
LIMIT 1`, qualifiedName(schema, reportsTable))
}

// insertCleaningLogStatement returns the prepared insert for cleaning log entries
func insertCleaningLogStatement(schema string) string {
	return fmt.Sprintf(`INSERT INTO %s
(run_id, dataset, stage, action, column_name, affected_count, details, logged_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, qualifiedName(schema, cleaningLogTable))
}

// createDatasetTableStatement returns the DDL for a table matching a dataset schema
func createDatasetTableStatement(schema, table string, dsSchema model.Schema) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		qualifiedName(schema, table),
		strings.Join(converter.ColumnDefinitions(dsSchema), ",\n\t"))
}

// batchInsertStatement builds a multi-row insert with positional placeholders
func batchInsertStatement(schema, table string, columns []string, rowCount int) string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = pq.QuoteIdentifier(col)
	}

	placeholders := make([]string, rowCount)
	for j := 0; j < rowCount; j++ {
		rowPlaceholders := make([]string, len(columns))
		for k := range columns {
			rowPlaceholders[k] = fmt.Sprintf("$%d", j*len(columns)+k+1)
		}
		placeholders[j] = fmt.Sprintf("(%s)", strings.Join(rowPlaceholders, ", "))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		qualifiedName(schema, table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// batchSizeFor caps the rows per insert so the bind parameters stay within limits
func batchSizeFor(requested, columns int) int {
	if requested <= 0 {
		requested = 1000
	}
	if columns <= 0 {
		return requested
	}
	if limit := maxBindParams / columns; requested > limit {
		return limit
	}
	return requested
}
