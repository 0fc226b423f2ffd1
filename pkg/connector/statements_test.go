package connector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-quality/pkg/model"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "weather_data", false},
		{"upper case", "INTEGRATED_DATA", false},
		{"dollar sign", "t$1", false},
		{"leading underscore", "_staging", false},
		{"empty", "", true},
		{"leading digit", "1table", true},
		{"dot", "schema.table", true},
		{"injection", "t; DROP TABLE x", true},
		{"quote", `t"x`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateIdentifier("table", tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, `"quality"."cleaning_log"`, qualifiedName("quality", "cleaning_log"))
}

func TestAuditTableStatements(t *testing.T) {
	stmts := auditTableStatements("quality")
	require.Len(t, stmts, 3)

	assert.Equal(t, `CREATE SCHEMA IF NOT EXISTS "quality"`, stmts[0])
	assert.Contains(t, stmts[1], `CREATE TABLE IF NOT EXISTS "quality"."quality_reports"`)
	assert.Contains(t, stmts[1], "report JSONB NOT NULL")
	assert.Contains(t, stmts[2], `CREATE TABLE IF NOT EXISTS "quality"."cleaning_log"`)
	assert.Contains(t, stmts[2], "column_name TEXT,")
}

func TestReportStatements(t *testing.T) {
	insert := insertReportStatement("quality")
	assert.Contains(t, insert, `INSERT INTO "quality"."quality_reports"`)
	assert.Contains(t, insert, ":run_id, :dataset, :phase, :report")

	latest := selectLatestReportStatement("quality")
	assert.Contains(t, latest, "WHERE dataset = $1 AND phase = $2")
	assert.True(t, strings.HasSuffix(latest, "LIMIT 1"))
}

func TestInsertCleaningLogStatement(t *testing.T) {
	stmt := insertCleaningLogStatement("quality")
	assert.Contains(t, stmt, `INSERT INTO "quality"."cleaning_log"`)
	assert.Contains(t, stmt, "VALUES ($1, $2, $3, $4, $5, $6, $7, $8)")
}

func TestCreateDatasetTableStatement(t *testing.T) {
	schema := model.Schema{Columns: []model.Column{
		{Name: "year", Kind: model.KindInteger},
		{Name: "TMAX", Kind: model.KindNumeric},
		{Name: "city", Kind: model.KindText},
	}}

	stmt := createDatasetTableStatement("quality", "weather_clean", schema)
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS \"quality\".\"weather_clean\" (\n"+
			"\t\"year\" BIGINT,\n"+
			"\t\"TMAX\" DOUBLE PRECISION,\n"+
			"\t\"city\" TEXT\n)",
		stmt)
}

func TestBatchInsertStatement(t *testing.T) {
	stmt := batchInsertStatement("quality", "retail_clean", []string{"year", "sales"}, 2)
	assert.Equal(t,
		`INSERT INTO "quality"."retail_clean" ("year", "sales") VALUES ($1, $2), ($3, $4)`,
		stmt)
}

func TestBatchSizeFor(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		columns   int
		want      int
	}{
		{"default when unset", 0, 5, 1000},
		{"requested within limit", 500, 10, 500},
		{"capped by bind parameters", 1000, 100, 655},
		{"no columns", 250, 0, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, batchSizeFor(tt.requested, tt.columns))
		})
	}
}

func TestSelectTableStatement(t *testing.T) {
	assert.Equal(t, "SELECT * FROM PROCESSED.WEATHER_DATA", selectTableStatement("PROCESSED", "WEATHER_DATA"))
}
