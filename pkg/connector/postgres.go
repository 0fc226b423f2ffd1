// pkg/connector/postgres.go
package connector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/config"
	"github.com/David-Botos/data-quality/pkg/converter"
	"github.com/David-Botos/data-quality/pkg/model"
)

// PostgresConnector stores quality reports, cleaning logs and cleaned datasets
type PostgresConnector struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.PostgresConfig
}

// reportRow is the stored form of a quality report
type reportRow struct {
	RunID     string    `db:"run_id"`
	Dataset   string    `db:"dataset"`
	Phase     string    `db:"phase"`
	Report    string    `db:"report"`
	CreatedAt time.Time `db:"created_at"`
}

// NewPostgresConnector creates and initializes a new PostgreSQL connector
func NewPostgresConnector(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PostgresConnector, error) {
	logger = logger.Named("postgres-connector")

	if err := validateIdentifier("schema", cfg.AuditSchema); err != nil {
		return nil, err
	}

	// Log connection attempt
	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	// Open database connection
	db, err := sqlx.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	// Configure connection pool
	ApplyConnectionSettings(
		db,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	// Verify connection
	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	connector := NewPostgresConnectorWithDB(db, cfg, logger)
	LogConnectionStats(logger, cfg.Database, db)
	return connector, nil
}

// NewPostgresConnectorWithDB wraps an already opened database handle
func NewPostgresConnectorWithDB(db *sqlx.DB, cfg *config.PostgresConfig, logger *zap.Logger) *PostgresConnector {
	return &PostgresConnector{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}
}

// DB returns the underlying database handle
func (c *PostgresConnector) DB() *sqlx.DB {
	return c.db
}

// Validate verifies the PostgreSQL connection and that the audit tables exist
func (c *PostgresConnector) Validate(ctx context.Context) error {
	var version string
	if err := c.db.GetContext(ctx, &version, "SELECT version()"); err != nil {
		return fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}
	c.logger.Info("Connected to PostgreSQL", zap.String("version", version))

	if err := c.EnsureAuditTables(ctx); err != nil {
		return err
	}

	c.logger.Info("PostgreSQL connection validated",
		zap.String("database", c.cfg.Database),
		zap.String("auditSchema", c.cfg.AuditSchema))
	return nil
}

// Close closes the database connection
func (c *PostgresConnector) Close() error {
	c.logger.Info("Closing PostgreSQL connection")
	LogConnectionStats(c.logger, c.cfg.Database, c.db)
	return c.db.Close()
}

// EnsureAuditTables creates the audit schema, report table and cleaning log table
func (c *PostgresConnector) EnsureAuditTables(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.statementTimeout())
	defer cancel()

	for _, stmt := range auditTableStatements(c.cfg.AuditSchema) {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create audit tables: %w", err)
		}
	}

	c.logger.Info("Ensured audit tables exist", zap.String("schema", c.cfg.AuditSchema))
	return nil
}

// SaveReport stores a quality report as JSONB under a run and phase
func (c *PostgresConnector) SaveReport(ctx context.Context, runID, phase string, report *model.QualityReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal quality report: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.statementTimeout())
	defer cancel()

	_, err = c.db.NamedExecContext(ctx, insertReportStatement(c.cfg.AuditSchema), reportRow{
		RunID:   runID,
		Dataset: report.Dataset,
		Phase:   phase,
		Report:  string(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to save quality report for %s: %w", report.Dataset, err)
	}

	c.logger.Debug("Saved quality report",
		zap.String("dataset", report.Dataset),
		zap.String("runID", runID),
		zap.String("phase", phase))
	return nil
}

// LatestReport loads the most recent report stored for a dataset and phase
func (c *PostgresConnector) LatestReport(ctx context.Context, dataset, phase string) (*model.QualityReport, error) {
	ctx, cancel := context.WithTimeout(ctx, c.statementTimeout())
	defer cancel()

	var row reportRow
	err := c.db.GetContext(ctx, &row, selectLatestReportStatement(c.cfg.AuditSchema), dataset, phase)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no %s report stored for dataset %s", phase, dataset)
		}
		return nil, fmt.Errorf("failed to load quality report: %w", err)
	}

	var report model.QualityReport
	if err := json.Unmarshal([]byte(row.Report), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quality report: %w", err)
	}
	return &report, nil
}

// RecordCleaningLog inserts cleaning log entries in a single transaction
func (c *PostgresConnector) RecordCleaningLog(ctx context.Context, dataset string, entries []model.CleaningLogEntry) (err error) {
	if len(entries) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.statementTimeout())
	defer cancel()

	// Begin transaction
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				c.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.NamedError("cause", err))
			}
		}
	}()

	// Prepare statement
	stmt, err := tx.PreparexContext(ctx, insertCleaningLogStatement(c.cfg.AuditSchema))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		_, err = stmt.ExecContext(ctx,
			entry.RunID,
			dataset,
			entry.Stage,
			entry.Action,
			sql.NullString{String: entry.Column, Valid: entry.Column != ""},
			entry.Count,
			entry.Details,
			entry.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cleaning log entry: %w", err)
		}
	}

	// Commit transaction
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.logger.Info("Recorded cleaning log",
		zap.String("dataset", dataset),
		zap.Int("count", len(entries)))
	return nil
}

// WriteDataset replaces the contents of a table with the rows of a dataset.
// The table is created from the dataset schema when it does not exist.
func (c *PostgresConnector) WriteDataset(ctx context.Context, table string, ds *model.Dataset) (err error) {
	if err := validateIdentifier("table", table); err != nil {
		return err
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("refusing to write dataset: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.statementTimeout())
	defer cancel()

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				c.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.NamedError("cause", err))
			}
		}
	}()

	schema := c.cfg.AuditSchema
	if _, err = tx.ExecContext(ctx, createDatasetTableStatement(schema, table, ds.Schema)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	if _, err = tx.ExecContext(ctx, "TRUNCATE TABLE "+qualifiedName(schema, table)); err != nil {
		return fmt.Errorf("failed to truncate table %s: %w", table, err)
	}

	inserted, err := c.batchInsert(ctx, tx, schema, table, ds, 1000)
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.logger.Info("Wrote dataset",
		zap.String("dataset", ds.Name),
		zap.String("table", table),
		zap.Int64("rows", inserted))
	return nil
}

// batchInsert inserts dataset rows in batches within a transaction
func (c *PostgresConnector) batchInsert(
	ctx context.Context,
	tx *sqlx.Tx,
	schema, table string,
	ds *model.Dataset,
	batchSize int,
) (int64, error) {
	if ds.RowCount() == 0 {
		return 0, nil
	}

	columns := ds.Schema.Names()
	batchSize = batchSizeFor(batchSize, len(columns))

	var totalRowsInserted int64
	for i := 0; i < ds.RowCount(); i += batchSize {
		end := i + batchSize
		if end > ds.RowCount() {
			end = ds.RowCount()
		}

		currentBatch := ds.Rows[i:end]
		args := make([]interface{}, 0, len(currentBatch)*len(columns))
		for _, row := range currentBatch {
			for k, cell := range row {
				args = append(args, converter.SQLValue(cell, ds.Schema.Columns[k].Kind))
			}
		}

		query := batchInsertStatement(schema, table, columns, len(currentBatch))
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return totalRowsInserted, fmt.Errorf("batch insert failed: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.logger.Warn("Couldn't get rows affected", zap.Error(err))
		} else {
			totalRowsInserted += rowsAffected
		}
	}

	return totalRowsInserted, nil
}

func (c *PostgresConnector) statementTimeout() time.Duration {
	if c.cfg.StatementTimeout > 0 {
		return c.cfg.StatementTimeout
	}
	return 30 * time.Second
}
