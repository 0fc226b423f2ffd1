// pkg/connector/snowflake.go
package connector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	sf "github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/config"
	"github.com/David-Botos/data-quality/pkg/converter"
	"github.com/David-Botos/data-quality/pkg/model"
)

// SnowflakeConnector reads integrated tables from the warehouse as datasets
type SnowflakeConnector struct {
	db        *sqlx.DB
	logger    *zap.Logger
	cfg       *config.SnowflakeConfig
	converter *converter.TypeConverter
}

// NewSnowflakeConnector creates a new Snowflake connection
func NewSnowflakeConnector(
	ctx context.Context,
	cfg *config.SnowflakeConfig,
	conv *converter.TypeConverter,
	logger *zap.Logger,
) (*SnowflakeConnector, error) {
	logger = logger.Named("snowflake-connector")

	if err := validateIdentifier("schema", cfg.Schema); err != nil {
		return nil, err
	}

	// Log connection attempt (without credentials)
	logger.Info("Connecting to Snowflake",
		zap.String("account", cfg.Account),
		zap.String("user", cfg.User),
		zap.String("database", cfg.Database),
		zap.String("schema", cfg.Schema),
		zap.String("warehouse", cfg.Warehouse),
		zap.String("role", cfg.Role))

	dsn, err := sf.DSN(cfg.DSNConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build Snowflake DSN: %w", err)
	}

	// Open connection pool
	db, err := sqlx.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Snowflake connection: %w", err)
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
	if err := PingWithTimeout(ctx, db, 10*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Snowflake: %w", err)
	}

	connector := &SnowflakeConnector{
		db:        db,
		logger:    logger,
		cfg:       cfg,
		converter: conv,
	}

	LogConnectionStats(logger, cfg.Database, db)
	return connector, nil
}

// DB returns the underlying database handle
func (c *SnowflakeConnector) DB() *sqlx.DB {
	return c.db
}

// Validate verifies the Snowflake connection and access rights
func (c *SnowflakeConnector) Validate(ctx context.Context) error {
	var session struct {
		Role      string `db:"ROLE"`
		Database  string `db:"DATABASE"`
		Warehouse string `db:"WAREHOUSE"`
	}
	err := c.db.GetContext(ctx, &session,
		`SELECT CURRENT_ROLE() AS "ROLE", CURRENT_DATABASE() AS "DATABASE", CURRENT_WAREHOUSE() AS "WAREHOUSE"`)
	if err != nil {
		return fmt.Errorf("failed to verify Snowflake access: %w", err)
	}

	c.logger.Info("Connected to Snowflake",
		zap.String("role", session.Role),
		zap.String("database", session.Database),
		zap.String("warehouse", session.Warehouse))

	// Verify we're connected to the correct database
	if !strings.EqualFold(session.Database, c.cfg.Database) {
		return fmt.Errorf("connected to wrong database: %s (expected: %s)",
			session.Database, c.cfg.Database)
	}

	return nil
}

// Close closes the database connection
func (c *SnowflakeConnector) Close() error {
	c.logger.Info("Closing Snowflake connection")
	LogConnectionStats(c.logger, c.cfg.Database, c.db)
	return c.db.Close()
}

// LoadDataset reads a table from the configured schema into a typed dataset.
// Column types reported by the warehouse refine the inferred kinds.
func (c *SnowflakeConnector) LoadDataset(ctx context.Context, table string) (*model.Dataset, error) {
	if err := validateIdentifier("table", table); err != nil {
		return nil, err
	}

	if c.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.QueryTimeout)
		defer cancel()
	}

	query := selectTableStatement(c.cfg.Schema, table)
	c.logger.Info("Loading dataset from Snowflake",
		zap.String("schema", c.cfg.Schema),
		zap.String("table", table))

	rows, err := c.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types of %s: %w", table, err)
	}
	hints := make(map[string]model.ColumnKind, len(columnTypes))
	for _, ct := range columnTypes {
		if kind, ok := converter.KindFromWarehouseType(ct.DatabaseTypeName()); ok {
			hints[ct.Name()] = kind
		}
	}

	var values [][]interface{}
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", table, err)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows of %s: %w", table, err)
	}

	ds, err := c.converter.BuildDatasetWithHints(strings.ToLower(table), columns, values, hints)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset from %s: %w", table, err)
	}

	c.logger.Info("Loaded dataset from Snowflake",
		zap.String("table", table),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()))
	return ds, nil
}

// selectTableStatement builds the full-table query for a dataset
func selectTableStatement(schema, table string) string {
	return fmt.Sprintf("SELECT * FROM %s.%s", schema, table)
}
