// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/David-Botos/data-quality/pkg/model"
)

// Config represents the application configuration
type Config struct {
	// Assessment and cleaning parameters
	Quality QualityConfig

	// Optional database connections (nil when not configured)
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig

	// Pipeline settings
	WorkerPoolSize int

	// Logging
	LogLevel  string
	LogFormat string
}

// QualityConfig holds every threshold used by the assessor and the cleaner
type QualityConfig struct {
	// A row survives missing-value handling only with at least
	// column_count * RowMissingThreshold present cells. Default 0.5.
	RowMissingThreshold float64

	// Tukey multiplier for extreme outliers in the assessor. Default 3.
	OutlierIQRMultiplier float64

	// Columns with fewer present values are skipped by outlier detection. Default 4.
	MinOutlierSamples int

	// Winsorization percentile band in the cleaner. Defaults 1 and 99.
	WinsorizeLowerPercentile float64
	WinsorizeUpperPercentile float64

	// Valid time-key domains. Defaults 2013-2022 and 1-12.
	ValidYearMin  int
	ValidYearMax  int
	ValidMonthMin int
	ValidMonthMax int

	// Column names recognized for each schema role
	YearColumns   []string
	MonthColumns  []string
	EntityColumns []string

	// Numeric columns where negative values are legitimate (e.g., anomalies)
	AllowNegativeColumns []string

	// Decimal places kept for non-time numeric columns. Default 2.
	RoundingPrecision int
}

// DefaultQualityConfig returns the documented defaults
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		RowMissingThreshold:      0.5,
		OutlierIQRMultiplier:     3,
		MinOutlierSamples:        4,
		WinsorizeLowerPercentile: 1,
		WinsorizeUpperPercentile: 99,
		ValidYearMin:             2013,
		ValidYearMax:             2022,
		ValidMonthMin:            1,
		ValidMonthMax:            12,
		YearColumns:              []string{"year"},
		MonthColumns:             []string{"month"},
		EntityColumns:            []string{"city"},
		RoundingPrecision:        2,
	}
}

// Validate checks that thresholds are usable
func (q QualityConfig) Validate() error {
	if q.RowMissingThreshold <= 0 || q.RowMissingThreshold > 1 {
		return fmt.Errorf("row missing threshold must be in (0, 1], got %v", q.RowMissingThreshold)
	}
	if q.OutlierIQRMultiplier <= 0 {
		return fmt.Errorf("outlier IQR multiplier must be positive, got %v", q.OutlierIQRMultiplier)
	}
	if q.MinOutlierSamples < 1 {
		return errors.New("minimum outlier samples must be at least 1")
	}
	if q.WinsorizeLowerPercentile < 0 || q.WinsorizeUpperPercentile > 100 ||
		q.WinsorizeLowerPercentile >= q.WinsorizeUpperPercentile {
		return fmt.Errorf("invalid winsorization band [%v, %v]",
			q.WinsorizeLowerPercentile, q.WinsorizeUpperPercentile)
	}
	if q.ValidYearMin > q.ValidYearMax {
		return fmt.Errorf("invalid year range %d-%d", q.ValidYearMin, q.ValidYearMax)
	}
	if q.ValidMonthMin > q.ValidMonthMax {
		return fmt.Errorf("invalid month range %d-%d", q.ValidMonthMin, q.ValidMonthMax)
	}
	if q.RoundingPrecision < 0 {
		return errors.New("rounding precision cannot be negative")
	}
	return nil
}

// NegativeAllowed reports whether negatives are legitimate in a column
func (q QualityConfig) NegativeAllowed(column string) bool {
	for _, c := range q.AllowNegativeColumns {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}

// RoleHints returns the column names used to detect schema roles
func (q QualityConfig) RoleHints() model.RoleHints {
	return model.RoleHints{
		Year:   q.YearColumns,
		Month:  q.MonthColumns,
		Entity: q.EntityColumns,
	}
}

// LoadConfig loads configuration from an optional .env file and environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Quality:        LoadQualityConfig(),
		WorkerPoolSize: getEnvAsInt("WORKER_POOL_SIZE", 0), // 0 means use runtime.NumCPU()
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	// Database sections are optional; load them only when configured
	if os.Getenv("SNOWFLAKE_ACCOUNT") != "" {
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load Snowflake configuration: %w", err)
		}
		cfg.Snowflake = snowConfig
	}

	if os.Getenv("POSTGRES_DB") != "" {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load PostgreSQL configuration: %w", err)
		}
		cfg.Postgres = pgConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadQualityConfig overlays QUALITY_* environment variables on the defaults
func LoadQualityConfig() QualityConfig {
	q := DefaultQualityConfig()
	q.RowMissingThreshold = getEnvAsFloat("QUALITY_ROW_MISSING_THRESHOLD", q.RowMissingThreshold)
	q.OutlierIQRMultiplier = getEnvAsFloat("QUALITY_OUTLIER_MULTIPLIER", q.OutlierIQRMultiplier)
	q.MinOutlierSamples = getEnvAsInt("QUALITY_MIN_OUTLIER_SAMPLES", q.MinOutlierSamples)
	q.WinsorizeLowerPercentile = getEnvAsFloat("QUALITY_WINSOR_LOWER", q.WinsorizeLowerPercentile)
	q.WinsorizeUpperPercentile = getEnvAsFloat("QUALITY_WINSOR_UPPER", q.WinsorizeUpperPercentile)
	q.ValidYearMin = getEnvAsInt("QUALITY_YEAR_MIN", q.ValidYearMin)
	q.ValidYearMax = getEnvAsInt("QUALITY_YEAR_MAX", q.ValidYearMax)
	q.ValidMonthMin = getEnvAsInt("QUALITY_MONTH_MIN", q.ValidMonthMin)
	q.ValidMonthMax = getEnvAsInt("QUALITY_MONTH_MAX", q.ValidMonthMax)
	q.YearColumns = getEnvAsStringSlice("QUALITY_YEAR_COLUMNS", q.YearColumns)
	q.MonthColumns = getEnvAsStringSlice("QUALITY_MONTH_COLUMNS", q.MonthColumns)
	q.EntityColumns = getEnvAsStringSlice("QUALITY_ENTITY_COLUMNS", q.EntityColumns)
	q.AllowNegativeColumns = getEnvAsStringSlice("QUALITY_ALLOW_NEGATIVE", q.AllowNegativeColumns)
	q.RoundingPrecision = getEnvAsInt("QUALITY_ROUNDING_PRECISION", q.RoundingPrecision)
	return q
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.Quality.Validate(); err != nil {
		return fmt.Errorf("invalid quality configuration: %w", err)
	}

	if c.WorkerPoolSize < 0 {
		return errors.New("worker pool size cannot be negative")
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
