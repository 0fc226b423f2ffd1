package config

import (
	"testing"

	"github.com/snowflakedb/gosnowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQualityConfig(t *testing.T) {
	q := DefaultQualityConfig()

	assert.Equal(t, 0.5, q.RowMissingThreshold)
	assert.Equal(t, 3.0, q.OutlierIQRMultiplier)
	assert.Equal(t, 1.0, q.WinsorizeLowerPercentile)
	assert.Equal(t, 99.0, q.WinsorizeUpperPercentile)
	assert.Equal(t, 2013, q.ValidYearMin)
	assert.Equal(t, 2022, q.ValidYearMax)
	assert.Equal(t, 1, q.ValidMonthMin)
	assert.Equal(t, 12, q.ValidMonthMax)
	assert.Equal(t, []string{"city"}, q.EntityColumns)
	assert.NoError(t, q.Validate())
}

func TestQualityConfigValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(q *QualityConfig)
	}{
		{name: "zero threshold", mutate: func(q *QualityConfig) { q.RowMissingThreshold = 0 }},
		{name: "threshold above one", mutate: func(q *QualityConfig) { q.RowMissingThreshold = 1.5 }},
		{name: "negative multiplier", mutate: func(q *QualityConfig) { q.OutlierIQRMultiplier = -1 }},
		{name: "inverted winsor band", mutate: func(q *QualityConfig) { q.WinsorizeLowerPercentile = 99; q.WinsorizeUpperPercentile = 1 }},
		{name: "inverted years", mutate: func(q *QualityConfig) { q.ValidYearMin = 2030 }},
		{name: "no outlier samples", mutate: func(q *QualityConfig) { q.MinOutlierSamples = 0 }},
		{name: "negative precision", mutate: func(q *QualityConfig) { q.RoundingPrecision = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := DefaultQualityConfig()
			tc.mutate(&q)
			assert.Error(t, q.Validate())
		})
	}
}

func TestLoadQualityConfigFromEnv(t *testing.T) {
	t.Setenv("QUALITY_OUTLIER_MULTIPLIER", "1.5")
	t.Setenv("QUALITY_YEAR_MAX", "2024")
	t.Setenv("QUALITY_ENTITY_COLUMNS", "city, store")
	t.Setenv("QUALITY_ALLOW_NEGATIVE", "TMAX_anomaly,TMIN_anomaly")
	t.Setenv("QUALITY_MIN_OUTLIER_SAMPLES", "not-a-number")

	q := LoadQualityConfig()

	assert.Equal(t, 1.5, q.OutlierIQRMultiplier)
	assert.Equal(t, 2024, q.ValidYearMax)
	assert.Equal(t, []string{"city", "store"}, q.EntityColumns)
	assert.True(t, q.NegativeAllowed("tmax_anomaly"))
	assert.False(t, q.NegativeAllowed("TMAX_mean"))
	assert.Equal(t, 4, q.MinOutlierSamples, "unparsable values fall back to the default")
}

func TestLoadConfigWithoutDatabases(t *testing.T) {
	t.Setenv("SNOWFLAKE_ACCOUNT", "")
	t.Setenv("POSTGRES_DB", "")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("WORKER_POOL_SIZE", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Nil(t, cfg.Snowflake)
	assert.Nil(t, cfg.Postgres)
	assert.Equal(t, 3, cfg.WorkerPoolSize)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfigRejectsBadLogFormat(t *testing.T) {
	t.Setenv("SNOWFLAKE_ACCOUNT", "")
	t.Setenv("POSTGRES_DB", "")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadPostgresConfig(t *testing.T) {
	t.Setenv("SNOWFLAKE_ACCOUNT", "")
	t.Setenv("POSTGRES_USER", "auditor")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "quality")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.Postgres)

	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t, "quality", cfg.Postgres.AuditSchema)
	assert.Equal(t,
		"host=localhost port=6543 user=auditor password=secret dbname=quality sslmode=disable",
		cfg.Postgres.ConnectionString())
}

func TestLoadPostgresConfigMissingUser(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_DB", "quality")

	_, err := LoadPostgresConfig()
	assert.Error(t, err)
}

func TestSnowflakeConfig(t *testing.T) {
	t.Setenv("SNOWFLAKE_USER", "loader")
	t.Setenv("SNOWFLAKE_PASSWORD", "secret")
	t.Setenv("SNOWFLAKE_ACCOUNT", "acme-xy123")
	t.Setenv("SNOWFLAKE_WAREHOUSE", "COMPUTE_WH")
	t.Setenv("SNOWFLAKE_AUTHENTICATOR", "jwt")

	cfg, err := LoadSnowflakeConfig()
	require.NoError(t, err)

	assert.Equal(t, "PROCESSED", cfg.Schema)
	assert.Equal(t, gosnowflake.AuthTypeJwt, cfg.Authenticator)

	dsn := cfg.DSNConfig()
	assert.Equal(t, "acme-xy123", dsn.Account)
	assert.Equal(t, "COMPUTE_WH", dsn.Warehouse)
}

func TestRoleHints(t *testing.T) {
	q := DefaultQualityConfig()
	q.EntityColumns = []string{"store"}

	hints := q.RoleHints()
	assert.Equal(t, []string{"year"}, hints.Year)
	assert.Equal(t, []string{"month"}, hints.Month)
	assert.Equal(t, []string{"store"}, hints.Entity)
}
