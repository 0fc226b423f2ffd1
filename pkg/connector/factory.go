// pkg/connector/factory.go
package connector

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/data-quality/pkg/config"
	"github.com/David-Botos/data-quality/pkg/converter"
)

// ConnectorFactory creates database connectors
type ConnectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger) *ConnectorFactory {
	return &ConnectorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSnowflakeConnector creates a new Snowflake connector
func (f *ConnectorFactory) CreateSnowflakeConnector(ctx context.Context) (*SnowflakeConnector, error) {
	if f.cfg.Snowflake == nil {
		return nil, errors.New("snowflake is not configured")
	}
	f.logger.Info("Creating Snowflake connector")

	conv := converter.NewTypeConverterWithConfig(f.logger.Named("converter"), converter.TypeConverterConfig{
		RoleHints:           f.cfg.Quality.RoleHints(),
		NullTokens:          converter.DefaultConfig().NullTokens,
		ParseNumericStrings: true,
	})

	connector, err := NewSnowflakeConnector(ctx, f.cfg.Snowflake, conv, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
	}

	return connector, nil
}

// CreatePostgresConnector creates a new PostgreSQL connector
func (f *ConnectorFactory) CreatePostgresConnector(ctx context.Context) (*PostgresConnector, error) {
	if f.cfg.Postgres == nil {
		return nil, errors.New("postgres is not configured")
	}
	f.logger.Info("Creating PostgreSQL connector")

	connector, err := NewPostgresConnector(ctx, f.cfg.Postgres, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
	}

	return connector, nil
}

// CreateAllConnectors creates both Snowflake and PostgreSQL connectors
func (f *ConnectorFactory) CreateAllConnectors(ctx context.Context) (*SnowflakeConnector, *PostgresConnector, error) {
	snowConn, err := f.CreateSnowflakeConnector(ctx)
	if err != nil {
		return nil, nil, err
	}

	pgConn, err := f.CreatePostgresConnector(ctx)
	if err != nil {
		snowConn.Close() // Clean up the Snowflake connection if PostgreSQL fails
		return nil, nil, err
	}

	return snowConn, pgConn, nil
}
