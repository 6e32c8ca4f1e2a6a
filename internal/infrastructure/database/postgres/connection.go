package postgres

import (
	"context"
	"customer-management/internal/config"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns          = 10
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = 5 * time.Minute
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = 5 * time.Second

	applicationName = "customer-management"
)

// NewConnectionPool opens the pool backing customers and, by default,
// cached reports. The first ping bounds startup by cfg.ConnectTimeout.
func NewConnectionPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty in configuration")
	}

	poolConfig, err := configurePool(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.With(
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("db", poolConfig.ConnConfig.Database),
	)

	log.Info("Opening customer database pool",
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.Int("min_conns", int(poolConfig.MinConns)),
	)
	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := ping(ctx, dbpool, poolConfig.ConnConfig.ConnectTimeout); err != nil {
		dbpool.Close()
		log.Error("Customer database unreachable", slog.Any("error", err))
		return nil, err
	}

	log.Info("Customer database pool ready")
	return dbpool, nil
}

// configurePool parses cfg.URL and layers the configured limits on top.
// Config values always win over pool_* parameters in the URL.
func configurePool(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	poolConfig.MaxConns = orDefault(cfg.MaxConns, defaultMaxConns)
	poolConfig.MinConns = cfg.MinConns
	if poolConfig.MinConns > poolConfig.MaxConns {
		return nil, fmt.Errorf("database minConns (%d) exceeds maxConns (%d)", poolConfig.MinConns, poolConfig.MaxConns)
	}
	poolConfig.MaxConnLifetime = orDefault(cfg.MaxConnLifetime, defaultMaxConnLifetime)
	poolConfig.MaxConnIdleTime = orDefault(cfg.MaxConnIdleTime, defaultMaxConnIdleTime)
	poolConfig.HealthCheckPeriod = orDefault(cfg.HealthCheckPeriod, defaultHealthCheckPeriod)
	poolConfig.ConnConfig.ConnectTimeout = orDefault(cfg.ConnectTimeout, defaultConnectTimeout)

	if _, ok := poolConfig.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	return poolConfig, nil
}

func orDefault[T int32 | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

func ping(ctx context.Context, dbpool *pgxpool.Pool, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := dbpool.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database on connect: %w", err)
	}
	return nil
}
