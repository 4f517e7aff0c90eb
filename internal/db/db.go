package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workload/internal/config"
)

func NewConnection(cfg config.DBConfig, logger *zap.Logger) (*pgxpool.Pool, error) {

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	logger.Info("Initializing PostgreSQL connection pool",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.Name),
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("Failed to parse db config", zap.Error(err))
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	// pool settings
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnIdleTime = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbpool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("PostgreSQL connection failed", zap.Error(err))
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer pingCancel()

	if err := dbpool.Ping(pingCtx); err != nil {
		logger.Error("PostgreSQL ping failed", zap.Error(err))
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	logger.Info("PostgreSQL connection established successfully")
	return dbpool, nil
}

// EnsureSchema creates the tables on startup when they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS credentials (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL,
			role TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			description TEXT NOT NULL,
			assignee UUID NOT NULL,
			assigned_by TEXT NOT NULL,
			deadline TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			comments JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			logger.Error("Failed to apply schema statement", zap.Error(err))
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	logger.Info("Database schema ensured")
	return nil
}
