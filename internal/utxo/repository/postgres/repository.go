// Package postgres stores parsed blocks in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/clock"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	pingAttempts = 3
	pingDelay    = 200 * time.Millisecond
)

// ErrPoolInit is returned when the connection pool cannot be created or reached.
var ErrPoolInit = errors.New("database pool init failed")

type Repository struct {
	pool    Pool
	metrics Metrics
}

// NewRepository opens a pool of at most maxConns connections and verifies it with a ping.
func NewRepository(ctx context.Context, dsn string, maxConns int32, metrics Metrics, logger *zap.Logger) (*Repository, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: database url is required", ErrPoolInit)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parse database url: %w", ErrPoolInit, err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %w", ErrPoolInit, err)
	}

	if err := ping(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrPoolInit, err)
	}

	return &Repository{pool: pool, metrics: metrics}, nil
}

func ping(ctx context.Context, pool Pool, logger *zap.Logger) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		logger.Warn("database ping failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt == pingAttempts {
			break
		}
		if sleepErr := clock.Backoff(ctx, pingDelay, attempt, 0.2); sleepErr != nil {
			return fmt.Errorf("ping database: %w", sleepErr)
		}
	}
	return fmt.Errorf("ping database: %w", err)
}

// Close releases every pooled connection.
func (r *Repository) Close() {
	r.pool.Close()
}
