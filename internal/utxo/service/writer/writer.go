// Package writer stores blocks through a repository, retrying transient failures.
package writer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/storage"
	"go.uber.org/zap"
)

const (
	defaultMaxAttempts  = 5
	defaultInitialDelay = 100 * time.Millisecond
	defaultMaxDelay     = 5 * time.Second
	randomization       = 0.5
)

// Config bounds the retry loop. Zero values fall back to defaults.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = defaultInitialDelay
	}
	if c.MaxDelay < c.InitialDelay {
		c.MaxDelay = max(defaultMaxDelay, c.InitialDelay)
	}
	return c
}

type Writer struct {
	repo    Repository
	metrics Metrics
	logger  *zap.Logger
	cfg     Config
}

func New(repo Repository, metrics Metrics, cfg Config, logger *zap.Logger) (*Writer, error) {
	if repo == nil {
		return nil, errors.New("writer repository is required")
	}
	if metrics == nil {
		return nil, errors.New("writer metrics is required")
	}
	return &Writer{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg.withDefaults(),
	}, nil
}

// Write stores block and reports whether it was new. Transient failures are
// retried with jittered exponential backoff up to MaxAttempts; fatal ones are not.
func (w *Writer) Write(ctx context.Context, block model.InsertBlock) (bool, error) {
	started := time.Now()
	hash := block.Block.Hash

	var (
		attempts int
		lastErr  error
	)
	op := func() (bool, error) {
		attempts++
		inserted, err := w.repo.InsertBlock(ctx, block)
		if err == nil {
			return inserted, nil
		}
		lastErr = err
		if !storage.IsTransient(err) {
			return false, backoff.Permanent(err)
		}
		return false, err
	}
	notify := func(err error, next time.Duration) {
		w.metrics.ObserveRetry()
		w.logger.Warn("transient write failure, retrying",
			zap.String("block", hash),
			zap.Int("attempt", attempts),
			zap.Duration("backoff", next),
			zap.Error(err),
		)
	}

	inserted, err := backoff.RetryNotifyWithData(op, backoff.WithContext(w.backOff(), ctx), notify)
	if err != nil && lastErr != nil && !errors.Is(err, lastErr) {
		err = fmt.Errorf("%w: last attempt: %w", err, lastErr)
	}
	w.metrics.ObserveWrite(err, inserted, attempts, started)
	if err != nil {
		return false, fmt.Errorf("write block %s after %d attempts: %w", hash, attempts, err)
	}
	return inserted, nil
}

func (w *Writer) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(w.cfg.InitialDelay),
		backoff.WithMaxInterval(w.cfg.MaxDelay),
		backoff.WithRandomizationFactor(randomization),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithMaxRetries(b, uint64(w.cfg.MaxAttempts-1))
}
