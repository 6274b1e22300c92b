// Package mirror copies stored blocks to the analytics store in batches.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/pkg/batcher"
	"go.uber.org/zap"
)

const (
	defaultFlushSize     = 500
	defaultFlushInterval = 2 * time.Second
	defaultFlushRPS      = 20
)

type Config struct {
	FlushSize     int
	FlushInterval time.Duration
	// FlushRPS caps flushes per second. Negative disables the cap.
	FlushRPS int
}

func (c Config) withDefaults() Config {
	if c.FlushSize < 1 {
		c.FlushSize = defaultFlushSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = defaultFlushInterval
	}
	if c.FlushRPS == 0 {
		c.FlushRPS = defaultFlushRPS
	}
	return c
}

// Mirror queues blocks and writes them to the repository in groups. A failed
// flush is logged and counted; the primary store is unaffected.
type Mirror struct {
	repo         Repository
	metrics      Metrics
	logger       *zap.Logger
	blockBatcher *batcher.Batcher[model.InsertBlock]
}

func New(repo Repository, metrics Metrics, cfg Config, logger *zap.Logger) (*Mirror, error) {
	if repo == nil {
		return nil, errors.New("mirror repository is required")
	}
	if metrics == nil {
		return nil, errors.New("mirror metrics is required")
	}
	cfg = cfg.withDefaults()

	m := &Mirror{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
	m.blockBatcher = batcher.New[model.InsertBlock](
		logger.Named("blockBatcher"),
		m.flush,
		cfg.FlushSize,
		cfg.FlushInterval,
		cfg.FlushRPS,
	)
	return m, nil
}

func (m *Mirror) Start(ctx context.Context) {
	m.blockBatcher.Start(ctx)
}

// Stop flushes queued blocks and waits for the last flush.
func (m *Mirror) Stop() {
	m.blockBatcher.Stop()
}

// Add queues a block. It blocks while the queue is full.
func (m *Mirror) Add(ctx context.Context, block model.InsertBlock) error {
	if err := m.blockBatcher.Add(ctx, block); err != nil {
		m.metrics.ObserveDropped()
		return fmt.Errorf("queue block %s: %w", block.Block.Hash, err)
	}
	return nil
}

func (m *Mirror) flush(ctx context.Context, blocks []model.InsertBlock) error {
	started := time.Now()
	err := m.repo.InsertBlockRecords(ctx, blocks)
	m.metrics.ObserveFlush(err, len(blocks), started)
	if err != nil {
		return fmt.Errorf("mirror %d blocks: %w", len(blocks), err)
	}
	m.logger.Debug("blocks mirrored", zap.Int("blocks", len(blocks)))
	return nil
}
