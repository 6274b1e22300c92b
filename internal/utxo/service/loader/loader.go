// Package loader runs the block file ingestion pipeline: files are scanned one
// after another, each record is parsed and queued, and a worker pool stores the
// queued blocks under a database concurrency limit.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/blkfile/codec"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/blkfile/deserializer"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/blkfile/scanner"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/pkg/workerpool"
	"go.uber.org/zap"
)

// ErrStorageUnavailable stops a run after too many consecutive failed writes.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Config sizes the pipeline. Zero values fall back to defaults.
type Config struct {
	Network                model.Network
	Workers                int
	ChannelCapacity        int
	MaxDBConcurrency       int64
	ProgressEvery          uint64
	MaxConsecutiveFailures int
}

func (c Config) withDefaults() Config {
	if c.Workers < 1 {
		c.Workers = defaultWorkers
	}
	if c.ChannelCapacity < 1 {
		c.ChannelCapacity = defaultChannelCapacity
	}
	if c.MaxDBConcurrency < 1 {
		c.MaxDBConcurrency = defaultMaxDBConcurrency
	}
	if c.ProgressEvery == 0 {
		c.ProgressEvery = defaultProgressEvery
	}
	if c.MaxConsecutiveFailures == 0 {
		c.MaxConsecutiveFailures = defaultMaxConsecutiveFailures
	}
	return c
}

// Report is the outcome of one Run.
type Report struct {
	Snapshot
	Files             int
	FailedFiles       int
	CheckpointedFiles int
	PeakConcurrency   int64
	FileReports       []FileReport
}

type Option func(*Service)

// WithMirror copies every stored block to m.
func WithMirror(m Mirror) Option {
	return func(s *Service) {
		s.mirror = m
	}
}

// WithCheckpoints skips files already recorded in c and records completed ones.
func WithCheckpoints(c Checkpoints) Option {
	return func(s *Service) {
		s.checkpoints = c
	}
}

type Service struct {
	logger      *zap.Logger
	cfg         Config
	magic       wire.BitcoinNet
	writer      BlockWriter
	builder     RecordBuilder
	mirror      Mirror
	checkpoints Checkpoints
	metrics     Metrics

	open        func(path string) (blockFile, error)
	onFileState func(path string, state FileState)
}

func New(
	writer BlockWriter,
	builder RecordBuilder,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
	opts ...Option,
) (*Service, error) {
	if writer == nil {
		return nil, errors.New("loader writer is required")
	}
	if builder == nil {
		return nil, errors.New("loader record builder is required")
	}
	if metrics == nil {
		return nil, errors.New("loader metrics is required")
	}

	params, err := bitcoin.ChainParams(cfg.Network)
	if err != nil {
		return nil, err
	}

	s := &Service{
		logger:  logger.With(zap.String("network", string(cfg.Network))),
		cfg:     cfg.withDefaults(),
		magic:   params.Net,
		writer:  writer,
		builder: builder,
		metrics: metrics,
		open: func(path string) (blockFile, error) {
			return os.Open(path)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// blockFile is an open block file. Stat reports the version the scan starts from.
type blockFile interface {
	io.ReadCloser
	Stat() (fs.FileInfo, error)
}

type item struct {
	block *model.Block
	file  *fileRun
}

// run holds the state shared by the producer and workers of one Run.
type run struct {
	items       chan item
	progress    *Progress
	limiter     *limiter
	consecutive atomic.Int64
}

// Run loads files in order. It returns ErrStorageUnavailable when writes keep
// failing, ctx.Err() when canceled, and a report in every case.
func (s *Service) Run(ctx context.Context, files []string) (Report, error) {
	started := time.Now()
	r := &run{
		items:    make(chan item, s.cfg.ChannelCapacity),
		progress: NewProgress(s.cfg.ProgressEvery, started),
		limiter:  newLimiter(s.cfg.MaxDBConcurrency),
	}

	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		for snap := range r.progress.Snapshots() {
			s.logSnapshot("progress", snap)
			s.metrics.SetRates(snap.BlockRate, snap.TxRate)
		}
	}()

	runCtx, abort := context.WithCancel(ctx)
	defer abort()

	s.logger.Info("load started",
		zap.Int("files", len(files)),
		zap.Int("workers", s.cfg.Workers),
		zap.Int("channel_capacity", s.cfg.ChannelCapacity),
		zap.Int64("db_concurrency", s.cfg.MaxDBConcurrency),
	)

	consumed := make(chan error, 1)
	go func() {
		consumed <- workerpool.Consume(runCtx, s.cfg.Workers, r.items, func(ctx context.Context, it item) error {
			return s.process(ctx, r, it)
		}, abort)
	}()

	runs := s.produce(runCtx, r, files)
	consumeErr := <-consumed

	for it := range r.items {
		it.file.dequeued.Done()
		s.abandon(r, it)
	}

	s.checkpoint(runs)

	r.progress.Close()
	<-reporterDone

	report := Report{
		Snapshot:        r.progress.Snapshot(),
		Files:           len(files),
		PeakConcurrency: r.limiter.Peak(),
		FileReports:     make([]FileReport, 0, len(runs)),
	}
	for _, f := range runs {
		fr := f.report()
		if fr.State == Failed {
			report.FailedFiles++
		}
		if fr.Checkpointed {
			report.CheckpointedFiles++
		}
		report.FileReports = append(report.FileReports, fr)
	}
	s.logReport(report)

	switch {
	case errors.Is(consumeErr, ErrStorageUnavailable):
		return report, consumeErr
	case ctx.Err() != nil:
		return report, ctx.Err()
	case consumeErr != nil && !errors.Is(consumeErr, context.Canceled):
		return report, consumeErr
	}
	return report, nil
}

// produce scans files one at a time and closes the channel when done. A file's
// scan starts only after every block of the previous file has been dequeued.
func (s *Service) produce(ctx context.Context, r *run, files []string) (runs []*fileRun) {
	defer close(r.items)

	runs = make([]*fileRun, 0, len(files))
	// Files the run never reached stay Pending in the report.
	defer func() {
		for _, path := range files[len(runs):] {
			runs = append(runs, newFileRun(path))
		}
	}()

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		f := newFileRun(path)
		runs = append(runs, f)
		s.setState(f, Pending)

		if s.skipCheckpointed(f) {
			continue
		}

		s.scanFile(ctx, r, f)

		if f.state != Failed {
			s.setState(f, Draining)
		}
		if err := waitDequeued(ctx, &f.dequeued); err != nil {
			if f.state != Failed {
				f.err = err
				s.setState(f, Failed)
			}
			break
		}
		if f.state != Failed {
			s.setState(f, Done)
		}
	}
	return runs
}

func (s *Service) skipCheckpointed(f *fileRun) bool {
	if s.checkpoints == nil {
		return false
	}
	done, err := s.checkpoints.Done(f.path)
	if err != nil {
		s.logger.Warn("checkpoint lookup failed", zap.String("file", f.path), zap.Error(err))
		return false
	}
	if !done {
		return false
	}
	f.checkpointed = true
	s.logger.Info("file already loaded, skipping", zap.String("file", f.path))
	s.setState(f, Done)
	return true
}

func (s *Service) scanFile(ctx context.Context, r *run, f *fileRun) {
	f.started = time.Now()
	logger := s.logger.With(zap.String("file", f.path))

	rc, err := s.open(f.path)
	if err != nil {
		f.err = fmt.Errorf("open block file: %w", err)
		logger.Error("open block file failed", zap.Error(err))
		s.setState(f, Failed)
		return
	}
	defer func() {
		_ = rc.Close()
	}()

	info, err := rc.Stat()
	if err != nil {
		f.err = fmt.Errorf("stat block file: %w", err)
		logger.Error("stat block file failed", zap.Error(err))
		s.setState(f, Failed)
		return
	}
	f.stamp = model.NewFileStamp(info)

	s.setState(f, Scanning)
	sc := scanner.New(rc, s.magic)
	name := filepath.Base(f.path)
	defer func() {
		f.skippedBytes = sc.Skipped()
		if f.skippedBytes > 0 {
			logger.Debug("bytes skipped while resynchronizing", zap.Int64("bytes", f.skippedBytes))
		}
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		rec, err := sc.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if errors.Is(err, codec.ErrTruncatedInput) {
			logger.Warn("truncated record at end of file", zap.Error(err))
			s.skip(r, f)
			continue
		}
		if err != nil {
			f.err = fmt.Errorf("scan block file: %w", err)
			logger.Error("scan block file failed", zap.Int64("offset", sc.Offset()), zap.Error(err))
			s.setState(f, Failed)
			return
		}

		parseStarted := time.Now()
		block, err := deserializer.Deserialize(rec.Payload)
		s.metrics.ObserveParse(err, parseStarted)
		if err != nil {
			logger.Warn("malformed block record skipped", zap.Int64("offset", rec.Offset), zap.Error(err))
			s.skip(r, f)
			continue
		}
		block.Source = model.Position{File: name, Offset: rec.Offset}

		f.dequeued.Add(1)
		select {
		case r.items <- item{block: block, file: f}:
			f.enqueued.Add(1)
			s.metrics.SetQueueDepth(len(r.items))
		case <-ctx.Done():
			f.dequeued.Done()
			return
		}
	}
}

// process stores one block. It only returns an error to stop the pipeline.
func (s *Service) process(ctx context.Context, r *run, it item) error {
	rows, err := s.builder.Build(it.block)
	it.file.dequeued.Done()
	s.metrics.SetQueueDepth(len(r.items))
	if err != nil {
		s.logger.Warn("block rows not built",
			zap.String("block", it.block.Hash.String()),
			zap.String("file", it.file.path),
			zap.Error(err),
		)
		s.skip(r, it.file)
		return nil
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		s.abandon(r, it)
		return nil
	}
	// Inserts that have started run to completion even if the run is canceled.
	inserted, err := s.writer.Write(context.WithoutCancel(ctx), rows)
	r.limiter.Release()

	if err != nil {
		it.file.failed.Add(1)
		r.progress.Failed()
		s.metrics.ObserveBlock(outcomeFailed)
		s.logger.Error("block not stored",
			zap.String("block", rows.Block.Hash),
			zap.String("file", it.file.path),
			zap.Int64("offset", it.block.Source.Offset),
			zap.Error(err),
		)
		n := r.consecutive.Add(1)
		if limit := s.cfg.MaxConsecutiveFailures; limit > 0 && n > int64(limit) {
			return fmt.Errorf("%w: %d consecutive blocks failed: %w", ErrStorageUnavailable, n, err)
		}
		return nil
	}
	r.consecutive.Store(0)

	if inserted {
		r.progress.Committed(len(rows.Txs))
		s.metrics.ObserveBlock(outcomeCommitted)
	} else {
		r.progress.Duplicate()
		s.metrics.ObserveBlock(outcomeDuplicate)
	}

	if s.mirror != nil {
		if err := s.mirror.Add(ctx, rows); err != nil {
			s.logger.Warn("block not mirrored", zap.String("block", rows.Block.Hash), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) skip(r *run, f *fileRun) {
	f.skipped.Add(1)
	r.progress.Skipped()
	s.metrics.ObserveBlock(outcomeSkipped)
}

func (s *Service) abandon(r *run, it item) {
	it.file.abandoned.Add(1)
	r.progress.Abandoned()
	s.metrics.ObserveBlock(outcomeAbandoned)
}

// checkpoint records files whose blocks all reached the store.
func (s *Service) checkpoint(runs []*fileRun) {
	if s.checkpoints == nil {
		return
	}
	for _, f := range runs {
		if !f.complete() {
			continue
		}
		if err := s.checkpoints.MarkDone(f.path, f.stamp); err != nil {
			s.logger.Warn("checkpoint not recorded", zap.String("file", f.path), zap.Error(err))
		}
	}
}

func (s *Service) setState(f *fileRun, state FileState) {
	f.state = state
	if s.onFileState != nil {
		s.onFileState(f.path, state)
	}
	switch state {
	case Done, Failed:
		if !f.checkpointed {
			s.metrics.ObserveFile(state.String(), f.started)
		}
		s.logger.Info("file finished",
			zap.String("file", f.path),
			zap.Stringer("state", state),
			zap.Uint64("enqueued", f.enqueued.Load()),
			zap.Uint64("skipped", f.skipped.Load()),
		)
	default:
		s.logger.Debug("file state changed", zap.String("file", f.path), zap.Stringer("state", state))
	}
}

func (s *Service) logSnapshot(msg string, snap Snapshot) {
	s.logger.Info(msg,
		zap.Uint64("committed", snap.Committed),
		zap.Uint64("duplicates", snap.Duplicates),
		zap.Uint64("failed", snap.Failed),
		zap.Uint64("skipped", snap.Skipped),
		zap.Uint64("transactions", snap.Transactions),
		zap.Duration("elapsed", snap.Elapsed),
		zap.Float64("blocks_per_sec", snap.BlockRate),
		zap.Float64("txs_per_sec", snap.TxRate),
	)
}

func (s *Service) logReport(report Report) {
	s.logger.Info("load finished",
		zap.Int("files", report.Files),
		zap.Int("failed_files", report.FailedFiles),
		zap.Int("checkpointed_files", report.CheckpointedFiles),
		zap.Uint64("committed", report.Committed),
		zap.Uint64("duplicates", report.Duplicates),
		zap.Uint64("failed", report.Failed),
		zap.Uint64("skipped", report.Skipped),
		zap.Uint64("abandoned", report.Abandoned),
		zap.Uint64("transactions", report.Transactions),
		zap.Int64("peak_db_concurrency", report.PeakConcurrency),
		zap.Duration("elapsed", report.Elapsed),
	)
}

// waitDequeued blocks until wg is released or ctx is done.
func waitDequeued(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
