package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/blkfile/directory"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/checkpoint"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/service/loader"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/service/mirror"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/service/writer"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	BlocksPath    string        `long:"blocks-path" env:"BLOCKS_PATH" description:"directory holding blk*.dat files" required:"true"`
	Network       model.Network `long:"network" env:"BLK_LOADER_NETWORK" description:"network the block files belong to" default:"mainnet"`
	DatabaseURL   string        `long:"database-url" env:"DATABASE_URL" description:"PostgreSQL connection URL" required:"true"`
	PGMaxConns    int32         `long:"pg-max-conns" env:"BLK_LOADER_PG_MAX_CONNS" description:"PostgreSQL pool size" default:"100"`
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"BLK_LOADER_CLICKHOUSE_DSN" description:"ClickHouse DSN; enables the analytics mirror"`
	CheckpointDir string        `long:"checkpoint-dir" env:"BLK_LOADER_CHECKPOINT_DIR" description:"directory for the loaded-files store; enables skipping loaded files"`

	Workers                int    `long:"workers" env:"BLK_LOADER_WORKERS" description:"insert workers" default:"16"`
	ChannelCapacity        int    `long:"channel-capacity" env:"BLK_LOADER_CHANNEL_CAPACITY" description:"parsed blocks buffered between scanner and workers" default:"64"`
	DBConcurrency          int64  `long:"db-concurrency" env:"BLK_LOADER_DB_CONCURRENCY" description:"maximum concurrent block inserts" default:"10"`
	ProgressEvery          uint64 `long:"progress-every" env:"BLK_LOADER_PROGRESS_EVERY" description:"log progress every N stored blocks" default:"1000"`
	MaxConsecutiveFailures int    `long:"max-consecutive-failures" env:"BLK_LOADER_MAX_CONSECUTIVE_FAILURES" description:"stop after this many failed blocks in a row; negative disables" default:"100"`

	RetryAttempts int           `long:"retry-attempts" env:"BLK_LOADER_RETRY_ATTEMPTS" description:"insert attempts per block" default:"5"`
	RetryInitial  time.Duration `long:"retry-initial" env:"BLK_LOADER_RETRY_INITIAL" description:"first retry delay" default:"100ms"`
	RetryMax      time.Duration `long:"retry-max" env:"BLK_LOADER_RETRY_MAX" description:"maximum retry delay" default:"5s"`

	MirrorFlushSize     int           `long:"mirror-flush-size" env:"BLK_LOADER_MIRROR_FLUSH_SIZE" description:"blocks per ClickHouse flush" default:"500"`
	MirrorFlushInterval time.Duration `long:"mirror-flush-interval" env:"BLK_LOADER_MIRROR_FLUSH_INTERVAL" description:"maximum delay before a ClickHouse flush" default:"2s"`

	MetricsAddr string `long:"metrics-addr" env:"BLK_LOADER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	Verbose     bool   `long:"verbose" env:"VERBOSE" description:"debug logging"`
}

func main() {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	cfg := config{}
	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("blk loader failed", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	logger = logger.With(zap.String("network", string(cfg.Network)))
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	files, err := directory.List(cfg.BlocksPath)
	if err != nil {
		return err
	}
	logger.Info("block files found", zap.String("path", cfg.BlocksPath), zap.Int("files", len(files)))

	maxConns := cfg.PGMaxConns
	if int64(maxConns) < cfg.DBConcurrency {
		logger.Warn("pool smaller than db concurrency, raising it",
			zap.Int32("pg_max_conns", maxConns),
			zap.Int64("db_concurrency", cfg.DBConcurrency),
		)
		maxConns = int32(cfg.DBConcurrency)
	}
	repo, err := postgres.NewRepository(ctx, cfg.DatabaseURL, maxConns, metrics.NewPostgresRepository(), logger.Named("postgres"))
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer repo.Close()

	blockWriter, err := writer.New(repo, metrics.NewWriter(cfg.Network), writer.Config{
		MaxAttempts:  cfg.RetryAttempts,
		InitialDelay: cfg.RetryInitial,
		MaxDelay:     cfg.RetryMax,
	}, logger.Named("writer"))
	if err != nil {
		return err
	}

	builder, err := bitcoin.NewRecordBuilder(cfg.Network)
	if err != nil {
		return err
	}

	var opts []loader.Option
	if cfg.ClickhouseDSN != "" {
		chRepo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init clickhouse repository: %w", err)
		}
		defer func() {
			_ = chRepo.Close()
		}()
		if err := chRepo.Ping(ctx); err != nil {
			return err
		}

		m, err := mirror.New(chRepo, metrics.NewMirror(cfg.Network), mirror.Config{
			FlushSize:     cfg.MirrorFlushSize,
			FlushInterval: cfg.MirrorFlushInterval,
		}, logger.Named("mirror"))
		if err != nil {
			return err
		}
		m.Start(ctx)
		defer m.Stop()
		opts = append(opts, loader.WithMirror(m))
	}

	if cfg.CheckpointDir != "" {
		store, err := checkpoint.Open(cfg.CheckpointDir, cfg.Network)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("checkpoint store not closed cleanly", zap.Error(err))
			}
		}()
		opts = append(opts, loader.WithCheckpoints(store))
	}

	svc, err := loader.New(blockWriter, builder, metrics.NewLoader(cfg.Network), loader.Config{
		Network:                cfg.Network,
		Workers:                cfg.Workers,
		ChannelCapacity:        cfg.ChannelCapacity,
		MaxDBConcurrency:       cfg.DBConcurrency,
		ProgressEvery:          cfg.ProgressEvery,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
	}, logger.Named("loader"), opts...)
	if err != nil {
		return err
	}

	report, err := svc.Run(ctx, files)
	if err != nil {
		return err
	}
	if report.FailedFiles > 0 {
		return fmt.Errorf("%d of %d block files failed", report.FailedFiles, report.Files)
	}
	return nil
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
