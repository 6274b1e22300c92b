package postgres

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, network model.Network, err error, started time.Time)
	}

	// Pool is the subset of *pgxpool.Pool the repository uses.
	Pool interface {
		Begin(ctx context.Context) (pgx.Tx, error)
		Ping(ctx context.Context) error
		Close()
	}
)
