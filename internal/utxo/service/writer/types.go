package writer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		InsertBlock(ctx context.Context, block model.InsertBlock) (bool, error)
	}
	Metrics interface {
		ObserveWrite(err error, inserted bool, attempts int, started time.Time)
		ObserveRetry()
	}
)
