package mirror

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		InsertBlockRecords(ctx context.Context, records []model.InsertBlock) error
	}

	Metrics interface {
		ObserveFlush(err error, blocks int, started time.Time)
		ObserveDropped()
	}
)
