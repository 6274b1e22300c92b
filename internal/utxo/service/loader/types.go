package loader

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	BlockWriter interface {
		Write(ctx context.Context, block model.InsertBlock) (bool, error)
	}
	RecordBuilder interface {
		Build(block *model.Block) (model.InsertBlock, error)
	}
	Mirror interface {
		Add(ctx context.Context, block model.InsertBlock) error
	}
	Checkpoints interface {
		Done(path string) (bool, error)
		// MarkDone records path as loaded in the version described by stamp.
		MarkDone(path string, stamp model.FileStamp) error
	}
	Metrics interface {
		ObserveFile(state string, started time.Time)
		ObserveBlock(outcome string)
		ObserveParse(err error, started time.Time)
		SetQueueDepth(n int)
		SetRates(blockRate, txRate float64)
	}
)
