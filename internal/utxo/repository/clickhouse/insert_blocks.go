package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
)

const insertBlocksQuery = `
INSERT INTO blk_blocks (
	network,
	hash,
	prev_hash,
	merkle_root,
	version,
	timestamp,
	bits,
	nonce,
	difficulty,
	size,
	tx_count,
	file,
	file_offset
) VALUES`

// InsertBlocks stores block rows in ClickHouse.
func (r *Repository) InsertBlocks(ctx context.Context, blocks []model.BlockRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_blocks", firstNetwork(blocks), err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertBlocksQuery)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}

	for _, block := range blocks {
		if err = batch.Append(
			string(block.Network),
			block.Hash,
			block.PrevHash,
			block.MerkleRoot,
			block.Version,
			block.Timestamp,
			block.Bits,
			block.Nonce,
			block.Difficulty,
			block.Size,
			block.TXCount,
			block.File,
			block.FileOffset,
		); err != nil {
			return fmt.Errorf("append block: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}

func firstNetwork[T any](items []T) model.Network {
	if len(items) == 0 {
		return ""
	}

	switch v := any(items[0]).(type) {
	case model.BlockRecord:
		return v.Network
	case model.TransactionRecord:
		return v.Network
	case model.InputRecord:
		return v.Network
	case model.OutputRecord:
		return v.Network
	case model.InsertBlock:
		return v.Block.Network
	default:
		return ""
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
