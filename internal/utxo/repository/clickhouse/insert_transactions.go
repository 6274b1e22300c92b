package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
)

const insertTransactionsQuery = `
INSERT INTO blk_transactions (
	network,
	txid,
	block_hash,
	tx_index,
	version,
	locktime,
	size,
	vsize,
	input_count,
	output_count,
	is_coinbase,
	has_witness
) VALUES`

// InsertTransactions stores transactions in ClickHouse.
func (r *Repository) InsertTransactions(ctx context.Context, txs []model.TransactionRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transactions", firstNetwork(txs), err, start)
	}()

	if len(txs) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertTransactionsQuery)
	if err != nil {
		return fmt.Errorf("prepare transactions batch: %w", err)
	}

	for _, tx := range txs {
		if err = batch.Append(
			string(tx.Network),
			tx.TxID,
			tx.BlockHash,
			tx.Index,
			tx.Version,
			tx.LockTime,
			tx.Size,
			tx.VSize,
			tx.InputCount,
			tx.OutputCount,
			tx.IsCoinbase,
			tx.HasWitness,
		); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}
