package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/jackc/pgx/v5"
)

const insertBlockQuery = `
INSERT INTO blocks (
	block_hash,
	network,
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
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (block_hash) DO NOTHING`

const insertTransactionQuery = `
INSERT INTO transactions (
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
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (txid) DO NOTHING`

const insertInputQuery = `
INSERT INTO transaction_inputs (
	txid,
	input_index,
	prev_txid,
	prev_vout,
	script_sig_hex,
	sequence,
	witness,
	is_coinbase
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (txid, input_index) DO NOTHING`

const insertOutputQuery = `
INSERT INTO transaction_outputs (
	txid,
	output_index,
	value,
	script_type,
	script_hex,
	addresses
) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (txid, output_index) DO NOTHING`

// InsertBlock stores a block with its transactions, inputs and outputs in one
// transaction. It returns false without error when the block hash is already
// stored. Errors are classified as storage.ErrTransient or storage.ErrFatal.
func (r *Repository) InsertBlock(ctx context.Context, block model.InsertBlock) (bool, error) {
	start := time.Now()
	var (
		inserted bool
		err      error
	)
	defer func() {
		r.metrics.Observe("insert_block", block.Block.Network, err, start)
	}()

	inserted, err = r.insertBlock(ctx, block)
	if err != nil {
		err = classify(fmt.Errorf("insert block %s: %w", block.Block.Hash, err))
		return false, err
	}
	return inserted, nil
}

func (r *Repository) insertBlock(ctx context.Context, block model.InsertBlock) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer func() {
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	b := block.Block
	tag, err := tx.Exec(ctx, insertBlockQuery,
		b.Hash,
		string(b.Network),
		b.PrevHash,
		b.MerkleRoot,
		b.Version,
		b.Timestamp,
		b.Bits,
		int64(b.Nonce),
		b.Difficulty,
		int64(b.Size),
		int64(b.TXCount),
		b.File,
		b.FileOffset,
	)
	if err != nil {
		return false, fmt.Errorf("insert block row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if err := tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("commit: %w", err)
		}
		return false, nil
	}

	batch := childBatch(block)
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return false, fmt.Errorf("insert block rows: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// childBatch queues transaction, input and output rows in foreign key order.
func childBatch(block model.InsertBlock) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, tx := range block.Txs {
		batch.Queue(insertTransactionQuery,
			tx.TxID,
			tx.BlockHash,
			int64(tx.Index),
			tx.Version,
			int64(tx.LockTime),
			int64(tx.Size),
			int64(tx.VSize),
			int64(tx.InputCount),
			int64(tx.OutputCount),
			tx.IsCoinbase,
			tx.HasWitness,
		)
	}
	for _, in := range block.Inputs {
		batch.Queue(insertInputQuery,
			in.TxID,
			int64(in.Index),
			in.PrevTxID,
			int64(in.PrevVout),
			in.ScriptSigHex,
			int64(in.Sequence),
			nonNil(in.Witness),
			in.IsCoinbase,
		)
	}
	for _, out := range block.Outputs {
		batch.Queue(insertOutputQuery,
			out.TxID,
			int64(out.Index),
			out.Value,
			out.ScriptType,
			out.ScriptHex,
			nonNil(out.Addresses),
		)
	}
	return batch
}

// nonNil keeps NOT NULL array columns populated.
func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
