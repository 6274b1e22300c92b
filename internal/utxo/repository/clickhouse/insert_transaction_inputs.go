package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
)

const insertTransactionInputsQuery = `
INSERT INTO blk_transaction_inputs (
	network,
	txid,
	input_index,
	prev_txid,
	prev_vout,
	script_sig_hex,
	sequence,
	witness,
	is_coinbase
) VALUES`

// InsertTransactionInputs stores transaction inputs in ClickHouse.
func (r *Repository) InsertTransactionInputs(ctx context.Context, inputs []model.InputRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transaction_inputs", firstNetwork(inputs), err, start)
	}()

	if len(inputs) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertTransactionInputsQuery)
	if err != nil {
		return fmt.Errorf("prepare transaction inputs batch: %w", err)
	}

	for _, input := range inputs {
		if err = batch.Append(
			string(input.Network),
			input.TxID,
			input.Index,
			input.PrevTxID,
			input.PrevVout,
			input.ScriptSigHex,
			input.Sequence,
			nonNil(input.Witness),
			input.IsCoinbase,
		); err != nil {
			return fmt.Errorf("append transaction input: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transaction inputs: %w", err)
	}
	return nil
}
