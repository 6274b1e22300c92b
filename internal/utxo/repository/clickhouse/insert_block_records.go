package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
)

// InsertBlockRecords stores a group of blocks with their transactions, inputs and
// outputs, one batch per table. Blocks go last so a block row implies its children.
func (r *Repository) InsertBlockRecords(ctx context.Context, records []model.InsertBlock) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_block_records", firstNetwork(records), err, start)
	}()

	var (
		blocks  = make([]model.BlockRecord, 0, len(records))
		txs     []model.TransactionRecord
		inputs  []model.InputRecord
		outputs []model.OutputRecord
	)
	for _, rec := range records {
		blocks = append(blocks, rec.Block)
		txs = append(txs, rec.Txs...)
		inputs = append(inputs, rec.Inputs...)
		outputs = append(outputs, rec.Outputs...)
	}

	if err = r.InsertTransactions(ctx, txs); err != nil {
		return err
	}
	if err = r.InsertTransactionInputs(ctx, inputs); err != nil {
		return err
	}
	if err = r.InsertTransactionOutputs(ctx, outputs); err != nil {
		return err
	}
	err = r.InsertBlocks(ctx, blocks)
	return err
}
