// Package bitcoin maps parsed Bitcoin blocks onto storage records.
package bitcoin

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/pkg/safe"
)

// difficultyOneBits is the compact target of difficulty 1.
const difficultyOneBits = 0x1d00ffff

var difficultyOneTarget = blockchain.CompactToBig(difficultyOneBits)

// Difficulty returns the difficulty encoded by compact bits relative to the
// 0x1d00ffff target. A zero or negative target yields 0.
func Difficulty(bits uint32) float64 {
	target := blockchain.CompactToBig(bits)
	if target.Sign() <= 0 {
		return 0
	}
	ratio := new(big.Float).Quo(new(big.Float).SetInt(difficultyOneTarget), new(big.Float).SetInt(target))
	f, _ := ratio.Float64()
	return f
}

// FormatBits renders compact bits the way nodes display them.
func FormatBits(bits uint32) string {
	return fmt.Sprintf("%08x", bits)
}

// RecordBuilder converts parsed blocks into storage records for one network.
type RecordBuilder struct {
	network model.Network
	decoder *ScriptDecoder
}

// NewRecordBuilder constructs a RecordBuilder for network.
func NewRecordBuilder(network model.Network) (*RecordBuilder, error) {
	decoder, err := NewScriptDecoder(network)
	if err != nil {
		return nil, err
	}
	return &RecordBuilder{network: network, decoder: decoder}, nil
}

// Build maps block to records. Identifiers are rendered in display (byte reversed) order.
func (b *RecordBuilder) Build(block *model.Block) (model.InsertBlock, error) {
	size, err := safe.Uint32(block.Size)
	if err != nil {
		return model.InsertBlock{}, fmt.Errorf("block %s size: %w", block.Hash, err)
	}
	txCount, err := safe.Uint32(len(block.Transactions))
	if err != nil {
		return model.InsertBlock{}, fmt.Errorf("block %s tx count: %w", block.Hash, err)
	}

	blockHash := block.Hash.String()
	out := model.InsertBlock{
		Block: model.BlockRecord{
			Network:    b.network,
			Hash:       blockHash,
			PrevHash:   block.Header.PrevBlock.String(),
			MerkleRoot: block.Header.MerkleRoot.String(),
			Version:    block.Header.Version,
			Timestamp:  block.Header.Time(),
			Bits:       FormatBits(block.Header.Bits),
			Nonce:      block.Header.Nonce,
			Difficulty: Difficulty(block.Header.Bits),
			Size:       size,
			TXCount:    txCount,
			File:       block.Source.File,
			FileOffset: block.Source.Offset,
		},
		Txs: make([]model.TransactionRecord, 0, len(block.Transactions)),
	}

	for i, tx := range block.Transactions {
		rec, err := b.transaction(blockHash, uint32(i), tx)
		if err != nil {
			return model.InsertBlock{}, fmt.Errorf("block %s tx %d: %w", blockHash, i, err)
		}
		out.Txs = append(out.Txs, rec)

		coinbase := tx.IsCoinbase()
		for j, in := range tx.Inputs {
			out.Inputs = append(out.Inputs, b.input(rec.TxID, uint32(j), in, coinbase))
		}
		for j, o := range tx.Outputs {
			out.Outputs = append(out.Outputs, b.output(rec.TxID, uint32(j), o))
		}
	}
	return out, nil
}

func (b *RecordBuilder) transaction(blockHash string, index uint32, tx model.Transaction) (model.TransactionRecord, error) {
	size, err := safe.Uint32(tx.Size)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("size: %w", err)
	}
	vsize, err := safe.Uint32(tx.VSize())
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("vsize: %w", err)
	}
	inputs, err := safe.Uint32(len(tx.Inputs))
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("input count: %w", err)
	}
	outputs, err := safe.Uint32(len(tx.Outputs))
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("output count: %w", err)
	}

	return model.TransactionRecord{
		Network:     b.network,
		TxID:        tx.TxID.String(),
		BlockHash:   blockHash,
		Index:       index,
		Version:     tx.Version,
		LockTime:    tx.LockTime,
		Size:        size,
		VSize:       vsize,
		InputCount:  inputs,
		OutputCount: outputs,
		IsCoinbase:  tx.IsCoinbase(),
		HasWitness:  tx.HasWitness(),
	}, nil
}

func (b *RecordBuilder) input(txID string, index uint32, in model.TxInput, coinbase bool) model.InputRecord {
	var witness []string
	if len(in.Witness) > 0 {
		witness = make([]string, 0, len(in.Witness))
		for _, item := range in.Witness {
			witness = append(witness, hex.EncodeToString(item))
		}
	}
	return model.InputRecord{
		Network:      b.network,
		TxID:         txID,
		Index:        index,
		PrevTxID:     in.PrevTxID.String(),
		PrevVout:     in.PrevIndex,
		ScriptSigHex: hex.EncodeToString(in.SignatureScript),
		Sequence:     in.Sequence,
		Witness:      witness,
		IsCoinbase:   coinbase,
	}
}

func (b *RecordBuilder) output(txID string, index uint32, o model.TxOutput) model.OutputRecord {
	class, addrs := b.decoder.Decode(o.PkScript)
	return model.OutputRecord{
		Network:    b.network,
		TxID:       txID,
		Index:      index,
		Value:      o.Value,
		ScriptType: class,
		ScriptHex:  hex.EncodeToString(o.PkScript),
		Addresses:  addrs,
	}
}
