// Package blkfiletest builds synthetic block files for tests.
package blkfiletest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Net is the magic used by helpers that do not take one.
const Net = wire.MainNet

// CoinbaseTx returns a coinbase transaction paying value to a P2PKH script.
// tag makes otherwise identical coinbases distinct.
func CoinbaseTx(value int64, tag byte) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: wire.MaxPrevOutIndex},
		SignatureScript:  []byte{0x03, tag, 0x00, 0x00},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(wire.NewTxOut(value, P2PKHScript(tag)))
	return tx
}

// SpendTx returns a transaction spending prev:0. With witness set, the input
// carries a two-item witness stack and a P2WPKH output is produced.
func SpendTx(prev chainhash.Hash, value int64, witness bool) *wire.MsgTx {
	tx := wire.NewMsgTx(2)
	in := wire.NewTxIn(wire.NewOutPoint(&prev, 0), nil, nil)
	if witness {
		in.Witness = wire.TxWitness{bytes.Repeat([]byte{0x30}, 71), bytes.Repeat([]byte{0x02}, 33)}
		tx.AddTxIn(in)
		tx.AddTxOut(wire.NewTxOut(value, P2WPKHScript(0x11)))
	} else {
		in.SignatureScript = []byte{0x47, 0x30, 0x44}
		tx.AddTxIn(in)
		tx.AddTxOut(wire.NewTxOut(value, P2PKHScript(0x22)))
	}
	tx.LockTime = 0
	return tx
}

// P2PKHScript returns a pay-to-pubkey-hash script with a hash filled with fill.
func P2PKHScript(fill byte) []byte {
	script := []byte{0x76, 0xa9, 0x14}
	script = append(script, bytes.Repeat([]byte{fill}, 20)...)
	return append(script, 0x88, 0xac)
}

// P2WPKHScript returns a version 0 witness pubkey hash script.
func P2WPKHScript(fill byte) []byte {
	return append([]byte{0x00, 0x14}, bytes.Repeat([]byte{fill}, 20)...)
}

// NewBlock returns a block holding txs. nonce makes headers distinct.
func NewBlock(prev chainhash.Hash, nonce uint32, txs ...*wire.MsgTx) *wire.MsgBlock {
	header := wire.NewBlockHeader(1, &prev, &chainhash.Hash{0x01}, 0x1d00ffff, nonce)
	header.Timestamp = time.Unix(1231006505+int64(nonce), 0)
	block := wire.NewMsgBlock(header)
	for _, tx := range txs {
		_ = block.AddTransaction(tx)
	}
	return block
}

// Serialize returns the block payload with witness data.
func Serialize(tb testing.TB, block *wire.MsgBlock) []byte {
	tb.Helper()

	var buf bytes.Buffer
	if err := block.Serialize(&buf); err != nil {
		tb.Fatalf("serialize block: %v", err)
	}
	return buf.Bytes()
}

// Frame prefixes payload with the magic and its length.
func Frame(net wire.BitcoinNet, payload []byte) []byte {
	out := make([]byte, 8, 8+len(payload))
	binary.LittleEndian.PutUint32(out[:4], uint32(net))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(payload)))
	return append(out, payload...)
}

// FramedBlock serializes block and frames it with Net.
func FramedBlock(tb testing.TB, block *wire.MsgBlock) []byte {
	tb.Helper()
	return Frame(Net, Serialize(tb, block))
}

// WriteFile writes the concatenated chunks to dir/name and returns the path.
func WriteFile(tb testing.TB, dir, name string, chunks ...[]byte) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Join(chunks, nil), 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Chain returns n single-coinbase blocks linked by previous hash.
func Chain(n int) []*wire.MsgBlock {
	blocks := make([]*wire.MsgBlock, 0, n)
	var prev chainhash.Hash
	for i := 0; i < n; i++ {
		b := NewBlock(prev, uint32(i), CoinbaseTx(50_0000_0000, byte(i)))
		blocks = append(blocks, b)
		prev = b.BlockHash()
	}
	return blocks
}
