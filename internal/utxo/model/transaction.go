package model

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// witnessScaleFactor weighs non-witness bytes against witness bytes.
const witnessScaleFactor = 4

// Transaction is a parsed transaction. TxID excludes witness data.
type Transaction struct {
	TxID         chainhash.Hash
	Version      int32
	Inputs       []TxInput
	Outputs      []TxOutput
	LockTime     uint32
	Size         int
	StrippedSize int
}

// HasWitness reports whether the transaction was serialized with witness data.
func (tx Transaction) HasWitness() bool {
	return tx.Size != tx.StrippedSize
}

// Weight returns the transaction weight in weight units.
func (tx Transaction) Weight() int {
	return tx.StrippedSize*(witnessScaleFactor-1) + tx.Size
}

// VSize returns the virtual size, rounded up.
func (tx Transaction) VSize() int {
	return (tx.Weight() + witnessScaleFactor - 1) / witnessScaleFactor
}

// IsCoinbase reports whether the transaction spends the null outpoint.
func (tx Transaction) IsCoinbase() bool {
	if len(tx.Inputs) != 1 {
		return false
	}
	in := tx.Inputs[0]
	return in.PrevIndex == CoinbaseIndex && in.PrevTxID == (chainhash.Hash{})
}

// CoinbaseIndex is the previous output index used by coinbase inputs.
const CoinbaseIndex = ^uint32(0)

// TxInput references a previous output.
type TxInput struct {
	PrevTxID        chainhash.Hash
	PrevIndex       uint32
	SignatureScript []byte
	Sequence        uint32
	Witness         [][]byte
}

// TxOutput carries a value in satoshis and its locking script.
type TxOutput struct {
	Value    int64
	PkScript []byte
}
