package model

import "time"

// InsertBlock groups the storage records derived from one block.
type InsertBlock struct {
	Block   BlockRecord
	Txs     []TransactionRecord
	Inputs  []InputRecord
	Outputs []OutputRecord
}

// BlockRecord is the stored form of a block header. Hashes are display hex.
type BlockRecord struct {
	Network    Network
	Hash       string
	PrevHash   string
	MerkleRoot string
	Version    int32
	Timestamp  time.Time
	Bits       string
	Nonce      uint32
	Difficulty float64
	Size       uint32
	TXCount    uint32
	File       string
	FileOffset int64
}

// TransactionRecord is the stored form of a transaction.
type TransactionRecord struct {
	Network     Network
	TxID        string
	BlockHash   string
	Index       uint32
	Version     int32
	LockTime    uint32
	Size        uint32
	VSize       uint32
	InputCount  uint32
	OutputCount uint32
	IsCoinbase  bool
	HasWitness  bool
}

// InputRecord is the stored form of a transaction input.
type InputRecord struct {
	Network      Network
	TxID         string
	Index        uint32
	PrevTxID     string
	PrevVout     uint32
	ScriptSigHex string
	Sequence     uint32
	Witness      []string
	IsCoinbase   bool
}

// OutputRecord is the stored form of a transaction output.
type OutputRecord struct {
	Network    Network
	TxID       string
	Index      uint32
	Value      int64
	ScriptType string
	ScriptHex  string
	Addresses  []string
}
