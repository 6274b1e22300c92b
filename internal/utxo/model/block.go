// Package model defines the parsed block file structures and their storage records.
package model

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HeaderSize is the serialized size of a block header.
const HeaderSize = 80

// BlockHeader is the fixed 80-byte block header. Hashes are kept in wire order.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// Time returns the header timestamp as UTC time.
func (h BlockHeader) Time() time.Time {
	return time.Unix(int64(h.Timestamp), 0).UTC()
}

// Position locates a record inside a block file.
type Position struct {
	File   string
	Offset int64
}

// Block is a fully parsed block record.
type Block struct {
	Header       BlockHeader
	Hash         chainhash.Hash
	TxCount      uint64
	Size         int
	Transactions []Transaction
	Source       Position
}
