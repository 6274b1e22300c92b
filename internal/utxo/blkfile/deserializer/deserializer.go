// Package deserializer parses block record payloads into model.Block values.
package deserializer

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/blkfile/codec"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/pkg/safe"
)

const (
	// minTxSize is the smallest possible serialized transaction:
	// version, empty input and output counts, lock time.
	minTxSize = 4 + 1 + 1 + 4
	// minInputSize and minOutputSize bound declared counts before allocating.
	minInputSize  = chainhash.HashSize + 4 + 1 + 4
	minOutputSize = 8 + 1

	witnessMarker = 0x00
	witnessFlag   = 0x01
)

var (
	// ErrMalformedBlock reports a structural problem at the block level.
	ErrMalformedBlock = errors.New("malformed block")
	// ErrMalformedTransaction is matched by every *MalformedTransactionError.
	ErrMalformedTransaction = errors.New("malformed transaction")

	errInvalidWitnessFlag = errors.New("invalid witness flag")
	errNegativeValue      = errors.New("negative output value")
	errCountTooLarge      = errors.New("declared count exceeds payload")
)

// MalformedTransactionError reports a failure inside the transaction at Index.
type MalformedTransactionError struct {
	Index int
	Err   error
}

func (e *MalformedTransactionError) Error() string {
	return fmt.Sprintf("malformed transaction %d: %v", e.Index, e.Err)
}

func (e *MalformedTransactionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrMalformedTransaction.
func (e *MalformedTransactionError) Is(target error) bool {
	return target == ErrMalformedTransaction
}

// Deserialize parses a block payload: header, transaction count and transactions.
// The returned block does not reference payload.
func Deserialize(payload []byte) (*model.Block, error) {
	r := codec.NewReader(payload)

	header, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedBlock, err)
	}
	block := &model.Block{
		Header: header,
		Hash:   chainhash.DoubleHashH(payload[:model.HeaderSize]),
		Size:   len(payload),
	}

	count, err := r.VarInt()
	if err != nil {
		return nil, fmt.Errorf("%w: tx count: %w", ErrMalformedBlock, err)
	}
	if count > uint64(r.Remaining()/minTxSize) {
		return nil, fmt.Errorf("%w: %d transactions declared, %d bytes left", ErrMalformedBlock, count, r.Remaining())
	}
	n, err := safe.Int(count)
	if err != nil {
		return nil, fmt.Errorf("%w: tx count: %w", ErrMalformedBlock, err)
	}
	block.TxCount = count
	block.Transactions = make([]model.Transaction, 0, n)

	for i := 0; i < n; i++ {
		if r.Remaining() == 0 {
			return nil, fmt.Errorf("%w: %d transactions declared, %d parsed", ErrMalformedBlock, count, i)
		}
		tx, err := readTransaction(r)
		if err != nil {
			return nil, &MalformedTransactionError{Index: i, Err: err}
		}
		block.Transactions = append(block.Transactions, tx)
	}

	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d transactions declared, %d trailing bytes", ErrMalformedBlock, count, r.Remaining())
	}
	return block, nil
}

func readHeader(r *codec.Reader) (model.BlockHeader, error) {
	var (
		h   model.BlockHeader
		err error
	)
	if r.Remaining() < model.HeaderSize {
		return h, fmt.Errorf("%w: header needs %d bytes, %d left", codec.ErrTruncatedInput, model.HeaderSize, r.Remaining())
	}
	if h.Version, err = r.Int32(); err != nil {
		return h, err
	}
	if h.PrevBlock, err = r.Hash(); err != nil {
		return h, err
	}
	if h.MerkleRoot, err = r.Hash(); err != nil {
		return h, err
	}
	if h.Timestamp, err = r.Uint32(); err != nil {
		return h, err
	}
	if h.Bits, err = r.Uint32(); err != nil {
		return h, err
	}
	if h.Nonce, err = r.Uint32(); err != nil {
		return h, err
	}
	return h, nil
}

func readTransaction(r *codec.Reader) (model.Transaction, error) {
	var tx model.Transaction
	start := r.Offset()

	version, err := r.Int32()
	if err != nil {
		return tx, fmt.Errorf("version: %w", err)
	}
	tx.Version = version

	witness := false
	marker, err := r.Peek()
	if err != nil {
		return tx, fmt.Errorf("input count: %w", err)
	}
	if marker == witnessMarker {
		if err := r.Skip(1); err != nil {
			return tx, err
		}
		flag, err := r.Uint8()
		if err != nil {
			return tx, fmt.Errorf("witness flag: %w", err)
		}
		if flag != witnessFlag {
			return tx, fmt.Errorf("%w: %#x", errInvalidWitnessFlag, flag)
		}
		witness = true
	}
	bodyStart := r.Offset()

	inCount, err := readCount(r, minInputSize)
	if err != nil {
		return tx, fmt.Errorf("input count: %w", err)
	}
	tx.Inputs = make([]model.TxInput, 0, inCount)
	for i := 0; i < inCount; i++ {
		in, err := readInput(r)
		if err != nil {
			return tx, fmt.Errorf("input %d: %w", i, err)
		}
		tx.Inputs = append(tx.Inputs, in)
	}

	outCount, err := readCount(r, minOutputSize)
	if err != nil {
		return tx, fmt.Errorf("output count: %w", err)
	}
	tx.Outputs = make([]model.TxOutput, 0, outCount)
	for i := 0; i < outCount; i++ {
		out, err := readOutput(r)
		if err != nil {
			return tx, fmt.Errorf("output %d: %w", i, err)
		}
		tx.Outputs = append(tx.Outputs, out)
	}
	bodyEnd := r.Offset()

	if witness {
		for i := range tx.Inputs {
			stack, err := readWitness(r)
			if err != nil {
				return tx, fmt.Errorf("witness %d: %w", i, err)
			}
			tx.Inputs[i].Witness = stack
		}
	}

	lockStart := r.Offset()
	if tx.LockTime, err = r.Uint32(); err != nil {
		return tx, fmt.Errorf("lock time: %w", err)
	}
	end := r.Offset()

	tx.Size = end - start
	tx.StrippedSize = 4 + (bodyEnd - bodyStart) + 4
	tx.TxID = txID(r, start, bodyStart, bodyEnd, lockStart, witness)
	return tx, nil
}

// txID hashes version, inputs, outputs and lock time, leaving out marker, flag and witness.
func txID(r *codec.Reader, start, bodyStart, bodyEnd, lockStart int, witness bool) chainhash.Hash {
	if !witness {
		return chainhash.DoubleHashH(r.Span(start, lockStart+4))
	}
	stripped := make([]byte, 0, 4+(bodyEnd-bodyStart)+4)
	stripped = append(stripped, r.Span(start, start+4)...)
	stripped = append(stripped, r.Span(bodyStart, bodyEnd)...)
	stripped = append(stripped, r.Span(lockStart, lockStart+4)...)
	return chainhash.DoubleHashH(stripped)
}

// readCount reads a varint count and rejects values the remaining bytes cannot hold.
func readCount(r *codec.Reader, minItemSize int) (int, error) {
	n, err := r.VarInt()
	if err != nil {
		return 0, err
	}
	if n > uint64(r.Remaining()/minItemSize) {
		return 0, fmt.Errorf("%w: %d items: %w", errCountTooLarge, n, codec.ErrTruncatedInput)
	}
	return safe.Int(n)
}

func readInput(r *codec.Reader) (model.TxInput, error) {
	var (
		in  model.TxInput
		err error
	)
	if in.PrevTxID, err = r.Hash(); err != nil {
		return in, fmt.Errorf("previous txid: %w", err)
	}
	if in.PrevIndex, err = r.Uint32(); err != nil {
		return in, fmt.Errorf("previous index: %w", err)
	}
	if in.SignatureScript, err = r.VarBytes(); err != nil {
		return in, fmt.Errorf("signature script: %w", err)
	}
	if in.Sequence, err = r.Uint32(); err != nil {
		return in, fmt.Errorf("sequence: %w", err)
	}
	return in, nil
}

func readOutput(r *codec.Reader) (model.TxOutput, error) {
	var (
		out model.TxOutput
		err error
	)
	if out.Value, err = r.Int64(); err != nil {
		return out, fmt.Errorf("value: %w", err)
	}
	if out.Value < 0 {
		return out, fmt.Errorf("%w: %d", errNegativeValue, out.Value)
	}
	if out.PkScript, err = r.VarBytes(); err != nil {
		return out, fmt.Errorf("pk script: %w", err)
	}
	return out, nil
}

func readWitness(r *codec.Reader) ([][]byte, error) {
	n, err := readCount(r, 1)
	if err != nil {
		return nil, err
	}
	stack := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		item, err := r.VarBytes()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		stack = append(stack, item)
	}
	return stack, nil
}
