// Package codec decodes the primitive fields of the block file format from a byte slice.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ErrTruncatedInput is returned when fewer bytes remain than a field requires.
var ErrTruncatedInput = errors.New("truncated input")

// Reader is a forward-only cursor over a byte slice.
// A failed read leaves the cursor where it was.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Span returns buf[from:to] without copying. Callers must not retain it past the
// lifetime of the underlying buffer.
func (r *Reader) Span(from, to int) []byte {
	if from < 0 || to > len(r.buf) || from > to {
		return nil
	}
	return r.buf[from:to]
}

func (r *Reader) take(n int, field string) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("%w: %s needs %d bytes at offset %d, %d left", ErrTruncatedInput, field, n, r.off, r.Remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.take(n, "skip")
	return err
}

func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1, "uint8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Peek returns the next byte without consuming it.
func (r *Reader) Peek() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, fmt.Errorf("%w: peek at offset %d", ErrTruncatedInput, r.off)
	}
	return r.buf[r.off], nil
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.take(2, "uint16")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.take(4, "uint32")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

func (r *Reader) Uint64() (uint64, error) {
	b, err := r.take(8, "uint64")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Hash reads a 32-byte hash in wire order.
func (r *Reader) Hash() (chainhash.Hash, error) {
	var h chainhash.Hash
	b, err := r.take(chainhash.HashSize, "hash")
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

// VarInt reads a compact size integer. Non-canonical encodings are accepted.
func (r *Reader) VarInt() (uint64, error) {
	start := r.off
	prefix, err := r.Uint8()
	if err != nil {
		return 0, err
	}

	var v uint64
	switch prefix {
	case 0xfd:
		var x uint16
		x, err = r.Uint16()
		v = uint64(x)
	case 0xfe:
		var x uint32
		x, err = r.Uint32()
		v = uint64(x)
	case 0xff:
		v, err = r.Uint64()
	default:
		v = uint64(prefix)
	}
	if err != nil {
		r.off = start
		return 0, err
	}
	return v, nil
}

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.take(n, "bytes")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// VarBytes reads a compact size length followed by that many bytes and returns a copy.
func (r *Reader) VarBytes() ([]byte, error) {
	start := r.off
	n, err := r.VarInt()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		r.off = start
		return nil, fmt.Errorf("%w: byte string of %d at offset %d, %d left", ErrTruncatedInput, n, start, r.Remaining())
	}
	out, err := r.Bytes(int(n))
	if err != nil {
		r.off = start
		return nil, err
	}
	return out, nil
}

// VarIntSize returns the number of bytes VarInt consumes for the canonical encoding of v.
func VarIntSize(v uint64) int {
	switch {
	case v < 0xfd:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
