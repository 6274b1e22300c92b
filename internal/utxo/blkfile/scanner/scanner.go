// Package scanner splits a block file into magic-framed records.
package scanner

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/blkfile/codec"
)

const (
	magicSize      = 4
	frameSize      = magicSize + 4
	readBufferSize = 1 << 20
)

// RawRecord is one framed block payload.
type RawRecord struct {
	// Offset is the file offset of the record's magic marker.
	Offset  int64
	Length  uint32
	Payload []byte
}

// Scanner yields records from a block file in on-disk order.
// Bytes that do not start a frame are skipped one at a time until the next marker.
type Scanner struct {
	r          *bufio.Reader
	magic      [magicSize]byte
	maxPayload uint32
	offset     int64
	skipped    int64
	done       bool
}

// New returns a Scanner reading frames tagged with the given network magic.
func New(r io.Reader, net wire.BitcoinNet) *Scanner {
	s := &Scanner{
		r:          bufio.NewReaderSize(r, readBufferSize),
		maxPayload: wire.MaxBlockPayload,
	}
	binary.LittleEndian.PutUint32(s.magic[:], uint32(net))
	return s
}

// Offset returns the number of bytes consumed from the underlying reader.
func (s *Scanner) Offset() int64 {
	return s.offset
}

// Skipped returns the number of bytes discarded while searching for markers.
func (s *Scanner) Skipped() int64 {
	return s.skipped
}

// Next returns the next record. It returns io.EOF once the stream holds no further
// marker, and an error wrapping codec.ErrTruncatedInput when the last frame is cut
// short; the scanner is finished after either.
func (s *Scanner) Next() (RawRecord, error) {
	if s.done {
		return RawRecord{}, io.EOF
	}

	for {
		found, err := s.seekMagic()
		if err != nil {
			s.done = true
			return RawRecord{}, err
		}
		if !found {
			s.done = true
			return RawRecord{}, io.EOF
		}

		start := s.offset
		header, err := s.r.Peek(frameSize)
		if err != nil {
			s.done = true
			if errors.Is(err, io.EOF) {
				return RawRecord{}, fmt.Errorf("%w: frame length at offset %d", codec.ErrTruncatedInput, start)
			}
			return RawRecord{}, fmt.Errorf("read frame header: %w", err)
		}
		length := binary.LittleEndian.Uint32(header[magicSize:])
		if length > s.maxPayload {
			s.discard(1)
			s.skipped++
			continue
		}
		s.discard(frameSize)

		payload := make([]byte, length)
		n, err := io.ReadFull(s.r, payload)
		s.offset += int64(n)
		if err != nil {
			s.done = true
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return RawRecord{}, fmt.Errorf("%w: record at offset %d declares %d bytes, %d available",
					codec.ErrTruncatedInput, start, length, n)
			}
			return RawRecord{}, fmt.Errorf("read record payload: %w", err)
		}

		return RawRecord{Offset: start, Length: length, Payload: payload}, nil
	}
}

// seekMagic advances until the buffered stream starts with the magic marker.
// It reports false when fewer than magicSize bytes remain.
func (s *Scanner) seekMagic() (bool, error) {
	for {
		head, err := s.r.Peek(magicSize)
		if len(head) < magicSize {
			if err == nil || errors.Is(err, io.EOF) {
				s.skipped += int64(len(head))
				s.discard(len(head))
				return false, nil
			}
			return false, fmt.Errorf("search magic: %w", err)
		}
		if bytes.Equal(head, s.magic[:]) {
			return true, nil
		}
		s.discard(1)
		s.skipped++
	}
}

func (s *Scanner) discard(n int) {
	d, _ := s.r.Discard(n)
	s.offset += int64(d)
}
