// Package checkpoint records block files that were loaded completely so later
// runs can skip them.
package checkpoint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
)

const valueSize = 16

// Store keys files by network and base name. A file counts as done only while
// its size and modification time match what was recorded.
type Store struct {
	db      *badger.DB
	network model.Network
}

func Open(dir string, network model.Network) (*Store, error) {
	if dir == "" {
		return nil, errors.New("checkpoint dir is required")
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open checkpoint store: %w", err)
	}
	return &Store{db: db, network: network}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Done reports whether path was marked done and has not changed since.
func (s *Store) Done(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat block file: %w", err)
	}
	want := encodeStamp(model.NewFileStamp(info))

	var done bool
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			done = len(val) == valueSize && [valueSize]byte(val) == want
			return nil
		})
	})
	if err != nil {
		return false, fmt.Errorf("read checkpoint %s: %w", filepath.Base(path), err)
	}
	return done, nil
}

// MarkDone records path as loaded up to stamp. The stamp must be taken before
// the file was read, so later appends make Done report false.
func (s *Store) MarkDone(path string, stamp model.FileStamp) error {
	value := encodeStamp(stamp)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(path), value[:])
	})
	if err != nil {
		return fmt.Errorf("write checkpoint %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Store) key(path string) []byte {
	return []byte(string(s.network) + "/" + filepath.Base(path))
}

func encodeStamp(stamp model.FileStamp) [valueSize]byte {
	var value [valueSize]byte
	binary.BigEndian.PutUint64(value[:8], uint64(stamp.Size))
	binary.BigEndian.PutUint64(value[8:], uint64(stamp.ModTime.UnixNano()))
	return value
}
