// Package directory lists block files in the order the node wrote them.
package directory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	filePrefix = "blk"
	fileExt    = ".dat"
)

// ErrDirectory reports that the blocks directory cannot be listed.
var ErrDirectory = errors.New("blocks directory")

// List returns the paths of blk<N>.dat files in dir sorted by N.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDirectory, dir, err)
	}

	type blockFile struct {
		path  string
		index uint64
	}
	files := make([]blockFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		index, ok := FileIndex(entry.Name())
		if !ok {
			continue
		}
		files = append(files, blockFile{path: filepath.Join(dir, entry.Name()), index: index})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].index < files[j].index
	})

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.path)
	}
	return paths, nil
}

// FileIndex extracts N from a blk<N>.dat file name.
func FileIndex(name string) (uint64, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileExt)
	if digits == "" {
		return 0, false
	}
	index, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return index, true
}
