package model

import (
	"io/fs"
	"time"
)

// FileStamp identifies the contents of a block file at one point in time.
type FileStamp struct {
	Size    int64
	ModTime time.Time
}

func NewFileStamp(info fs.FileInfo) FileStamp {
	return FileStamp{Size: info.Size(), ModTime: info.ModTime()}
}

// Equal reports whether both stamps describe the same file version.
func (s FileStamp) Equal(other FileStamp) bool {
	return s.Size == other.Size && s.ModTime.Equal(other.ModTime)
}
