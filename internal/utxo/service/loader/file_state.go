package loader

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
)

// FileState is the lifecycle of one block file within a run.
type FileState int

const (
	Pending FileState = iota
	Scanning
	Draining
	Done
	Failed
)

func (s FileState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Scanning:
		return "scanning"
	case Draining:
		return "draining"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileReport summarizes one file after the run.
type FileReport struct {
	Path         string
	State        FileState
	Checkpointed bool
	Enqueued     uint64
	Skipped      uint64
	Failed       uint64
	Abandoned    uint64
	SkippedBytes int64
	Err          error
}

// fileRun tracks a file while its blocks move through the pipeline.
type fileRun struct {
	path    string
	started time.Time
	state   FileState

	checkpointed bool
	// stamp is taken from the open file before scanning.
	stamp        model.FileStamp
	skippedBytes int64
	err          error

	enqueued  atomic.Uint64
	skipped   atomic.Uint64
	failed    atomic.Uint64
	abandoned atomic.Uint64

	// dequeued is released once per enqueued block after a worker has taken it
	// and built its rows.
	dequeued sync.WaitGroup
}

func newFileRun(path string) *fileRun {
	return &fileRun{path: path, state: Pending}
}

// complete reports whether every block of the file reached a writer outcome without failure.
func (f *fileRun) complete() bool {
	return f.state == Done && !f.checkpointed && f.failed.Load() == 0 && f.abandoned.Load() == 0
}

func (f *fileRun) report() FileReport {
	return FileReport{
		Path:         f.path,
		State:        f.state,
		Checkpointed: f.checkpointed,
		Enqueued:     f.enqueued.Load(),
		Skipped:      f.skipped.Load(),
		Failed:       f.failed.Load(),
		Abandoned:    f.abandoned.Load(),
		SkippedBytes: f.skippedBytes,
		Err:          f.err,
	}
}
