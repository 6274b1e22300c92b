package loader

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is a point-in-time view of run progress.
type Snapshot struct {
	Committed    uint64
	Duplicates   uint64
	Failed       uint64
	Skipped      uint64
	Abandoned    uint64
	Transactions uint64
	Elapsed      time.Duration
	BlockRate    float64
	TxRate       float64
}

// Progress counts block outcomes for one run. Committed, duplicate and failed
// are only moved by writer outcomes. Every `every` writer outcomes a snapshot is
// offered on a one-slot channel; a snapshot nobody has taken yet is replaced
// rather than waited on.
type Progress struct {
	committed    atomic.Uint64
	duplicates   atomic.Uint64
	failed       atomic.Uint64
	skipped      atomic.Uint64
	abandoned    atomic.Uint64
	transactions atomic.Uint64
	outcomes     atomic.Uint64

	every   uint64
	started time.Time
	now     func() time.Time

	mu        sync.Mutex
	closed    bool
	snapshots chan Snapshot
}

// NewProgress returns a Progress emitting a snapshot every `every` writer
// outcomes. Zero disables periodic snapshots.
func NewProgress(every uint64, started time.Time) *Progress {
	return &Progress{
		every:     every,
		started:   started,
		now:       time.Now,
		snapshots: make(chan Snapshot, 1),
	}
}

func (p *Progress) Committed(transactions int) {
	p.committed.Add(1)
	p.transactions.Add(uint64(transactions))
	p.outcome()
}

func (p *Progress) Duplicate() {
	p.duplicates.Add(1)
	p.outcome()
}

func (p *Progress) Failed() {
	p.failed.Add(1)
	p.outcome()
}

func (p *Progress) Skipped() {
	p.skipped.Add(1)
}

func (p *Progress) Abandoned() {
	p.abandoned.Add(1)
}

// Snapshots delivers periodic snapshots until Close.
func (p *Progress) Snapshots() <-chan Snapshot {
	return p.snapshots
}

// Close stops snapshot delivery. Counters keep working.
func (p *Progress) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.snapshots)
	}
}

// Snapshot returns the current counters and rates.
func (p *Progress) Snapshot() Snapshot {
	elapsed := p.now().Sub(p.started)
	s := Snapshot{
		Committed:    p.committed.Load(),
		Duplicates:   p.duplicates.Load(),
		Failed:       p.failed.Load(),
		Skipped:      p.skipped.Load(),
		Abandoned:    p.abandoned.Load(),
		Transactions: p.transactions.Load(),
		Elapsed:      elapsed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		s.BlockRate = float64(s.Committed) / secs
		s.TxRate = float64(s.Transactions) / secs
	}
	return s
}

func (p *Progress) outcome() {
	n := p.outcomes.Add(1)
	if p.every == 0 || n%p.every != 0 {
		return
	}
	p.offer(p.Snapshot())
}

func (p *Progress) offer(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.snapshots <- s:
		return
	default:
	}
	// drop the stale snapshot
	select {
	case <-p.snapshots:
	default:
	}
	select {
	case p.snapshots <- s:
	default:
	}
}
