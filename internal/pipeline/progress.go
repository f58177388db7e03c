package pipeline

import "sync/atomic"

// Progress holds the shared ingestion counters read concurrently by the
// progress stream. Idle state is (0, 0), so a stream opened with no
// ingestion in flight terminates immediately instead of spinning on
// stale counters.
type Progress struct {
	processed atomic.Int64
	total     atomic.Int64
}

// Reset starts a new ingestion of total files.
func (p *Progress) Reset(total int) {
	p.processed.Store(0)
	p.total.Store(int64(total))
}

// Step marks one file as handled. Counters only move forward between resets.
func (p *Progress) Step() {
	p.processed.Add(1)
}

// Snapshot returns the current processed/total pair.
func (p *Progress) Snapshot() (processed, total int64) {
	return p.processed.Load(), p.total.Load()
}

// Done reports whether the current ingestion (if any) has finished.
func (p *Progress) Done() bool {
	processed, total := p.Snapshot()
	return processed >= total
}
