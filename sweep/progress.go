package sweep

import (
	"sync"
	"time"
)

// Progress counts finished combinations. It is the only state the
// workers of a sweep share.
type Progress struct {
	mu      sync.Mutex
	total   int
	done    int
	failed  int
	started time.Time
}

func NewProgress(total int) *Progress {
	return &Progress{total: total, started: time.Now()}
}

// Done records one finished combination and returns the number finished
// so far.
func (p *Progress) Done(failed bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if failed {
		p.failed++
	}
	return p.done
}

// Snapshot returns the counters and the estimated time left.
func (p *Progress) Snapshot() (done, failed, total int, eta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done > 0 && p.done < p.total {
		per := time.Since(p.started) / time.Duration(p.done)
		eta = per * time.Duration(p.total-p.done)
	}
	return p.done, p.failed, p.total, eta
}
