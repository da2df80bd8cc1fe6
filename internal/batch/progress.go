package batch

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time view of a run.
type Snapshot struct {
	TotalItems       int           `json:"total_items"`
	ProcessedItems   int           `json:"processed_items"`
	TotalBatches     int           `json:"total_batches"`
	ProcessedBatches int           `json:"processed_batches"`
	Elapsed          time.Duration `json:"elapsed"`
}

// Percent returns completion in the range 0-100.
func (s Snapshot) Percent() float64 {
	if s.TotalItems == 0 {
		return 0
	}
	return float64(s.ProcessedItems) / float64(s.TotalItems) * 100
}

// Done reports whether every item was processed.
func (s Snapshot) Done() bool { return s.ProcessedItems >= s.TotalItems }

type progress struct {
	mu    sync.Mutex
	start time.Time
	snap  Snapshot
}

func newProgress(items, batches int) *progress {
	return &progress{
		start: time.Now(),
		snap:  Snapshot{TotalItems: items, TotalBatches: batches},
	}
}

func (p *progress) add(items int) Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.ProcessedItems += items
	p.snap.ProcessedBatches++
	p.snap.Elapsed = time.Since(p.start)
	return p.snap
}
