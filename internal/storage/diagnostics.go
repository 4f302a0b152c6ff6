package storage

import (
	"sync"
	"time"
)

// DiagnosticsCapacity is how many failures are retained.
const DiagnosticsCapacity = 50

// Failure is one retained persistence error.
type Failure struct {
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	Message    string    `json:"message"`
	At         time.Time `json:"at"`
}

// Diagnostics is a bounded ring of recent persistence failures.
type Diagnostics struct {
	mu    sync.Mutex
	ring  []Failure
	next  int
	total int
}

// NewDiagnostics returns an empty ring.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{ring: make([]Failure, 0, DiagnosticsCapacity)}
}

// Record appends a failure, evicting the oldest once full.
func (d *Diagnostics) Record(f Failure) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.total++
	if len(d.ring) < DiagnosticsCapacity {
		d.ring = append(d.ring, f)
		return
	}
	d.ring[d.next] = f
	d.next = (d.next + 1) % DiagnosticsCapacity
}

// Recent returns retained failures, newest first.
func (d *Diagnostics) Recent() []Failure {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Failure, 0, len(d.ring))
	for i := 0; i < len(d.ring); i++ {
		idx := (d.next - 1 - i + 2*len(d.ring)) % len(d.ring)
		out = append(out, d.ring[idx])
	}
	return out
}

// Total counts every failure recorded, including evicted ones.
func (d *Diagnostics) Total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.total
}
