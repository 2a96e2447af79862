package tui

import "sync"

// SampleRing keeps a bounded history of CPU samples for the sparkline, plus
// the peak seen so the chart's scale stays steady between refreshes.
type SampleRing struct {
	mu      sync.RWMutex
	samples []float64
	size    int
	head    int
	count   int
	peak    float64
}

// NewSampleRing creates a ring holding up to capacity samples.
func NewSampleRing(capacity int) *SampleRing {
	if capacity <= 0 {
		capacity = 120
	}
	return &SampleRing{
		samples: make([]float64, capacity),
		size:    capacity,
	}
}

// Record appends a sample, evicting the oldest when full. Negative values
// (possible right after a source failover resets the CPU counter) are
// dropped rather than charted.
func (r *SampleRing) Record(v float64) {
	if v < 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v > r.peak {
		r.peak = v
	}
	r.samples[r.head] = v
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// Values returns the recorded samples, oldest first.
func (r *SampleRing) Values() []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make([]float64, r.count)
	for i := 0; i < r.count; i++ {
		values[i] = r.samples[(r.head-r.count+i+r.size)%r.size]
	}
	return values
}

// Peak returns the largest sample recorded so far.
func (r *SampleRing) Peak() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.peak
}

// Count returns how many samples are held.
func (r *SampleRing) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
