// Package tracker implements the background samplers behind the monitor:
// a generic fixed-interval Daemon, a ResourceTracker measuring the relay
// process' CPU and memory through /proc with a ps(1) fallback, and a
// ConnectionTracker listing its open connections. Consumers read published
// snapshots without ever blocking on a sampling cycle.
package tracker

import "time"

// Resources is a point-in-time measurement of the relay process' resource
// usage. The zero value is the well-defined "no sample yet" state; consumers
// check Timestamp.IsZero() to tell it apart from real data.
type Resources struct {
	// CPUSample is the CPU consumed since the previous sample as a
	// percentage, normalized by the host's core count. Zero on the first
	// sample, which has no baseline.
	CPUSample float64

	// CPUAverage is the CPU consumed over the process' whole lifetime as a
	// percentage (100 * total CPU seconds / uptime seconds). Not clamped;
	// values above 100 are possible and meaningful.
	CPUAverage float64

	// CPUTotal is the cumulative CPU seconds reported by the sample source.
	// It can reset when sampling fails over to a source that counts from
	// its own baseline, so consumers must not assume monotonicity.
	CPUTotal float64

	// MemoryBytes is the resident set size in bytes.
	MemoryBytes uint64

	// MemoryPercent is the resident set as a fraction (0-1) of total
	// physical memory.
	MemoryPercent float64

	// Timestamp is when the sample was taken.
	Timestamp time.Time
}
