package tracker

import (
	"sync"
	"time"

	"github.com/relaymon/relaymon/internal/pkg/hostinfo"
	"github.com/relaymon/relaymon/internal/pkg/logger"
)

// PIDFunc reports the process currently being monitored. It is consulted on
// every cycle so trackers follow daemon restarts; ok is false when no process
// is available, which turns the cycle into a no-op.
type PIDFunc func() (pid int, ok bool)

// Reading is the raw measurement a SampleSource takes for one process.
type Reading struct {
	CPUTotal      float64 // cumulative CPU seconds
	Uptime        float64 // process lifetime in seconds
	MemoryBytes   uint64  // resident set size
	MemoryPercent float64 // resident fraction (0-1) of physical memory
}

// SampleSource measures resource usage for a PID.
type SampleSource interface {
	// Available reports whether this source can work on the current host.
	Available() bool

	// Measure takes a reading for pid. Implementations return an error on
	// any read or parse failure; they never publish partial data.
	Measure(pid int) (Reading, error)
}

// ResourceTracker samples the relay process' CPU and memory usage in the
// background. It prefers the cheap /proc source and demotes itself to the
// ps(1) source permanently after the first proc failure. Failed cycles
// publish nothing; readers keep seeing the previous snapshot.
type ResourceTracker struct {
	*Daemon

	pidOf    PIDFunc
	primary  SampleSource
	fallback SampleSource
	cores    int
	now      func() time.Time

	mu      sync.RWMutex
	current Resources
	useProc bool
}

// NewResourceTracker creates a tracker sampling once per interval. pidOf
// supplies the PID of the relay process, typically the control client.
func NewResourceTracker(interval time.Duration, pidOf PIDFunc) *ResourceTracker {
	return newResourceTracker(interval, pidOf, newProcSource(), newPSSource(), hostinfo.NumCPU(), time.Now)
}

func newResourceTracker(interval time.Duration, pidOf PIDFunc, primary, fallback SampleSource, cores int, now func() time.Time) *ResourceTracker {
	if cores < 1 {
		cores = 1
	}
	t := &ResourceTracker{
		pidOf:    pidOf,
		primary:  primary,
		fallback: fallback,
		cores:    cores,
		now:      now,
		useProc:  primary.Available(),
	}
	t.Daemon = NewDaemon(interval, t.sample)
	return t
}

// Resources returns the most recently published sample without blocking on
// sampling. Before the first successful cycle this is the zero Resources.
func (t *ResourceTracker) Resources() Resources {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// UsingProcSource reports whether the next cycle will read from /proc.
func (t *ResourceTracker) UsingProcSource() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.useProc
}

// sample runs one measurement cycle. It reports success so the Daemon only
// counts cycles that published a snapshot.
func (t *ResourceTracker) sample() bool {
	pid, ok := t.pidOf()
	if !ok {
		return false
	}

	t.mu.RLock()
	useProc := t.useProc
	t.mu.RUnlock()

	source := t.fallback
	if useProc {
		source = t.primary
	} else if !source.Available() {
		logger.Debug("Fallback sample source is unavailable", "pid", pid)
		return false
	}

	reading, err := source.Measure(pid)
	if err != nil {
		if useProc {
			// One failure demotes /proc for the tracker's whole life.
			logger.Info("Sampling via proc failed, falling back to ps",
				"pid", pid, "error", err)
			t.mu.Lock()
			t.useProc = false
			t.mu.Unlock()
		} else {
			logger.Debug("Sampling via ps failed", "pid", pid, "error", err)
		}
		return false
	}

	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	var cpuSample float64
	if !t.current.Timestamp.IsZero() {
		elapsed := now.Sub(t.current.Timestamp).Seconds()
		if elapsed > 0 {
			cpuSample = (reading.CPUTotal - t.current.CPUTotal) / elapsed / float64(t.cores) * 100
		}
	}

	var cpuAverage float64
	if reading.Uptime > 0 {
		cpuAverage = 100 * reading.CPUTotal / reading.Uptime
	}

	t.current = Resources{
		CPUSample:     cpuSample,
		CPUAverage:    cpuAverage,
		CPUTotal:      reading.CPUTotal,
		MemoryBytes:   reading.MemoryBytes,
		MemoryPercent: reading.MemoryPercent,
		Timestamp:     now,
	}
	return true
}
