package tracker

import (
	"sync"
	"time"
)

// Daemon runs a task at a fixed wall-clock cadence in a dedicated background
// goroutine. The task returns whether its cycle succeeded; only successful
// cycles advance the run counter. Cycles never overlap: if one runs longer
// than the interval, the next starts as soon as it finishes.
type Daemon struct {
	interval time.Duration
	task     func() bool

	wake chan struct{}
	halt chan struct{}
	done chan struct{}

	mu       sync.Mutex
	started  bool
	stopped  bool
	paused   bool
	runCount int
}

// NewDaemon creates a daemon invoking task once per interval after Start.
func NewDaemon(interval time.Duration, task func() bool) *Daemon {
	return &Daemon{
		interval: interval,
		task:     task,
		wake:     make(chan struct{}, 1),
		halt:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background loop. Starting twice, or after Stop, is a
// no-op.
func (d *Daemon) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	go d.loop()
}

// Stop signals the loop to exit once any in-flight cycle completes and waits
// for the goroutine to terminate before returning. Safe to call repeatedly
// and on a daemon that was never started.
func (d *Daemon) Stop() {
	d.mu.Lock()
	alreadyStopped := d.stopped
	started := d.started
	d.stopped = true
	d.mu.Unlock()

	if !alreadyStopped {
		close(d.halt)
	}
	if started {
		<-d.done
	}
}

// SetPaused suspends or resumes task invocation. The timer keeps elapsing
// while paused; skipped cycles are not queued up.
func (d *Daemon) SetPaused(paused bool) {
	d.mu.Lock()
	d.paused = paused
	d.mu.Unlock()
}

// RunNow schedules an immediate extra cycle outside the normal cadence.
// A pending manual trigger is coalesced with any already queued.
func (d *Daemon) RunNow() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// RunCounter returns the number of successful cycles so far.
func (d *Daemon) RunCounter() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runCount
}

// Interval returns the cadence the daemon was created with.
func (d *Daemon) Interval() time.Duration {
	return d.interval
}

func (d *Daemon) loop() {
	defer close(d.done)

	for {
		select {
		case <-d.halt:
			return
		default:
		}

		start := time.Now()

		d.mu.Lock()
		paused := d.paused
		d.mu.Unlock()

		if !paused && d.task() {
			d.mu.Lock()
			d.runCount++
			d.mu.Unlock()
		}

		delay := d.interval - time.Since(start)
		if delay < 0 {
			delay = 0
		}

		timer := time.NewTimer(delay)
		select {
		case <-d.halt:
			timer.Stop()
			return
		case <-d.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}
