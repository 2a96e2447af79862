package tracker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaemonRunsAtRate(t *testing.T) {
	var calls atomic.Int64
	d := NewDaemon(10*time.Millisecond, func() bool {
		calls.Add(1)
		return true
	})

	d.Start()
	defer d.Stop()

	require.Eventually(t, func() bool {
		return d.RunCounter() > 2
	}, time.Second, time.Millisecond)

	assert.GreaterOrEqual(t, calls.Load(), int64(d.RunCounter()))
	assert.Equal(t, 10*time.Millisecond, d.Interval())
}

func TestDaemonCountsOnlySuccessfulCycles(t *testing.T) {
	var calls atomic.Int64
	d := NewDaemon(5*time.Millisecond, func() bool {
		calls.Add(1)
		return false
	})

	d.Start()
	defer d.Stop()

	require.Eventually(t, func() bool {
		return calls.Load() > 2
	}, time.Second, time.Millisecond)

	assert.Equal(t, 0, d.RunCounter())
}

func TestDaemonPause(t *testing.T) {
	d := NewDaemon(5*time.Millisecond, func() bool { return true })

	d.Start()
	defer d.Stop()

	require.Eventually(t, func() bool {
		return d.RunCounter() > 2
	}, time.Second, time.Millisecond)

	d.SetPaused(true)
	// One cycle may already be mid-flight when the pause lands.
	time.Sleep(20 * time.Millisecond)
	counter := d.RunCounter()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, counter, d.RunCounter())

	d.SetPaused(false)
	require.Eventually(t, func() bool {
		return d.RunCounter() > counter+2
	}, time.Second, time.Millisecond)
}

func TestDaemonRunNow(t *testing.T) {
	d := NewDaemon(time.Hour, func() bool { return true })

	d.Start()
	defer d.Stop()

	// The loop runs one cycle immediately on start, then sleeps.
	require.Eventually(t, func() bool {
		return d.RunCounter() == 1
	}, time.Second, time.Millisecond)

	d.RunNow()
	require.Eventually(t, func() bool {
		return d.RunCounter() == 2
	}, time.Second, time.Millisecond)
}

func TestDaemonStop(t *testing.T) {
	t.Run("never started", func(t *testing.T) {
		d := NewDaemon(time.Millisecond, func() bool { return true })
		d.Stop() // must not hang or panic
		d.Stop()
	})

	t.Run("start after stop is a no-op", func(t *testing.T) {
		d := NewDaemon(time.Millisecond, func() bool { return true })
		d.Stop()
		d.Start()

		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, 0, d.RunCounter())
	})

	t.Run("no cycles after stop returns", func(t *testing.T) {
		d := NewDaemon(time.Millisecond, func() bool { return true })
		d.Start()

		require.Eventually(t, func() bool {
			return d.RunCounter() > 0
		}, time.Second, time.Millisecond)

		d.Stop()
		counter := d.RunCounter()

		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, counter, d.RunCounter())
	})

	t.Run("waits for a cycle in flight", func(t *testing.T) {
		started := make(chan struct{})
		var once sync.Once
		var finished atomic.Bool
		d := NewDaemon(time.Millisecond, func() bool {
			once.Do(func() { close(started) })
			time.Sleep(15 * time.Millisecond)
			finished.Store(true)
			return true
		})
		d.Start()

		<-started
		d.Stop()
		assert.True(t, finished.Load())
	})

	t.Run("stop twice after start", func(t *testing.T) {
		d := NewDaemon(time.Millisecond, func() bool { return true })
		d.Start()
		d.Stop()
		d.Stop()
	})
}
