package tracker

import (
	"sync"
	"time"

	"github.com/relaymon/relaymon/internal/pkg/conns"
	"github.com/relaymon/relaymon/internal/pkg/logger"
)

// resolverFailureLimit is how many consecutive failures a resolver gets
// before being dropped from the candidate list.
const resolverFailureLimit = 3

// ConnectionEntry is a tracked connection plus when the tracker first saw it.
type ConnectionEntry struct {
	conns.Connection

	// FirstSeen is when this connection first appeared in a poll.
	FirstSeen time.Time

	// Legacy marks connections already open when tracking began; their
	// true start time is unknown and FirstSeen is only a lower bound.
	Legacy bool
}

// ConnectionTracker polls the relay process' established connections in the
// background. Resolvers that keep failing are dropped one by one; once the
// list is exhausted the tracker stops producing results until a custom
// resolver is set.
type ConnectionTracker struct {
	*Daemon

	pidOf PIDFunc
	list  func(r conns.Resolver, pid int) ([]conns.Connection, error)
	now   func() time.Time

	mu             sync.RWMutex
	current        []ConnectionEntry
	resolvers      []conns.Resolver
	customResolver bool
	failures       int
	polled         bool
}

// NewConnectionTracker creates a tracker polling once per interval.
func NewConnectionTracker(interval time.Duration, pidOf PIDFunc) *ConnectionTracker {
	return newConnectionTracker(interval, pidOf, conns.Connections, conns.SystemResolvers(), time.Now)
}

func newConnectionTracker(interval time.Duration, pidOf PIDFunc, list func(conns.Resolver, int) ([]conns.Connection, error), resolvers []conns.Resolver, now func() time.Time) *ConnectionTracker {
	t := &ConnectionTracker{
		pidOf:     pidOf,
		list:      list,
		now:       now,
		resolvers: resolvers,
	}
	t.Daemon = NewDaemon(interval, t.sample)
	return t
}

// Connections returns the most recently published connection list. The
// returned slice is the caller's to keep.
func (t *ConnectionTracker) Connections() []ConnectionEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]ConnectionEntry, len(t.current))
	copy(entries, t.current)
	return entries
}

// Resolvers returns the remaining resolver candidates in preference order.
func (t *ConnectionTracker) Resolvers() []conns.Resolver {
	t.mu.RLock()
	defer t.mu.RUnlock()

	resolvers := make([]conns.Resolver, len(t.resolvers))
	copy(resolvers, t.resolvers)
	return resolvers
}

// SetCustomResolver pins the tracker to one resolver, resetting any prior
// failure history. A pinned resolver is never dropped.
func (t *ConnectionTracker) SetCustomResolver(r conns.Resolver) {
	t.mu.Lock()
	t.resolvers = []conns.Resolver{r}
	t.customResolver = true
	t.failures = 0
	t.mu.Unlock()
}

func (t *ConnectionTracker) sample() bool {
	pid, ok := t.pidOf()
	if !ok {
		return false
	}

	t.mu.RLock()
	var resolver conns.Resolver
	hasResolver := len(t.resolvers) > 0
	if hasResolver {
		resolver = t.resolvers[0]
	}
	t.mu.RUnlock()

	if !hasResolver {
		return false
	}

	listed, err := t.list(resolver, pid)
	if err != nil {
		logger.Debug("Listing connections failed", "resolver", resolver.String(), "pid", pid, "error", err)

		t.mu.Lock()
		t.failures++
		if !t.customResolver && t.failures >= resolverFailureLimit {
			logger.Info("Dropping connection resolver after repeated failures",
				"resolver", resolver.String(), "failures", t.failures)
			t.resolvers = t.resolvers[1:]
			t.failures = 0
		}
		t.mu.Unlock()
		return false
	}

	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.failures = 0

	known := make(map[string]ConnectionEntry, len(t.current))
	for _, entry := range t.current {
		known[entry.Key()] = entry
	}

	entries := make([]ConnectionEntry, 0, len(listed))
	for _, conn := range listed {
		if entry, ok := known[conn.Key()]; ok {
			entries = append(entries, entry)
			continue
		}
		entries = append(entries, ConnectionEntry{
			Connection: conn,
			FirstSeen:  now,
			Legacy:     !t.polled,
		})
	}

	t.polled = true
	t.current = entries
	return true
}
