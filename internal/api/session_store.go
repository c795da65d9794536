package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/rflorenc/resource-console/internal/console"
)

type sessionEntry struct {
	console  *console.Console
	lastSeen time.Time
}

// SessionStore provides thread-safe storage for operator consoles. Every
// lookup marks the session as seen; Reap evicts sessions idle for too long.
type SessionStore struct {
	clock    clockwork.Clock
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewSessionStore returns an empty store. A nil clock means the real clock.
func NewSessionStore(clock clockwork.Clock) *SessionStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SessionStore{clock: clock, sessions: make(map[string]*sessionEntry)}
}

// Create stores c under a fresh ID and returns the ID.
func (ss *SessionStore) Create(c *console.Console) string {
	id := uuid.New().String()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[id] = &sessionEntry{console: c, lastSeen: ss.clock.Now()}
	return id
}

// Get returns the console for id and marks it as seen.
func (ss *SessionStore) Get(id string) *console.Console {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	e, ok := ss.sessions[id]
	if !ok {
		return nil
	}
	e.lastSeen = ss.clock.Now()
	return e.console
}

func (ss *SessionStore) Delete(id string) bool {
	ss.mu.Lock()
	e, ok := ss.sessions[id]
	delete(ss.sessions, id)
	ss.mu.Unlock()
	if !ok {
		return false
	}
	e.console.Dismiss()
	return true
}

// List returns the session IDs in sorted order.
func (ss *SessionStore) List() []string {
	ss.mu.RLock()
	ids := make([]string, 0, len(ss.sessions))
	for id := range ss.sessions {
		ids = append(ids, id)
	}
	ss.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Reap evicts every session not seen for longer than idle and returns
// their IDs. Evicted consoles have their notification timer stopped.
func (ss *SessionStore) Reap(idle time.Duration) []string {
	cutoff := ss.clock.Now().Add(-idle)
	var evicted []*console.Console
	var ids []string

	ss.mu.Lock()
	for id, e := range ss.sessions {
		if e.lastSeen.Before(cutoff) {
			ids = append(ids, id)
			evicted = append(evicted, e.console)
			delete(ss.sessions, id)
		}
	}
	ss.mu.Unlock()

	for _, c := range evicted {
		c.Dismiss()
	}
	sort.Strings(ids)
	return ids
}

// RunReaper calls Reap every interval until ctx is done. onEvict, if set,
// receives the IDs evicted by each pass.
func (ss *SessionStore) RunReaper(ctx context.Context, interval, idle time.Duration, onEvict func([]string)) {
	ticker := ss.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if ids := ss.Reap(idle); len(ids) > 0 && onEvict != nil {
				onEvict(ids)
			}
		}
	}
}
