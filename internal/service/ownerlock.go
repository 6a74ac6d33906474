package service

import "sync"

// ownerLocks serializes operations per owner. Different owners never
// contend; the outer mutex only guards the map lookup.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// lock acquires the owner's mutex and returns its unlock func.
func (l *ownerLocks) lock(ownerID string) func() {
	l.mu.Lock()
	m, ok := l.locks[ownerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[ownerID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
