package service

import "sync"

// projectLocks serializes roster mutations per project. A read-modify-write
// on the rosters outside a lock could drop a concurrent add.
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for projectID, creating it on first use. Locks are
// never removed; the map grows with the number of distinct projects touched
// by this process, which is bounded and small per request lifetime.
func (l *projectLocks) get(projectID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[projectID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[projectID] = m
	}
	return m
}
