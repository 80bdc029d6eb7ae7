package booking

import "sync"

// staffLocks hands out one mutex per staff member. The set of staff is fixed by the catalog,
// so entries are never evicted.
type staffLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newStaffLocks() *staffLocks {
	return &staffLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the staff member's mutex and returns its release func.
func (l *staffLocks) lock(staffID string) func() {
	l.mu.Lock()
	m, ok := l.locks[staffID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[staffID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
