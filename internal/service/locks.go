package service

import "sync"

// expenseLocks serializes mutations per expense ID. Every read-modify-
// write of an expense and its shares runs inside the expense's lock;
// operations on different expenses proceed in parallel. Locks are only
// held across the in-memory validate-compute-persist sequence, never
// across directory lookups or other external calls.
type expenseLocks struct {
	mu    sync.Mutex
	locks map[string]*expenseLock
}

type expenseLock struct {
	mu   sync.Mutex
	refs int
}

func newExpenseLocks() *expenseLocks {
	return &expenseLocks{locks: make(map[string]*expenseLock)}
}

// lock acquires the exclusive lock for the given expense ID and returns
// the matching unlock function. Entries are reference counted so the map
// does not grow with every expense ever touched.
func (l *expenseLocks) lock(expenseID string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[expenseID]
	if !ok {
		entry = &expenseLock{}
		l.locks[expenseID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, expenseID)
		}
		l.mu.Unlock()
	}
}
