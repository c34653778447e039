package services

import (
	"sync"

	"github.com/google/uuid"
)

// accountLocks hands out one mutex per account id, so mutations on the same
// account serialize while unrelated accounts never block each other. Entries
// are refcounted and removed once the last holder releases.
type accountLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*accountLock
}

type accountLock struct {
	sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[uuid.UUID]*accountLock)}
}

// acquire blocks until the per-account lock is held and returns the release
// function. Callers must release on every exit path.
func (l *accountLocks) acquire(accountID uuid.UUID) func() {
	l.mu.Lock()
	lock, ok := l.locks[accountID]
	if !ok {
		lock = &accountLock{}
		l.locks[accountID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.Lock()

	return func() {
		lock.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, accountID)
		}
		l.mu.Unlock()
	}
}
