package sessionstore

import "sync"

// KeyedLocks serializes work per session id. Concurrent requests for the
// same session queue behind one mutex; requests for different sessions do
// not contend.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedLocks creates an empty lock set.
func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{locks: make(map[string]*sessionLock)}
}

// Lock acquires the lock for id and returns the unlock function. Lock
// entries are dropped once the last holder releases, so the map stays
// bounded by the number of in-flight sessions.
func (k *KeyedLocks) Lock(id string) func() {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &sessionLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
