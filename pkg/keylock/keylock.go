package keylock

import "sync"

// KeyedMutex serializes work per string key. The record store has no
// transactions, so every read-modify-write over a user's keys runs under
// that user's lock; without it two concurrent bookings can drop a points
// update (last write wins).
//
// Locks are never evicted: one mutex per active user is small enough that
// eviction bookkeeping is not worth the extra locking.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

func (k *KeyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

func (k *KeyedMutex) Lock(key string) {
	k.get(key).Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.get(key).Unlock()
}

// WithLock runs fn while holding the lock for key.
func (k *KeyedMutex) WithLock(key string, fn func() error) error {
	m := k.get(key)
	m.Lock()
	defer m.Unlock()
	return fn()
}
