package locker

import (
	"sync"

	errs "github.com/DIvanCode/rwlock/pkg/errors"
)

// Locker hands out non-blocking exclusive claims on keys. A key is claimed
// until it is released; claiming it again in the meantime fails.
type Locker[K comparable] struct {
	mu      sync.Mutex
	claimed map[K]struct{}
}

func NewLocker[K comparable]() *Locker[K] {
	return &Locker[K]{
		claimed: make(map[K]struct{}),
	}
}

// TryLock claims key or returns ErrWriteLocked if it is already claimed.
func (l *Locker[K]) TryLock(key K) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.claimed[key]; ok {
		return errs.ErrWriteLocked
	}

	l.claimed[key] = struct{}{}
	return nil
}

func (l *Locker[K]) Unlock(key K) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.claimed[key]; !ok {
		panic("locker: unlock of unclaimed key")
	}
	delete(l.claimed, key)
}

func (l *Locker[K]) Locked(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.claimed[key]
	return ok
}
