package mutex

import (
	"sync"

	errs "github.com/DIvanCode/rwlock/pkg/errors"
)

// StdRWMutex adapts sync.RWMutex to RWLocker. It is the baseline the
// writer-biased lock is compared against.
type StdRWMutex struct {
	mu sync.RWMutex
}

func NewStdRWMutex() *StdRWMutex {
	return &StdRWMutex{}
}

func (rw *StdRWMutex) ReadLock() {
	rw.mu.RLock()
}

func (rw *StdRWMutex) ReadUnlock() {
	rw.mu.RUnlock()
}

func (rw *StdRWMutex) WriteLock() {
	rw.mu.Lock()
}

func (rw *StdRWMutex) WriteUnlock() {
	rw.mu.Unlock()
}

// Close reports ErrWriteLocked if the mutex is held in any mode.
func (rw *StdRWMutex) Close() error {
	if !rw.mu.TryLock() {
		return errs.ErrWriteLocked
	}
	rw.mu.Unlock()
	return nil
}
