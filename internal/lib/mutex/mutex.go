package mutex

// RWLocker is the set of operations the scenario harness drives. Both the
// writer-biased rwlock.RWLock and StdRWMutex implement it.
type RWLocker interface {
	ReadLock()
	ReadUnlock()
	WriteLock()
	WriteUnlock()
	Close() error
}

// Factory creates a fresh, unlocked RWLocker.
type Factory func() RWLocker
