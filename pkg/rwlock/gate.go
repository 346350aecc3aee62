package rwlock

// gate is a binary lock that is not bound to the goroutine that acquired it:
// the first reader of a batch locks the exclusive gate and the last one
// unlocks it. A token in the channel means the gate is held.
type gate chan struct{}

func newGate() gate {
	return make(gate, 1)
}

func (g gate) lock() {
	g <- struct{}{}
}

func (g gate) tryLock() bool {
	select {
	case g <- struct{}{}:
		return true
	default:
		return false
	}
}

func (g gate) unlock() {
	select {
	case <-g:
	default:
		panic("rwlock: unlock of unlocked gate")
	}
}
