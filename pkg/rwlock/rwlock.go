package rwlock

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	errs "github.com/DIvanCode/rwlock/pkg/errors"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// RWLock is a writer-biased reader/writer lock. Any number of readers may
// hold it at once, or a single writer. A writer that has started waiting
// blocks every reader that arrives after it, so a continuous stream of
// readers cannot starve writers.
//
// The lock is not reentrant and a read lock can not be upgraded. Like
// sync.RWMutex it is not bound to a goroutine: one goroutine may lock it and
// another one may unlock it.
type RWLock struct {
	activeReaders int64
	// activeWriters counts writers that are waiting to write or writing.
	activeWriters int64
	// writing is set while a writer holds the exclusive gate. Guarded by
	// writerCountGuard.
	writing bool

	readerCountGuard sync.Mutex
	writerCountGuard sync.Mutex

	writerPresentGate   gate
	exclusiveAccessGate gate

	closed atomic.Bool

	name     string
	observer Observer
	clock    clockwork.Clock
}

type Option func(rw *RWLock)

// WithName sets the name reported in trace events. A random UUID is used by default.
func WithName(name string) Option {
	return func(rw *RWLock) {
		rw.name = name
	}
}

func WithObserver(o Observer) Option {
	return func(rw *RWLock) {
		rw.observer = o
	}
}

// WithClock sets the clock used to measure how long acquiring operations block.
func WithClock(c clockwork.Clock) Option {
	return func(rw *RWLock) {
		rw.clock = c
	}
}

// New returns an unlocked RWLock with both counters at zero.
func New(opts ...Option) *RWLock {
	rw := &RWLock{
		writerPresentGate:   newGate(),
		exclusiveAccessGate: newGate(),
	}
	for _, opt := range opts {
		opt(rw)
	}
	if rw.name == "" {
		rw.name = uuid.NewString()
	}
	if rw.clock == nil {
		rw.clock = clockwork.NewRealClock()
	}

	rw.trace(OpInit, EventCalled, GateNone)
	return rw
}

func (rw *RWLock) Name() string {
	return rw.name
}

// ReadLock blocks until the caller holds read access.
func (rw *RWLock) ReadLock() {
	rw.checkOpen()
	start := rw.now()
	rw.trace(OpReadLock, EventCalled, GateNone)

	// Writers that are present keep new readers out here.
	rw.trace(OpReadLock, EventGateAcquiring, GateWriterPresent)
	rw.writerPresentGate.lock()
	rw.trace(OpReadLock, EventGateAcquired, GateWriterPresent)

	rw.readerCountGuard.Lock()
	if rw.activeReaders == 0 {
		// The first reader of a batch excludes writers for the whole batch.
		rw.trace(OpReadLock, EventGateAcquiring, GateExclusiveAccess)
		rw.exclusiveAccessGate.lock()
		rw.trace(OpReadLock, EventGateAcquired, GateExclusiveAccess)
	}
	rw.activeReaders++
	rw.traceReaders(OpReadLock, rw.activeReaders)
	rw.readerCountGuard.Unlock()

	rw.writerPresentGate.unlock()
	rw.trace(OpReadLock, EventGateReleased, GateWriterPresent)

	rw.traceDone(OpReadLock, start)
}

// ReadUnlock releases read access obtained by ReadLock. It panics if the
// lock is not held for reading.
func (rw *RWLock) ReadUnlock() {
	rw.checkOpen()
	rw.trace(OpReadUnlock, EventCalled, GateNone)

	rw.readerCountGuard.Lock()
	if rw.activeReaders <= 0 {
		rw.readerCountGuard.Unlock()
		panic("rwlock: ReadUnlock of unlocked RWLock")
	}
	rw.activeReaders--
	rw.traceReaders(OpReadUnlock, rw.activeReaders)
	if rw.activeReaders == 0 {
		// The last reader of the batch lets a waiting writer in.
		rw.exclusiveAccessGate.unlock()
		rw.trace(OpReadUnlock, EventGateReleased, GateExclusiveAccess)
	}
	rw.readerCountGuard.Unlock()

	rw.traceDone(OpReadUnlock, time.Time{})
}

// WriteLock blocks until the caller holds exclusive write access.
func (rw *RWLock) WriteLock() {
	rw.checkOpen()
	start := rw.now()
	rw.trace(OpWriteLock, EventCalled, GateNone)

	rw.writerCountGuard.Lock()
	if rw.activeWriters == 0 {
		// The first present writer raises the flag that blocks new readers.
		rw.trace(OpWriteLock, EventGateAcquiring, GateWriterPresent)
		rw.writerPresentGate.lock()
		rw.trace(OpWriteLock, EventGateAcquired, GateWriterPresent)
	}
	rw.activeWriters++
	rw.traceWriters(OpWriteLock, rw.activeWriters)
	rw.writerCountGuard.Unlock()

	rw.trace(OpWriteLock, EventGateAcquiring, GateExclusiveAccess)
	rw.exclusiveAccessGate.lock()
	rw.trace(OpWriteLock, EventGateAcquired, GateExclusiveAccess)

	rw.writerCountGuard.Lock()
	rw.writing = true
	rw.writerCountGuard.Unlock()

	rw.traceDone(OpWriteLock, start)
}

// WriteUnlock releases write access obtained by WriteLock. It panics if the
// lock is not held for writing.
func (rw *RWLock) WriteUnlock() {
	rw.checkOpen()
	rw.trace(OpWriteUnlock, EventCalled, GateNone)

	// Waiting writers are counted too, so the counter alone can not tell
	// whether anyone is writing.
	rw.writerCountGuard.Lock()
	if !rw.writing {
		rw.writerCountGuard.Unlock()
		panic("rwlock: WriteUnlock of unlocked RWLock")
	}
	rw.writing = false
	rw.writerCountGuard.Unlock()

	rw.exclusiveAccessGate.unlock()
	rw.trace(OpWriteUnlock, EventGateReleased, GateExclusiveAccess)

	rw.writerCountGuard.Lock()
	rw.activeWriters--
	rw.traceWriters(OpWriteUnlock, rw.activeWriters)
	if rw.activeWriters == 0 {
		rw.writerPresentGate.unlock()
		rw.trace(OpWriteUnlock, EventGateReleased, GateWriterPresent)
	}
	rw.writerCountGuard.Unlock()

	rw.traceDone(OpWriteUnlock, time.Time{})
}

// Close retires the lock. It must only be called when no goroutine holds or
// waits for the lock; otherwise ErrReadLocked or ErrWriteLocked is returned
// and the lock stays usable. Any use of the lock after a successful Close panics.
func (rw *RWLock) Close() error {
	if rw.closed.Load() {
		return errs.ErrClosed
	}
	rw.trace(OpClose, EventCalled, GateNone)

	rw.readerCountGuard.Lock()
	readers := rw.activeReaders
	rw.readerCountGuard.Unlock()

	rw.writerCountGuard.Lock()
	writers := rw.activeWriters
	rw.writerCountGuard.Unlock()

	switch {
	case writers > 0:
		return fmt.Errorf("%w: %d writers present", errs.ErrWriteLocked, writers)
	case readers > 0:
		return fmt.Errorf("%w: %d readers active", errs.ErrReadLocked, readers)
	}

	// Counters are zero but a reader may still be in the middle of ReadLock,
	// or a writer may have arrived since they were read.
	if !rw.writerPresentGate.tryLock() {
		return rw.gateBusyError()
	}
	if !rw.exclusiveAccessGate.tryLock() {
		rw.writerPresentGate.unlock()
		return fmt.Errorf("%w: reader admission in progress", errs.ErrReadLocked)
	}

	if !rw.closed.CompareAndSwap(false, true) {
		return errs.ErrClosed
	}
	rw.traceDone(OpClose, time.Time{})
	return nil
}

// gateBusyError tells a writer that took the writer-present gate after the
// counters were read from a reader that holds it during admission. The first
// writer raises its counter before the guard is released, so once the guard
// is ours a present writer is visible.
func (rw *RWLock) gateBusyError() error {
	rw.writerCountGuard.Lock()
	writers := rw.activeWriters
	rw.writerCountGuard.Unlock()

	if writers > 0 {
		return fmt.Errorf("%w: %d writers present", errs.ErrWriteLocked, writers)
	}
	return fmt.Errorf("%w: reader admission in progress", errs.ErrReadLocked)
}

// RLocker returns a sync.Locker that calls ReadLock and ReadUnlock.
func (rw *RWLock) RLocker() sync.Locker {
	return (*rlocker)(rw)
}

// Locker returns a sync.Locker that calls WriteLock and WriteUnlock.
func (rw *RWLock) Locker() sync.Locker {
	return (*wlocker)(rw)
}

type rlocker RWLock

func (r *rlocker) Lock()   { (*RWLock)(r).ReadLock() }
func (r *rlocker) Unlock() { (*RWLock)(r).ReadUnlock() }

type wlocker RWLock

func (w *wlocker) Lock()   { (*RWLock)(w).WriteLock() }
func (w *wlocker) Unlock() { (*RWLock)(w).WriteUnlock() }

func (rw *RWLock) checkOpen() {
	if rw.closed.Load() {
		panic(errs.ErrClosed)
	}
}

func (rw *RWLock) now() time.Time {
	if rw.observer == nil {
		return time.Time{}
	}
	return rw.clock.Now()
}

func (rw *RWLock) trace(op Op, kind EventKind, g Gate) {
	if rw.observer == nil {
		return
	}
	rw.observer.Observe(Event{Lock: rw.name, Op: op, Kind: kind, Gate: g})
}

func (rw *RWLock) traceReaders(op Op, readers int64) {
	if rw.observer == nil {
		return
	}
	rw.observer.Observe(Event{Lock: rw.name, Op: op, Kind: EventCounter, Readers: readers})
}

func (rw *RWLock) traceWriters(op Op, writers int64) {
	if rw.observer == nil {
		return
	}
	rw.observer.Observe(Event{Lock: rw.name, Op: op, Kind: EventCounter, Writers: writers})
}

func (rw *RWLock) traceDone(op Op, start time.Time) {
	if rw.observer == nil {
		return
	}
	e := Event{Lock: rw.name, Op: op, Kind: EventDone}
	if !start.IsZero() {
		e.Wait = rw.clock.Since(start)
	}
	rw.observer.Observe(e)
}
