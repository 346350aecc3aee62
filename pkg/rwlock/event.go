package rwlock

import "time"

// Observer receives trace events emitted at operation boundaries.
// Observe is called synchronously, sometimes while a counter guard is held,
// so it must be fast and must never call back into the lock.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) {
	f(e)
}

type Op int

const (
	OpInit Op = iota
	OpClose
	OpReadLock
	OpReadUnlock
	OpWriteLock
	OpWriteUnlock
)

var opNames = [...]string{
	OpInit:        "init",
	OpClose:       "close",
	OpReadLock:    "read_lock",
	OpReadUnlock:  "read_unlock",
	OpWriteLock:   "write_lock",
	OpWriteUnlock: "write_unlock",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

type EventKind int

const (
	EventCalled EventKind = iota
	EventCounter
	EventGateAcquiring
	EventGateAcquired
	EventGateReleased
	EventDone
)

var eventKindNames = [...]string{
	EventCalled:        "called",
	EventCounter:       "counter",
	EventGateAcquiring: "gate_acquiring",
	EventGateAcquired:  "gate_acquired",
	EventGateReleased:  "gate_released",
	EventDone:          "done",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

type Gate int

const (
	GateNone Gate = iota
	// GateWriterPresent is held while at least one writer waits or writes.
	GateWriterPresent
	// GateExclusiveAccess is held by the active reader batch or by the writing writer.
	GateExclusiveAccess
)

var gateNames = [...]string{
	GateNone:            "",
	GateWriterPresent:   "writer_present",
	GateExclusiveAccess: "exclusive_access",
}

func (g Gate) String() string {
	if g < 0 || int(g) >= len(gateNames) {
		return "unknown"
	}
	return gateNames[g]
}

// Event describes one trace point. For EventCounter, Readers holds the new
// active reader count when Op is a read operation and Writers the new
// present writer count when Op is a write operation.
type Event struct {
	Lock    string
	Op      Op
	Kind    EventKind
	Gate    Gate
	Readers int64
	Writers int64
	// Wait is the time an acquiring operation spent blocked. Set on EventDone
	// of ReadLock and WriteLock.
	Wait time.Duration
}
