package rwlock

type State int

const (
	StateIdle State = iota
	StateReadersActive
	// StateWriterPresent means a writer waits for the reader batch to drain.
	StateWriterPresent
	StateWriting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReadersActive:
		return "readers_active"
	case StateWriterPresent:
		return "writer_present"
	case StateWriting:
		return "writing"
	default:
		return "unknown"
	}
}

type Stats struct {
	ActiveReaders int64
	ActiveWriters int64
	Writing       bool
}

func (s Stats) State() State {
	switch {
	case s.Writing:
		return StateWriting
	case s.ActiveWriters > 0:
		return StateWriterPresent
	case s.ActiveReaders > 0:
		return StateReadersActive
	default:
		return StateIdle
	}
}

// Stats returns a snapshot of the counters. The two counters are read under
// their own guards one after another, so the snapshot is not atomic across
// them. It may block for as long as a reader is being admitted.
func (rw *RWLock) Stats() Stats {
	var s Stats

	rw.readerCountGuard.Lock()
	s.ActiveReaders = rw.activeReaders
	rw.readerCountGuard.Unlock()

	rw.writerCountGuard.Lock()
	s.ActiveWriters = rw.activeWriters
	s.Writing = rw.writing
	rw.writerCountGuard.Unlock()

	return s
}
