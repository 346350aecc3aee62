package observer

import (
	"github.com/DIvanCode/rwlock/internal/lib/queue"
	"github.com/DIvanCode/rwlock/pkg/rwlock"
)

// Recorder keeps the most recent events in memory until they are drained.
type Recorder struct {
	events *queue.Queue[rwlock.Event]
}

// NewRecorder returns a recorder keeping at most limit events; limit <= 0 keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{
		events: queue.NewQueue[rwlock.Event](limit),
	}
}

func (r *Recorder) Observe(e rwlock.Event) {
	r.events.Enqueue(e)
}

func (r *Recorder) Drain() []rwlock.Event {
	return r.events.Drain()
}

func (r *Recorder) Dropped() uint64 {
	return r.events.Dropped()
}
