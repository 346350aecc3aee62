package observer

import (
	"context"
	"log/slog"

	"github.com/DIvanCode/rwlock/pkg/rwlock"
)

// Slog writes one structured log record per lock event.
type Slog struct {
	log   *slog.Logger
	level slog.Level
}

func NewSlog(log *slog.Logger, level slog.Level) *Slog {
	return &Slog{
		log:   log,
		level: level,
	}
}

func (o *Slog) Observe(e rwlock.Event) {
	ctx := context.Background()
	if !o.log.Enabled(ctx, o.level) {
		return
	}

	attrs := []slog.Attr{
		slog.String("lock", e.Lock),
		slog.String("op", e.Op.String()),
		slog.String("event", e.Kind.String()),
	}
	switch e.Kind {
	case rwlock.EventCounter:
		if isReadOp(e.Op) {
			attrs = append(attrs, slog.Int64("active_readers", e.Readers))
		} else {
			attrs = append(attrs, slog.Int64("active_writers", e.Writers))
		}
	case rwlock.EventGateAcquiring, rwlock.EventGateAcquired, rwlock.EventGateReleased:
		attrs = append(attrs, slog.String("gate", e.Gate.String()))
	case rwlock.EventDone:
		if isAcquire(e.Op) {
			attrs = append(attrs, slog.Duration("wait", e.Wait))
		}
	}

	o.log.LogAttrs(ctx, o.level, "rwlock", attrs...)
}

func isReadOp(op rwlock.Op) bool {
	return op == rwlock.OpReadLock || op == rwlock.OpReadUnlock
}

func isAcquire(op rwlock.Op) bool {
	return op == rwlock.OpReadLock || op == rwlock.OpWriteLock
}
