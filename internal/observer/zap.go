package observer

import (
	"github.com/DIvanCode/rwlock/pkg/rwlock"
	"go.uber.org/zap"
)

// Zap is the zap counterpart of Slog. Events are logged at debug level.
type Zap struct {
	log *zap.Logger
}

func NewZap(log *zap.Logger) *Zap {
	return &Zap{log: log}
}

func (o *Zap) Observe(e rwlock.Event) {
	ce := o.log.Check(zap.DebugLevel, "rwlock")
	if ce == nil {
		return
	}

	fields := []zap.Field{
		zap.String("lock", e.Lock),
		zap.String("op", e.Op.String()),
		zap.String("event", e.Kind.String()),
	}
	switch e.Kind {
	case rwlock.EventCounter:
		if isReadOp(e.Op) {
			fields = append(fields, zap.Int64("active_readers", e.Readers))
		} else {
			fields = append(fields, zap.Int64("active_writers", e.Writers))
		}
	case rwlock.EventGateAcquiring, rwlock.EventGateAcquired, rwlock.EventGateReleased:
		fields = append(fields, zap.String("gate", e.Gate.String()))
	case rwlock.EventDone:
		if isAcquire(e.Op) {
			fields = append(fields, zap.Duration("wait", e.Wait))
		}
	}

	ce.Write(fields...)
}
