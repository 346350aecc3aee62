package main

import (
	"fmt"
	"log/slog"

	"github.com/DIvanCode/rwlock/internal/lib/mutex"
	"github.com/DIvanCode/rwlock/internal/observer"
	"github.com/DIvanCode/rwlock/pkg/config"
	"github.com/DIvanCode/rwlock/pkg/rwlock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// locks is everything the harness needs to build locks under test.
type locks struct {
	newLock mutex.Factory

	// Nil unless enabled in the config.
	recorder *observer.Recorder
	registry *prometheus.Registry

	sync func()
}

// newLocks builds the lock factory. The recorder and the registry are only
// created when withEndpoints is set, since nothing reads them otherwise.
func newLocks(cfg config.Config, log *slog.Logger, withEndpoints bool) (*locks, error) {
	l := &locks{sync: func() {}}

	var observers []rwlock.Observer

	if cfg.Trace.Enabled {
		switch cfg.Trace.Backend {
		case config.BackendZap:
			zapLog, err := newZapLogger(cfg)
			if err != nil {
				return nil, err
			}
			l.sync = func() { _ = zapLog.Sync() }
			observers = append(observers, observer.NewZap(zapLog))
		default:
			level, err := cfg.Trace.SlogLevel()
			if err != nil {
				return nil, err
			}
			observers = append(observers, observer.NewSlog(log, level))
		}

		if withEndpoints {
			l.recorder = observer.NewRecorder(cfg.Trace.BufferSize)
			observers = append(observers, l.recorder)
		}
	}

	if cfg.Metrics.Enabled && withEndpoints {
		l.registry = prometheus.NewRegistry()
		metrics, err := observer.NewMetrics(l.registry)
		if err != nil {
			return nil, err
		}
		observers = append(observers, metrics)
	}

	obs := observer.Multi(observers...)

	switch cfg.Impl {
	case config.ImplStd:
		if obs != nil {
			log.Warn("tracing is not supported by the std implementation")
		}
		l.newLock = func() mutex.RWLocker { return mutex.NewStdRWMutex() }
	case config.ImplWriterBiased:
		l.newLock = func() mutex.RWLocker { return rwlock.New(rwlock.WithObserver(obs)) }
	default:
		return nil, fmt.Errorf("unknown impl %q", cfg.Impl)
	}

	return l, nil
}

func newZapLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Trace.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trace level: %w", err)
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = level
	return zapCfg.Build()
}
