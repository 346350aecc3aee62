package observer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DIvanCode/rwlock/pkg/rwlock"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func Test_Slog_Observe(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rw := rwlock.New(rwlock.WithName("data"), rwlock.WithObserver(NewSlog(log, slog.LevelDebug)))
	rw.ReadLock()
	rw.ReadUnlock()
	require.NoError(t, rw.Close())

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		records = append(records, record)
	}

	require.NotEmpty(t, records)
	for _, r := range records {
		assert.Equal(t, "rwlock", r["msg"])
		assert.Equal(t, "data", r["lock"])
	}

	var counters []float64
	for _, r := range records {
		if r["event"] == "counter" {
			counters = append(counters, r["active_readers"].(float64))
		}
	}
	assert.Equal(t, []float64{1, 0}, counters)
}

func Test_Slog_LevelDisabled(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	o := NewSlog(log, slog.LevelDebug)
	o.Observe(rwlock.Event{Lock: "data", Op: rwlock.OpWriteLock, Kind: rwlock.EventCalled})

	assert.Empty(t, buf.String())
}

func Test_Zap_Observe(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)

	rw := rwlock.New(rwlock.WithName("data"), rwlock.WithObserver(NewZap(zap.New(core))))
	rw.WriteLock()
	rw.WriteUnlock()
	require.NoError(t, rw.Close())

	gates := logs.FilterField(zap.String("gate", rwlock.GateWriterPresent.String())).All()
	require.Len(t, gates, 3)
	assert.Equal(t, "gate_acquiring", gates[0].ContextMap()["event"])
	assert.Equal(t, "gate_acquired", gates[1].ContextMap()["event"])
	assert.Equal(t, "gate_released", gates[2].ContextMap()["event"])

	counters := logs.FilterField(zap.String("event", "counter")).All()
	require.Len(t, counters, 2)
	assert.Equal(t, int64(1), counters[0].ContextMap()["active_writers"])
	assert.Equal(t, int64(0), counters[1].ContextMap()["active_writers"])
}

func Test_Metrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	clock := clockwork.NewFakeClock()
	rw := rwlock.New(rwlock.WithObserver(m), rwlock.WithClock(clock))

	rw.ReadLock()
	rw.ReadLock()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.activeReaders))
	rw.ReadUnlock()
	rw.ReadUnlock()
	assert.Equal(t, float64(0), testutil.ToFloat64(m.activeReaders))

	rw.WriteLock()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.activeWriters))
	rw.WriteUnlock()
	assert.Equal(t, float64(0), testutil.ToFloat64(m.activeWriters))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.acquisitions.WithLabelValues("read_lock")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.acquisitions.WithLabelValues("write_lock")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.wait))

	require.NoError(t, rw.Close())
}

func Test_Metrics_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	require.Error(t, err)
}

func Test_Recorder_Drain(t *testing.T) {
	r := NewRecorder(0)
	rw := rwlock.New(rwlock.WithObserver(r))
	rw.WriteLock()
	rw.WriteUnlock()

	events := r.Drain()
	require.NotEmpty(t, events)
	assert.Equal(t, rwlock.OpInit, events[0].Op)
	assert.Equal(t, rwlock.EventDone, events[len(events)-1].Kind)
	assert.Empty(t, r.Drain())

	require.NoError(t, rw.Close())
}

func Test_Recorder_Limit(t *testing.T) {
	r := NewRecorder(4)
	rw := rwlock.New(rwlock.WithObserver(r))
	rw.ReadLock()
	rw.ReadUnlock()

	events := r.Drain()
	require.Len(t, events, 4)
	assert.Equal(t, rwlock.EventDone, events[3].Kind)
	assert.Positive(t, r.Dropped())

	require.NoError(t, rw.Close())
}

func Test_Multi(t *testing.T) {
	assert.Nil(t, Multi())
	assert.Nil(t, Multi(nil, nil))

	single := NewRecorder(0)
	assert.Same(t, single, Multi(nil, single))

	a, b := NewRecorder(0), NewRecorder(0)
	o := Multi(a, b)
	o.Observe(rwlock.Event{Op: rwlock.OpReadLock, Kind: rwlock.EventDone, Wait: time.Millisecond})

	assert.Len(t, a.Drain(), 1)
	assert.Len(t, b.Drain(), 1)
}
