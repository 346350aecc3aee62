package tester

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DIvanCode/rwlock/internal/lib/mutex"
	"github.com/DIvanCode/rwlock/internal/scenario"
	errs "github.com/DIvanCode/rwlock/pkg/errors"
	"github.com/DIvanCode/rwlock/pkg/rwlock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newLock() mutex.RWLocker {
	return rwlock.New()
}

func newTestTester(clock clockwork.Clock) *Tester {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, newLock, time.Second, clock)
}

func Test_Run_Durations(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tr := newTestTester(clock)

	sleepy := func(d time.Duration) scenario.Func {
		return func(_ context.Context, newLock mutex.Factory) error {
			clock.Advance(d)
			return newLock().Close()
		}
	}

	report := tr.Run(context.Background(), []scenario.Scenario{
		{Name: "short", Run: sleepy(5 * time.Microsecond)},
		{Name: "long", Run: sleepy(2 * time.Millisecond)},
	})

	require.Len(t, report.Results, 2)
	assert.Empty(t, report.Failed())

	assert.Equal(t, "short", report.Results[0].Name)
	assert.Equal(t, time.Duration(0), report.Results[0].Start)
	assert.Equal(t, 5*time.Microsecond, report.Results[0].Duration)

	assert.Equal(t, 5*time.Microsecond, report.Results[1].Start)
	assert.Equal(t, 2*time.Millisecond, report.Results[1].Duration)
}

func Test_Run_Failure(t *testing.T) {
	tr := newTestTester(clockwork.NewFakeClock())

	failing := func(context.Context, mutex.Factory) error {
		return fmt.Errorf("%w: read 0x0", errs.ErrCheckFailed)
	}

	report := tr.Run(context.Background(), []scenario.Scenario{
		{Name: "ok", Run: func(_ context.Context, newLock mutex.Factory) error { return newLock().Close() }},
		{Name: "bad", Run: failing},
	})

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].Name)
	require.ErrorIs(t, failed[0].Err, errs.ErrCheckFailed)
}

func Test_RunOne_Timeout(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tr := New(log, newLock, 10*time.Millisecond, clockwork.NewRealClock())

	res := tr.RunOne(context.Background(), scenario.Scenario{
		Name: "stuck",
		Run: func(ctx context.Context, _ mutex.Factory) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})

	assert.False(t, res.Passed())
	require.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func Test_Run_AllScenarios(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tr := New(log, newLock, 30*time.Second, clockwork.NewRealClock())

	report := tr.Run(context.Background(), scenario.All())
	for _, res := range report.Results {
		assert.NoError(t, res.Err, res.Name)
	}
}

func Test_WriteSummary(t *testing.T) {
	report := Report{Results: []Result{
		{Name: "single_thread_init", Duration: 12 * time.Microsecond},
		{Name: "bad", Err: errors.New("boom")},
		{Name: "many", Duration: 3 * time.Millisecond},
	}}

	var buf bytes.Buffer
	require.NoError(t, report.WriteSummary(&buf))

	assert.Equal(t, "1 failed scenario:\n"+
		"\tbad: boom\n"+
		"\n"+
		"Summary of passing scenarios and run times:\n"+
		"single_thread_init: 12 microseconds\n"+
		"              many: 3000 microseconds\n", buf.String())
}

func Test_WriteSummary_AllPassed(t *testing.T) {
	report := Report{Results: []Result{{Name: "a", Duration: time.Microsecond}}}

	var buf bytes.Buffer
	require.NoError(t, report.WriteSummary(&buf))

	assert.Equal(t, "All scenarios passed\n\n"+
		"Summary of passing scenarios and run times:\n"+
		"a: 1 microseconds\n", buf.String())
}
