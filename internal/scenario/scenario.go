package scenario

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/DIvanCode/rwlock/internal/lib/mutex"
	errs "github.com/DIvanCode/rwlock/pkg/errors"
)

const (
	initialValue = uint32(0xdeadbeef)
	writtenValue = uint32(0xfeedcafe)
)

// Func runs one scenario. Every lock it needs comes from newLock and is
// closed before Func returns. A wrong observation is reported as an error
// wrapping ErrCheckFailed; an expired ctx aborts the spin-waits.
type Func func(ctx context.Context, newLock mutex.Factory) error

type Scenario struct {
	Name        string
	Description string
	Run         Func
}

var registry = []Scenario{
	{"single_thread_init", "create and close a lock", singleThreadInit},
	{"single_thread_read", "read the seed once", singleThreadRead},
	{"single_thread_write", "overwrite the seed once", singleThreadWrite},
	{"single_thread_read_write", "read the seed, then overwrite it", singleThreadReadWrite},
	{"single_thread_write_read", "overwrite the seed, then read it back", singleThreadWriteRead},
	{"two_thread_read_once_each", "two readers read the seed once each", twoThreadReadOnceEach},
	{"two_thread_wait_for_other_read", "two goroutines read until the other one has read", twoThreadWaitForOtherRead},
	{"two_thread_wait_for_other_write", "two writers increment until the other one has written", twoThreadWaitForOtherWrite},
	{"many_readers_one_writer", "eight slow readers and one writer", manyReadersOneWriter},
}

// All returns every scenario in a stable order.
func All() []Scenario {
	return append([]Scenario(nil), registry...)
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for _, s := range registry {
		names = append(names, s.Name)
	}
	return names
}

func Lookup(name string) (Scenario, error) {
	for _, s := range registry {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %s", errs.ErrUnknownScenario, name)
}

// Select returns the named scenarios in the given order, or all of them when names is empty.
func Select(names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return All(), nil
	}

	selected := make([]Scenario, 0, len(names))
	for _, name := range names {
		s, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, s)
	}
	return selected, nil
}

// verdict collects check failures reported by several goroutines. It is
// guarded by its own lock from the factory.
type verdict struct {
	lock     mutex.RWLocker
	failures []error
}

func newVerdict(newLock mutex.Factory) *verdict {
	return &verdict{lock: newLock()}
}

func (v *verdict) check(ok bool, format string, args ...any) {
	if ok {
		return
	}

	err := fmt.Errorf("%w: %s", errs.ErrCheckFailed, fmt.Sprintf(format, args...))

	v.lock.WriteLock()
	defer v.lock.WriteUnlock()
	v.failures = append(v.failures, err)
}

func (v *verdict) err() error {
	v.lock.ReadLock()
	defer v.lock.ReadUnlock()
	return errors.Join(v.failures...)
}

// finish closes every lock and merges the run error, the verdict and the close errors.
func finish(runErr error, v *verdict, locks ...mutex.RWLocker) error {
	all := []error{runErr}
	if v != nil {
		all = append(all, v.err())
		locks = append(locks, v.lock)
	}
	for _, l := range locks {
		if err := l.Close(); err != nil {
			all = append(all, fmt.Errorf("failed to close lock: %w", err))
		}
	}
	return errors.Join(all...)
}

// waitFor polls cond until it holds, sleeping pause between polls (yielding
// when pause is zero).
func waitFor(ctx context.Context, pause time.Duration, cond func() bool) error {
	for !cond() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if pause > 0 {
			time.Sleep(pause)
		} else {
			runtime.Gosched()
		}
	}
	return nil
}
