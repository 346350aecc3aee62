package scenario

import (
	"context"
	"runtime"

	"github.com/DIvanCode/rwlock/internal/lib/mutex"
	"golang.org/x/sync/errgroup"
)

const (
	counterSeed  = 1
	counterLimit = 1000
)

func twoThreadReadOnceEach(_ context.Context, newLock mutex.Factory) error {
	rw := newLock()
	v := newVerdict(newLock)
	data := initialValue

	var g errgroup.Group
	for i := range 2 {
		g.Go(func() error {
			rw.ReadLock()
			observed := data
			rw.ReadUnlock()

			v.check(observed == initialValue, "reader %d read 0x%x, want 0x%x", i, observed, initialValue)
			return nil
		})
	}
	err := g.Wait()

	v.check(data == initialValue, "data changed to 0x%x", data)
	return finish(err, v, rw)
}

// Both goroutines read until the other one reports a read. The report is
// made under write access to the same lock.
func twoThreadWaitForOtherRead(ctx context.Context, newLock mutex.Factory) error {
	rw := newLock()
	v := newVerdict(newLock)
	data := initialValue
	var read [2]bool

	g, ctx := errgroup.WithContext(ctx)
	for i := range 2 {
		g.Go(func() error {
			for otherRead := false; !otherRead; {
				if err := ctx.Err(); err != nil {
					return err
				}

				rw.ReadLock()
				observed := data
				otherRead = read[1-i]
				rw.ReadUnlock()

				rw.WriteLock()
				read[i] = true
				rw.WriteUnlock()

				v.check(observed == initialValue, "goroutine %d read 0x%x, want 0x%x", i, observed, initialValue)
				runtime.Gosched()
			}

			rw.ReadLock()
			observed := data
			rw.ReadUnlock()

			v.check(observed == initialValue, "goroutine %d read 0x%x after the other read, want 0x%x", i, observed, initialValue)
			return nil
		})
	}
	err := g.Wait()

	return finish(err, v, rw)
}

// Two writers increment a shared counter until the other one has incremented
// it at least once. The counter wraps from counterLimit-1 to counterSeed+1,
// so once incremented it always stays above the seed.
func twoThreadWaitForOtherWrite(ctx context.Context, newLock mutex.Factory) error {
	rw := newLock()
	v := newVerdict(newLock)
	counter := uint32(counterSeed)
	var wrote [2]bool

	g, ctx := errgroup.WithContext(ctx)
	for i := range 2 {
		g.Go(func() error {
			for otherWrote := false; !otherWrote; {
				if err := ctx.Err(); err != nil {
					return err
				}

				rw.WriteLock()
				counter++
				if counter >= counterLimit {
					counter = counterSeed + 1
				}
				wrote[i] = true
				otherWrote = wrote[1-i]
				rw.WriteUnlock()

				rw.ReadLock()
				observed := counter
				rw.ReadUnlock()

				v.check(observed > counterSeed, "writer %d read counter %d, want more than %d", i, observed, counterSeed)
				runtime.Gosched()
			}
			return nil
		})
	}
	err := g.Wait()

	rw.ReadLock()
	final := counter
	rw.ReadUnlock()
	v.check(final > counterSeed, "final counter %d, want more than %d", final, counterSeed)

	return finish(err, v, rw)
}
