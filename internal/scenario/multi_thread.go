package scenario

import (
	"context"
	"time"

	"github.com/DIvanCode/rwlock/internal/lib/mutex"
	"golang.org/x/sync/errgroup"
)

const numReaders = 8

// manyReadersOneWriter runs slow readers next to one writer that starts
// writing only after a reader has reported a read. Every reader checks that
// the value it sees matches whether the writer has already written.
func manyReadersOneWriter(ctx context.Context, newLock mutex.Factory) error {
	var (
		dataLock        = newLock()
		numReadsLock    = newLock()
		writerWroteLock = newLock()
		v               = newVerdict(newLock)

		data        = initialValue
		numReads    int
		writerWrote bool
	)

	getNumReads := func() int {
		numReadsLock.ReadLock()
		defer numReadsLock.ReadUnlock()
		return numReads
	}
	getWriterWrote := func() bool {
		writerWroteLock.ReadLock()
		defer writerWroteLock.ReadUnlock()
		return writerWrote
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := waitFor(ctx, 10*time.Microsecond, func() bool { return getNumReads() >= 1 }); err != nil {
			return err
		}

		dataLock.WriteLock()
		before := data
		data = writtenValue

		writerWroteLock.WriteLock()
		v.check(!writerWrote, "writer wrote twice")
		writerWrote = true
		writerWroteLock.WriteUnlock()

		// Readers retry while the writer still holds access.
		time.Sleep(100 * time.Microsecond)
		dataLock.WriteUnlock()

		v.check(before == initialValue, "writer found 0x%x, want 0x%x", before, initialValue)
		return nil
	})

	for i := 1; i <= numReaders; i++ {
		g.Go(func() error {
			pause := time.Duration(i) * 10 * time.Microsecond

			dataLock.ReadLock()
			// Stable while read access is held: the writer sets it only while writing.
			wrote := getWriterWrote()
			want := initialValue
			if wrote {
				want = writtenValue
			}
			v.check(data == want, "reader %d read 0x%x, want 0x%x", i, data, want)

			time.Sleep(pause)

			numReadsLock.WriteLock()
			v.check(numReads < numReaders, "reader %d counted %d reads", i, numReads)
			first := numReads == 0
			numReads++
			numReadsLock.WriteUnlock()

			time.Sleep(pause)

			// The writer waits for the first reader, so it can not have written yet.
			if first {
				for range 10 {
					v.check(data == initialValue, "first reader saw 0x%x while holding read access", data)
					time.Sleep(10 * time.Microsecond)
				}
			}
			dataLock.ReadUnlock()

			if err := waitFor(ctx, 10*time.Microsecond, getWriterWrote); err != nil {
				return err
			}

			dataLock.ReadLock()
			observed := data
			dataLock.ReadUnlock()
			v.check(observed == writtenValue, "reader %d read 0x%x after the write, want 0x%x", i, observed, writtenValue)

			return waitFor(ctx, 0, func() bool { return getNumReads() == numReaders })
		})
	}

	err := g.Wait()

	dataLock.ReadLock()
	final := data
	dataLock.ReadUnlock()
	v.check(final == writtenValue, "final value 0x%x, want 0x%x", final, writtenValue)

	return finish(err, v, dataLock, numReadsLock, writerWroteLock)
}
