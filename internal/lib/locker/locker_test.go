package locker

import (
	"sync"
	"sync/atomic"
	"testing"

	errs "github.com/DIvanCode/rwlock/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TryLock(t *testing.T) {
	l := NewLocker[string]()

	require.NoError(t, l.TryLock("a"))
	assert.True(t, l.Locked("a"))

	require.ErrorIs(t, l.TryLock("a"), errs.ErrWriteLocked)
	require.NoError(t, l.TryLock("b"))

	l.Unlock("a")
	assert.False(t, l.Locked("a"))
	require.NoError(t, l.TryLock("a"))
}

func Test_Unlock_Unclaimed(t *testing.T) {
	l := NewLocker[int]()
	assert.Panics(t, func() { l.Unlock(1) })
}

func Test_TryLock_Concurrent(t *testing.T) {
	l := NewLocker[string]()

	var (
		wg      sync.WaitGroup
		claimed atomic.Int32
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryLock("key") == nil {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), claimed.Load())
}
