package scenario

import (
	"context"

	"github.com/DIvanCode/rwlock/internal/lib/mutex"
)

func singleThreadInit(_ context.Context, newLock mutex.Factory) error {
	return finish(nil, nil, newLock())
}

func singleThreadRead(_ context.Context, newLock mutex.Factory) error {
	rw := newLock()
	v := newVerdict(newLock)
	data := initialValue

	rw.ReadLock()
	v.check(data == initialValue, "read 0x%x, want 0x%x", data, initialValue)
	rw.ReadUnlock()

	return finish(nil, v, rw)
}

func singleThreadWrite(_ context.Context, newLock mutex.Factory) error {
	rw := newLock()
	v := newVerdict(newLock)
	data := initialValue

	rw.WriteLock()
	v.check(data == initialValue, "before write 0x%x, want 0x%x", data, initialValue)
	data = writtenValue
	v.check(data == writtenValue, "after write 0x%x, want 0x%x", data, writtenValue)
	rw.WriteUnlock()

	return finish(nil, v, rw)
}

func singleThreadReadWrite(_ context.Context, newLock mutex.Factory) error {
	rw := newLock()
	v := newVerdict(newLock)
	data := initialValue

	rw.ReadLock()
	v.check(data == initialValue, "read 0x%x, want 0x%x", data, initialValue)
	rw.ReadUnlock()

	rw.WriteLock()
	v.check(data == initialValue, "before write 0x%x, want 0x%x", data, initialValue)
	data = writtenValue
	rw.WriteUnlock()

	rw.ReadLock()
	v.check(data == writtenValue, "read back 0x%x, want 0x%x", data, writtenValue)
	rw.ReadUnlock()

	return finish(nil, v, rw)
}

func singleThreadWriteRead(_ context.Context, newLock mutex.Factory) error {
	rw := newLock()
	v := newVerdict(newLock)
	data := initialValue

	rw.WriteLock()
	v.check(data == initialValue, "before write 0x%x, want 0x%x", data, initialValue)
	data = writtenValue
	rw.WriteUnlock()

	rw.ReadLock()
	observed := data
	rw.ReadUnlock()

	v.check(observed == writtenValue, "read 0x%x, want 0x%x", observed, writtenValue)
	return finish(nil, v, rw)
}
