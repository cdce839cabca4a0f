package handle

import (
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/speech-sdk-go/errors"
)

// invalid is the sentinel held by wrappers that own nothing.
const invalid = ^uintptr(0)

// Kind describes how to release and validate handles of one resource type.
type Kind[T ~uintptr] struct {
	// Name is the native resource name used in errors and logs.
	Name string
	// Release frees the native resource.
	Release func(T) error
	// IsValid reports whether the native library still considers the
	// handle live. Nil for resource types without such a check.
	IsValid func(T) bool
}

func (k *Kind[T]) release(raw T) error {
	if k.IsValid != nil && !k.IsValid(raw) {
		Logger().Debug("skipping release of invalid handle",
			zap.String("kind", k.Name),
			zap.Uintptr("handle", uintptr(raw)))
		return nil
	}
	if k.Release == nil {
		return nil
	}
	if err := k.Release(raw); err != nil {
		return err
	}
	Logger().Debug("released handle",
		zap.String("kind", k.Name),
		zap.Uintptr("handle", uintptr(raw)))
	return nil
}

// State is the lifecycle position of a wrapper.
type State uint8

const (
	// StateUninitialized wrappers never owned a native handle.
	StateUninitialized State = iota
	StateLive
	// StateReleased is terminal.
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLive:
		return "live"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// cell is kept apart from the Wrapper so the runtime cleanup can reach the
// handle without keeping the wrapper itself alive.
type cell[T ~uintptr] struct {
	raw  atomic.Uintptr
	kind *Kind[T]
}

// take swaps the invalid sentinel in and returns the previous value.
func (c *cell[T]) take() (T, bool) {
	old := c.raw.Swap(invalid)
	if old == invalid {
		return 0, false
	}
	return T(old), true
}

// Wrapper owns one native handle. The zero value owns nothing and its
// release is a no-op.
type Wrapper[T ~uintptr] struct {
	c       *cell[T]
	cleanup runtime.Cleanup
}

// New adopts raw. No native call is made. Adopting NULL or the invalid
// sentinel yields a wrapper that owns nothing.
func New[T ~uintptr](kind *Kind[T], raw T) *Wrapper[T] {
	w := &Wrapper[T]{}
	if uintptr(raw) == 0 || uintptr(raw) == invalid {
		return w
	}

	c := &cell[T]{kind: kind}
	c.raw.Store(uintptr(raw))
	w.c = c
	w.cleanup = runtime.AddCleanup(w, leaked[T], c)
	return w
}

// Invalid returns a wrapper that owns nothing.
func Invalid[T ~uintptr]() *Wrapper[T] {
	return &Wrapper[T]{}
}

func leaked[T ~uintptr](c *cell[T]) {
	raw, ok := c.take()
	if !ok {
		return
	}
	Logger().Warn("releasing leaked handle",
		zap.String("kind", c.kind.Name),
		zap.Uintptr("handle", uintptr(raw)))
	if err := c.kind.release(raw); err != nil {
		Logger().Error("release of leaked handle failed",
			zap.String("kind", c.kind.Name),
			zap.Error(err))
	}
}

// Raw returns the held value without transferring ownership. It is the
// invalid sentinel once the wrapper has been released.
func (w *Wrapper[T]) Raw() T {
	if w == nil || w.c == nil {
		return T(invalid)
	}
	return T(w.c.raw.Load())
}

// Get returns the held value for use in a native call. It fails for
// wrappers that own nothing.
func (w *Wrapper[T]) Get() (T, error) {
	if w == nil || w.c == nil {
		return T(invalid), errors.InvalidHandle(errors.PhaseHandle, "", invalid)
	}
	raw := w.c.raw.Load()
	if raw == invalid {
		return T(invalid), errors.Released(w.c.kind.Name)
	}
	return T(raw), nil
}

// Use runs fn with the held value and keeps w reachable until fn returns,
// so the leak cleanup cannot release the handle during a native call.
// Native calls should go through Use rather than Get.
func (w *Wrapper[T]) Use(fn func(T) error) error {
	raw, err := w.Get()
	if err != nil {
		return err
	}
	err = fn(raw)
	runtime.KeepAlive(w)
	return err
}

// State reports the lifecycle position of w.
func (w *Wrapper[T]) State() State {
	if w == nil || w.c == nil {
		return StateUninitialized
	}
	if w.c.raw.Load() == invalid {
		return StateReleased
	}
	return StateLive
}

// Kind returns the name of the resource kind, or "" for wrappers that own
// nothing.
func (w *Wrapper[T]) Kind() string {
	if w == nil || w.c == nil {
		return ""
	}
	return w.c.kind.Name
}

// IsValid reports whether the handle is live. Kinds without a native check
// are valid until released.
func (w *Wrapper[T]) IsValid() bool {
	if w == nil || w.c == nil {
		return false
	}
	raw := w.c.raw.Load()
	if raw == invalid {
		return false
	}
	if w.c.kind.IsValid == nil {
		return true
	}
	ok := w.c.kind.IsValid(T(raw))
	runtime.KeepAlive(w)
	return ok
}

// Release frees the native handle. Only the first call reaches the native
// layer; the wrapper is released even when that call fails.
func (w *Wrapper[T]) Release() error {
	if w == nil || w.c == nil {
		return nil
	}
	raw, ok := w.c.take()
	if !ok {
		return nil
	}
	w.cleanup.Stop()
	return w.c.kind.release(raw)
}

// Close implements io.Closer.
func (w *Wrapper[T]) Close() error {
	return w.Release()
}
