package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/errors"
	"github.com/wippyai/speech-sdk-go/native"
)

// Config controls the simulated native heap.
type Config struct {
	// InitialPages is the heap size at creation, in 64 KiB pages.
	InitialPages uint32
	// MaxPages bounds heap growth. Allocations beyond it fail.
	MaxPages uint32
}

// DefaultConfig returns a 1 page heap that may grow to 16 MiB.
func DefaultConfig() Config {
	return Config{
		InitialPages: 1,
		MaxPages:     256,
	}
}

func (c Config) validate() error {
	if c.InitialPages == 0 {
		return errors.InvalidInput(errors.PhaseMemory, "InitialPages must be at least 1")
	}
	if c.MaxPages < c.InitialPages {
		return errors.InvalidInput(errors.PhaseMemory, "MaxPages must not be below InitialPages")
	}
	if c.MaxPages > 65535 {
		return errors.InvalidInput(errors.PhaseMemory, "MaxPages exceeds the 32-bit address space")
	}
	return nil
}

// SDK is a simulated Speech SDK. It is safe for concurrent use.
type SDK struct {
	rt        wazero.Runtime
	heap      *heap
	table     *table
	strings   map[uint32]struct{}
	calls     map[string]int
	faults    map[string][]native.Status
	observers []Observer
	mu        sync.Mutex
	obsMu     sync.RWMutex
	closed    bool
}

var _ native.API = (*SDK)(nil)

// New creates a simulated SDK with its own wazero runtime.
func New(ctx context.Context, cfg Config) (*SDK, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rt := wazero.NewRuntimeWithConfig(ctx,
		wazero.NewRuntimeConfigInterpreter().WithMemoryLimitPages(cfg.MaxPages))

	h, err := newHeap(ctx, rt, cfg)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	return &SDK{
		rt:      rt,
		heap:    h,
		table:   newTable(),
		strings: make(map[uint32]struct{}),
		calls:   make(map[string]int),
		faults:  make(map[string][]native.Status),
	}, nil
}

// Close tears down the heap. Handles and pointers become unusable.
func (s *SDK) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	live := s.table.len()
	s.mu.Unlock()

	if live > 0 {
		Logger().Warn("closing simulated SDK with live handles", zap.Int("handles", live))
	}
	return s.rt.Close(ctx)
}

// enter records a call to fn and returns an injected failure, if one is
// queued. Callers hold s.mu.
func (s *SDK) enter(fn string) (native.Status, bool) {
	s.calls[fn]++
	if s.closed {
		return native.StatusRuntimeError, true
	}
	queue := s.faults[fn]
	if len(queue) == 0 {
		return native.StatusOK, false
	}
	st := queue[0]
	if len(queue) == 1 {
		delete(s.faults, fn)
	} else {
		s.faults[fn] = queue[1:]
	}
	return st, true
}

// FailNext makes the next call to fn fail with st. Functions returning a
// pointer return NULL and validity checks report false instead.
func (s *SDK) FailNext(fn string, st native.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[fn] = append(s.faults[fn], st)
}

// Calls returns how many times fn was called.
func (s *SDK) Calls(fn string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[fn]
}

// TotalCalls returns the number of calls across all functions.
func (s *SDK) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// ResetCalls clears call counters.
func (s *SDK) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.calls)
}

// Outstanding returns the number of live heap allocations, including
// strings handed out by property_bag_get_string and not yet freed.
func (s *SDK) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.heap.used)
}

// Handles returns the number of live handles of kind k, or of all kinds
// when k is zero.
func (s *SDK) Handles(k Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k == 0 {
		return s.table.len()
	}
	return s.table.count(k)
}

// Subscribe adds an observer for handle lifecycle events.
func (s *SDK) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *SDK) notify(events ...Event) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, e := range events {
		if e.Handle == 0 {
			continue
		}
		if e.Type == EventDoubleRelease {
			Logger().Warn("double release",
				zap.String("kind", e.Kind.String()),
				zap.Uintptr("handle", uintptr(e.Handle)))
		}
		for _, o := range s.observers {
			o.OnHandleEvent(e)
		}
	}
}

// release is shared by every *_release function.
func (s *SDK) release(fn string, h speechsdk.Handle, k Kind) native.Status {
	s.mu.Lock()
	if st, failed := s.enter(fn); failed {
		s.mu.Unlock()
		return st
	}
	_, ev, ok := s.table.remove(h, k)
	s.mu.Unlock()

	s.notify(ev)
	if !ok {
		return native.StatusInvalidHandle
	}
	return native.StatusOK
}

// isValid is shared by every *_is_valid function.
func (s *SDK) isValid(fn string, h speechsdk.Handle, k Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, failed := s.enter(fn); failed {
		return false
	}
	_, ok := s.table.get(h, k)
	return ok
}

// Alloc implements speechsdk.Allocator.
func (s *SDK) Alloc(size uint32) (speechsdk.Ptr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("alloc"); failed {
		return 0, errors.AllocationFailed(size, native.CheckFunc("alloc", st))
	}
	off, err := s.heap.alloc(size)
	if err != nil {
		return 0, err
	}
	return speechsdk.Ptr(off), nil
}

// Free implements speechsdk.Allocator.
func (s *SDK) Free(p speechsdk.Ptr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["free"]++
	if s.closed || p == 0 || uint64(p) > uint64(^uint32(0)) {
		return
	}
	delete(s.strings, uint32(p))
	if !s.heap.release(uint32(p)) {
		Logger().Warn("free of unknown pointer", zap.Uintptr("ptr", uintptr(p)))
	}
}

// Read implements speechsdk.Memory.
func (s *SDK) Read(p speechsdk.Ptr, length uint32) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errClosed
	}
	return s.heap.read(p, length)
}

// Write implements speechsdk.Memory.
func (s *SDK) Write(p speechsdk.Ptr, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	return s.heap.write(p, data)
}

// CStringLen implements speechsdk.Memory.
func (s *SDK) CStringLen(p speechsdk.Ptr) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errClosed
	}
	return s.heap.cstrlen(p)
}

var errClosed = errors.New(errors.PhaseMemory, errors.KindInvalidInput).Detail("simulated SDK is closed").Build()

// readArg reads a string argument passed by the caller.
func (s *SDK) readArg(p speechsdk.Ptr) (string, bool) {
	if p == 0 {
		return "", false
	}
	b, err := s.heap.cstring(p)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (s *SDK) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("sim.SDK{handles: %d, allocations: %d}", s.table.len(), len(s.heap.used))
}
