package handle

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	sdkerrors "github.com/wippyai/speech-sdk-go/errors"
)

func TestMain(m *testing.M) {
	// cleanup and finalizer goroutines outlive the leak test below
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("runtime.runCleanups"),
		goleak.IgnoreAnyFunction("runtime.runfinq"),
	)
}

type testHandle uintptr

// fakeNative records release calls and tracks which handles are live.
type fakeNative struct {
	mu       sync.Mutex
	live     map[testHandle]bool
	releases map[testHandle]int
	fail     error
}

func newFakeNative(hs ...testHandle) *fakeNative {
	f := &fakeNative{
		live:     make(map[testHandle]bool),
		releases: make(map[testHandle]int),
	}
	for _, h := range hs {
		f.live[h] = true
	}
	return f
}

func (f *fakeNative) release(h testHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases[h]++
	if f.fail != nil {
		return f.fail
	}
	if !f.live[h] {
		return sdkerrors.NativeCall("test_release", 0x021)
	}
	delete(f.live, h)
	return nil
}

func (f *fakeNative) isValid(h testHandle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live[h]
}

func (f *fakeNative) calls(h testHandle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releases[h]
}

func (f *fakeNative) checkedKind() *Kind[testHandle] {
	return &Kind[testHandle]{Name: "checked", Release: f.release, IsValid: f.isValid}
}

func (f *fakeNative) releaseOnlyKind() *Kind[testHandle] {
	return &Kind[testHandle]{Name: "release_only", Release: f.release}
}

func TestWrapper_Lifecycle(t *testing.T) {
	f := newFakeNative(0x10)
	w := New(f.checkedKind(), 0x10)

	if w.State() != StateLive {
		t.Fatalf("State = %v, want live", w.State())
	}
	if w.Raw() != 0x10 || !w.IsValid() {
		t.Fatalf("Raw = %#x, IsValid = %v", w.Raw(), w.IsValid())
	}
	if raw, err := w.Get(); err != nil || raw != 0x10 {
		t.Fatalf("Get = %#x, %v", raw, err)
	}

	if err := w.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if w.State() != StateReleased {
		t.Fatalf("State = %v, want released", w.State())
	}
	if w.Raw() != testHandle(invalid) {
		t.Fatalf("Raw after release = %#x, want invalid sentinel", w.Raw())
	}
	if w.IsValid() {
		t.Fatal("released wrapper reports valid")
	}
	if _, err := w.Get(); !errors.Is(err, sdkerrors.ErrReleased) {
		t.Fatalf("Get after release error = %v, want released", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("second release failed: %v", err)
	}
	if n := f.calls(0x10); n != 1 {
		t.Fatalf("native release called %d times, want 1", n)
	}
}

func TestWrapper_DefaultNeverReleases(t *testing.T) {
	called := false
	kind := &Kind[testHandle]{
		Name:    "never",
		Release: func(testHandle) error { called = true; return nil },
	}

	tests := []struct {
		name string
		w    *Wrapper[testHandle]
	}{
		{"zero value", &Wrapper[testHandle]{}},
		{"invalid", Invalid[testHandle]()},
		{"adopt null", New(kind, 0)},
		{"adopt invalid sentinel", New(kind, testHandle(invalid))},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.w.State() != StateUninitialized {
				t.Fatalf("State = %v, want uninitialized", tt.w.State())
			}
			if tt.w.Raw() != testHandle(invalid) {
				t.Fatalf("Raw = %#x, want invalid sentinel", tt.w.Raw())
			}
			if tt.w.IsValid() {
				t.Fatal("IsValid = true")
			}
			if _, err := tt.w.Get(); err == nil {
				t.Fatal("Get should fail")
			}
			if err := tt.w.Release(); err != nil {
				t.Fatalf("Release failed: %v", err)
			}
		})
	}
	if called {
		t.Fatal("native release called for a wrapper owning nothing")
	}
}

func TestWrapper_SkipsReleaseWhenNativeReportsInvalid(t *testing.T) {
	f := newFakeNative()
	w := New(f.checkedKind(), 0x20)

	if w.IsValid() {
		t.Fatal("IsValid should defer to the native check")
	}
	if err := w.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if n := f.calls(0x20); n != 0 {
		t.Fatalf("native release called %d times, want 0", n)
	}
	if w.State() != StateReleased {
		t.Fatalf("State = %v, want released", w.State())
	}
}

func TestWrapper_ReleaseFailureStillReleases(t *testing.T) {
	f := newFakeNative(0x30)
	f.fail = sdkerrors.NativeCall("test_release", 0x01b)
	w := New(f.releaseOnlyKind(), 0x30)

	err := w.Release()
	if code, ok := sdkerrors.StatusCode(err); !ok || code != 0x01b {
		t.Fatalf("Release error = %v, want status 0x01b", err)
	}
	if w.State() != StateReleased {
		t.Fatalf("State = %v, want released", w.State())
	}
	if err := w.Release(); err != nil {
		t.Fatalf("second Release = %v, want nil", err)
	}
}

// Two wrappers adopting the same raw value is a caller error. Without a
// validity check the second release reaches the native layer and its
// failure is surfaced.
func TestWrapper_DoubleAdoptionSurfaces(t *testing.T) {
	f := newFakeNative(0x40)
	kind := f.releaseOnlyKind()
	a := New(kind, 0x40)
	b := New(kind, 0x40)

	if err := a.Release(); err != nil {
		t.Fatalf("first release failed: %v", err)
	}
	err := b.Release()
	if !errors.Is(err, sdkerrors.ErrNativeCall) {
		t.Fatalf("second release error = %v, want native call failure", err)
	}
	if n := f.calls(0x40); n != 2 {
		t.Fatalf("native release called %d times, want 2", n)
	}

	// with a validity check the second release is skipped instead
	f2 := newFakeNative(0x41)
	checked := f2.checkedKind()
	c := New(checked, 0x41)
	d := New(checked, 0x41)
	if err := c.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if err := d.Release(); err != nil {
		t.Fatalf("checked second release = %v", err)
	}
	if n := f2.calls(0x41); n != 1 {
		t.Fatalf("native release called %d times, want 1", n)
	}
}

func TestWrapper_ConcurrentRelease(t *testing.T) {
	f := newFakeNative(0x50)
	w := New(f.releaseOnlyKind(), 0x50)

	var (
		wg     sync.WaitGroup
		errCnt atomic.Int32
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Release(); err != nil {
				errCnt.Add(1)
			}
			_ = w.IsValid()
			_ = w.Raw()
		}()
	}
	wg.Wait()

	if n := f.calls(0x50); n != 1 {
		t.Fatalf("native release called %d times, want 1", n)
	}
	if errCnt.Load() != 0 {
		t.Fatalf("%d releases failed", errCnt.Load())
	}
}

func TestWrapper_DeferredRelease(t *testing.T) {
	f := newFakeNative(0x60)

	use := func(fail bool) error {
		w := New(f.checkedKind(), 0x60)
		defer w.Close()
		if fail {
			return errors.New("operation failed")
		}
		return nil
	}

	if err := use(true); err == nil {
		t.Fatal("expected failure")
	}
	if f.isValid(0x60) {
		t.Fatal("handle leaked on the error path")
	}
}

func TestWrapper_LeakedHandleIsReleased(t *testing.T) {
	f := newFakeNative(0x70)
	kind := f.checkedKind()

	func() {
		_ = New(kind, 0x70)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for f.calls(0x70) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("leaked wrapper was not released")
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	if f.isValid(0x70) {
		t.Fatal("handle still live")
	}
}

func TestWrapper_UseKeepsWrapperAlive(t *testing.T) {
	f := newFakeNative(0x80)
	w := New(f.checkedKind(), 0x80)

	err := w.Use(func(h testHandle) error {
		for range 5 {
			runtime.GC()
			time.Sleep(time.Millisecond)
		}
		if n := f.calls(h); n != 0 {
			return fmt.Errorf("handle released %d times during use", n)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestWrapper_UseAfterRelease(t *testing.T) {
	f := newFakeNative(0x90)
	w := New(f.checkedKind(), 0x90)
	if err := w.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	called := false
	err := w.Use(func(testHandle) error {
		called = true
		return nil
	})
	if !errors.Is(err, sdkerrors.ErrReleased) {
		t.Fatalf("Use error = %v, want released", err)
	}
	if called {
		t.Fatal("fn ran on a released wrapper")
	}

	var empty *Wrapper[testHandle]
	if err := empty.Use(func(testHandle) error { return nil }); err == nil {
		t.Fatal("Use on nil wrapper succeeded")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateUninitialized, "uninitialized"},
		{StateLive, "live"},
		{StateReleased, "released"},
		{State(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
