package sim

import (
	"context"
	"errors"
	"testing"

	speechsdk "github.com/wippyai/speech-sdk-go"
	sdkerrors "github.com/wippyai/speech-sdk-go/errors"
)

func newTestSDK(t *testing.T, cfg Config) *SDK {
	t.Helper()
	ctx := context.Background()
	s, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })
	return s
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"zero initial", Config{InitialPages: 0, MaxPages: 1}, false},
		{"max below initial", Config{InitialPages: 4, MaxPages: 2}, false},
		{"too large", Config{InitialPages: 1, MaxPages: 70000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if (err == nil) != tt.ok {
				t.Errorf("validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestHeap_AllocZeroFilled(t *testing.T) {
	s := newTestSDK(t, DefaultConfig())

	p, err := s.Alloc(32)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if p == 0 {
		t.Fatal("Alloc returned NULL")
	}
	if err := s.Write(p, []byte("dirty bytes")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	s.Free(p)

	q, err := s.Alloc(32)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if q != p {
		t.Fatalf("expected freed block to be reused, got %#x want %#x", q, p)
	}
	data, err := s.Read(q, 32)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestHeap_Coalesce(t *testing.T) {
	s := newTestSDK(t, DefaultConfig())

	a, _ := s.Alloc(8)
	b, _ := s.Alloc(8)
	c, _ := s.Alloc(8)
	keep, _ := s.Alloc(8)

	s.Free(a)
	s.Free(c)
	s.Free(b)

	s.mu.Lock()
	free := append([]span(nil), s.heap.free...)
	s.mu.Unlock()
	if len(free) != 1 || free[0].off != uint32(a) || free[0].size != 24 {
		t.Fatalf("free list = %+v, want one 24 byte span at %#x", free, a)
	}

	s.Free(keep)
	s.mu.Lock()
	top, nfree := s.heap.top, len(s.heap.free)
	s.mu.Unlock()
	if top != heapBase || nfree != 0 {
		t.Fatalf("heap not fully reclaimed: top=%d free=%d", top, nfree)
	}
	if s.Outstanding() != 0 {
		t.Fatalf("Outstanding = %d, want 0", s.Outstanding())
	}
}

func TestHeap_Grow(t *testing.T) {
	s := newTestSDK(t, Config{InitialPages: 1, MaxPages: 4})

	p, err := s.Alloc(3 * pageSize)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if err := s.Write(p+speechsdk.Ptr(3*pageSize-1), []byte{1}); err != nil {
		t.Fatalf("write at end of grown block failed: %v", err)
	}

	_, err = s.Alloc(2 * pageSize)
	if err == nil {
		t.Fatal("expected allocation beyond MaxPages to fail")
	}
	if !errors.Is(err, &sdkerrors.Error{Kind: sdkerrors.KindAllocation}) {
		t.Fatalf("expected allocation error, got %v", err)
	}
}

func TestHeap_BoundsChecked(t *testing.T) {
	s := newTestSDK(t, DefaultConfig())

	if _, err := s.Read(0, 1); !errors.Is(err, sdkerrors.ErrOutOfBounds) {
		t.Errorf("Read(NULL) error = %v, want out of bounds", err)
	}
	if _, err := s.Read(pageSize-4, 8); !errors.Is(err, sdkerrors.ErrOutOfBounds) {
		t.Errorf("Read past end error = %v, want out of bounds", err)
	}
	if err := s.Write(pageSize, []byte{1}); !errors.Is(err, sdkerrors.ErrOutOfBounds) {
		t.Errorf("Write past end error = %v, want out of bounds", err)
	}
}

func TestHeap_CStringLen(t *testing.T) {
	s := newTestSDK(t, DefaultConfig())

	p, _ := s.Alloc(8)
	if err := s.Write(p, []byte("hello\x00")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	n, err := s.CStringLen(p)
	if err != nil || n != 5 {
		t.Fatalf("CStringLen = %d, %v; want 5", n, err)
	}

	// fill the tail of memory with no terminator
	tail := make([]byte, 16)
	for i := range tail {
		tail[i] = 'x'
	}
	end := speechsdk.Ptr(pageSize - len(tail))
	if err := s.Write(end, tail); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := s.CStringLen(end); !errors.Is(err, sdkerrors.ErrOutOfBounds) {
		t.Fatalf("unterminated CStringLen error = %v, want out of bounds", err)
	}
}

func TestSDK_FailAlloc(t *testing.T) {
	s := newTestSDK(t, DefaultConfig())

	s.FailNext("alloc", 0x1a)
	if _, err := s.Alloc(4); err == nil {
		t.Fatal("expected injected allocation failure")
	}
	if _, err := s.Alloc(4); err != nil {
		t.Fatalf("fault should apply once, got %v", err)
	}
	if s.Calls("alloc") != 2 {
		t.Fatalf("Calls(alloc) = %d, want 2", s.Calls("alloc"))
	}
}

func TestSDK_ClosedRejectsAccess(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if _, err := s.Alloc(4); err == nil {
		t.Fatal("Alloc after Close should fail")
	}
	if _, err := s.Read(heapBase, 1); err == nil {
		t.Fatal("Read after Close should fail")
	}
}
