package marshal

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	speechsdk "github.com/wippyai/speech-sdk-go"
	sdkerrors "github.com/wippyai/speech-sdk-go/errors"
	"github.com/wippyai/speech-sdk-go/native"
	"github.com/wippyai/speech-sdk-go/native/sim"
)

func newSDK(t *testing.T) *sim.SDK {
	t.Helper()
	ctx := context.Background()
	s, err := sim.New(ctx, sim.DefaultConfig())
	if err != nil {
		t.Fatalf("sim.New failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })
	return s
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"empty", "", []byte{0}, false},
		{"ascii", "westus", []byte("westus\x00"), false},
		{"utf8", "Grüße", append([]byte("Grüße"), 0), false},
		{"embedded nul", "a\x00b", nil, true},
		{"trailing nul", "abc\x00", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, sdkerrors.ErrEncoding) {
					t.Fatalf("Encode(%q) error = %v, want encoding error", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Encode(%q) failed: %v", tt.in, err)
			}
			if string(got) != string(tt.want) {
				t.Errorf("Encode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    string
		wantErr bool
	}{
		{"empty", []byte{0}, "", false},
		{"stops at first nul", []byte("ab\x00cd\x00"), "ab", false},
		{"zero padded buffer", append([]byte("en-US"), make([]byte, 16)...), "en-US", false},
		{"missing terminator", []byte("abc"), "", true},
		{"invalid utf8", []byte{0xff, 0xfe, 0}, "", true},
		{"nil", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, sdkerrors.ErrDecoding) {
					t.Fatalf("Decode(%q) error = %v, want decoding error", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestArena_StringRoundTrip(t *testing.T) {
	s := newSDK(t)
	a := NewArena(s)

	p, err := a.String("hello")
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}
	b, err := s.Read(p, 6)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(b) != "hello\x00" {
		t.Fatalf("native bytes = %q", b)
	}
	if a.Len() != 1 || s.Outstanding() != 1 {
		t.Fatalf("Len = %d, Outstanding = %d", a.Len(), s.Outstanding())
	}

	a.Free()
	if a.Len() != 0 || s.Outstanding() != 0 {
		t.Fatalf("after Free: Len = %d, Outstanding = %d", a.Len(), s.Outstanding())
	}
}

func TestArena_StringsEncodeBeforeAlloc(t *testing.T) {
	s := newSDK(t)
	a := NewArena(s)
	defer a.Free()

	_, err := a.Strings("name", "bad\x00value")
	if !errors.Is(err, sdkerrors.ErrEncoding) {
		t.Fatalf("Strings error = %v, want encoding error", err)
	}
	if n := s.Calls("alloc"); n != 0 {
		t.Fatalf("alloc called %d times, want 0", n)
	}
}

func TestArena_AllocFailureFreesEarlierStrings(t *testing.T) {
	s := newSDK(t)
	a := NewArena(s)

	if _, err := a.String("first"); err != nil {
		t.Fatalf("String failed: %v", err)
	}
	s.FailNext("alloc", native.StatusOutOfMemory)
	if _, err := a.Strings("second"); err == nil {
		t.Fatal("expected allocation failure")
	}
	a.Free()
	if s.Outstanding() != 0 {
		t.Fatalf("Outstanding = %d, want 0", s.Outstanding())
	}
}

// recordingRuntime is an in-process native.Runtime that logs allocation
// sizes.
type recordingRuntime struct {
	next  speechsdk.Ptr
	mem   map[speechsdk.Ptr][]byte
	sizes []uint32
}

func newRecordingRuntime() *recordingRuntime {
	return &recordingRuntime{next: 0x100, mem: make(map[speechsdk.Ptr][]byte)}
}

func (r *recordingRuntime) Alloc(size uint32) (speechsdk.Ptr, error) {
	p := r.next
	r.next += speechsdk.Ptr(size) + 8
	r.mem[p] = make([]byte, size)
	r.sizes = append(r.sizes, size)
	return p, nil
}

func (r *recordingRuntime) Free(p speechsdk.Ptr) { delete(r.mem, p) }

func (r *recordingRuntime) Read(p speechsdk.Ptr, length uint32) ([]byte, error) {
	b, ok := r.mem[p]
	if !ok || uint32(len(b)) < length {
		return nil, sdkerrors.OutOfBounds(uintptr(p), uint64(length), uint64(len(b)))
	}
	return append([]byte(nil), b[:length]...), nil
}

func (r *recordingRuntime) Write(p speechsdk.Ptr, data []byte) error {
	b, ok := r.mem[p]
	if !ok || len(b) < len(data) {
		return sdkerrors.OutOfBounds(uintptr(p), uint64(len(data)), uint64(len(b)))
	}
	copy(b, data)
	return nil
}

func (r *recordingRuntime) CStringLen(p speechsdk.Ptr) (uint32, error) {
	n := bytes.IndexByte(r.mem[p], 0)
	if n < 0 {
		return 0, sdkerrors.OutOfBounds(uintptr(p), 0, uint64(len(r.mem[p])))
	}
	return uint32(n), nil
}

var _ native.Runtime = (*recordingRuntime)(nil)

func TestArena_AllocatesTerminatedLength(t *testing.T) {
	rt := newRecordingRuntime()
	a := NewArena(rt)

	if _, err := a.Strings("westus", "", "Grüße"); err != nil {
		t.Fatalf("Strings failed: %v", err)
	}
	want := []uint32{7, 1, uint32(len("Grüße")) + 1}
	if len(rt.sizes) != len(want) {
		t.Fatalf("sizes = %v, want %v", rt.sizes, want)
	}
	for i := range want {
		if rt.sizes[i] != want[i] {
			t.Fatalf("sizes = %v, want %v", rt.sizes, want)
		}
	}

	a.Free()
	if len(rt.mem) != 0 {
		t.Fatalf("%d allocations left after Free", len(rt.mem))
	}
}

func TestAllocSize(t *testing.T) {
	tests := []struct {
		name    string
		n       uint64
		want    uint32
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"small", 7, 7, false},
		{"limit", math.MaxUint32, math.MaxUint32, false},
		{"over limit", uint64(math.MaxUint32) + 1, 0, true},
		{"far over limit", 1 << 40, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := allocSize(tt.n)
			if tt.wantErr {
				var e *sdkerrors.Error
				if !errors.As(err, &e) || e.Kind != sdkerrors.KindInvalidInput || e.Phase != sdkerrors.PhaseMarshal {
					t.Fatalf("allocSize(%d) error = %v, want marshal invalid input", tt.n, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("allocSize(%d) = %d, %v", tt.n, got, err)
			}
		})
	}
}

func TestGetString(t *testing.T) {
	s := newSDK(t)
	h := s.NewResult("id-42", "the quick brown fox", nil)

	t.Run("default capacity", func(t *testing.T) {
		got, err := GetString(s, "result_get_text", 0, func(buf speechsdk.Ptr, size uint32) native.Status {
			if size != DefaultBufferSize {
				t.Errorf("size = %d, want %d", size, DefaultBufferSize)
			}
			return s.ResultGetText(h, buf, size)
		})
		if err != nil {
			t.Fatalf("GetString failed: %v", err)
		}
		if got != "the quick brown fox" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("capacity too small", func(t *testing.T) {
		_, err := GetString(s, "result_get_text", 8, func(buf speechsdk.Ptr, size uint32) native.Status {
			return s.ResultGetText(h, buf, size)
		})
		code, ok := sdkerrors.StatusCode(err)
		if !ok || code != uint64(native.StatusBufferTooSmall) {
			t.Fatalf("error = %v, want SPXERR_BUFFER_TOO_SMALL", err)
		}
	})

	t.Run("exact capacity", func(t *testing.T) {
		got, err := GetString(s, "result_get_result_id", 6, func(buf speechsdk.Ptr, size uint32) native.Status {
			return s.ResultGetResultID(h, buf, size)
		})
		if err != nil || got != "id-42" {
			t.Fatalf("GetString = %q, %v", got, err)
		}
	})

	t.Run("buffer not read on failure", func(t *testing.T) {
		_, err := GetString(s, "result_get_text", 64, func(buf speechsdk.Ptr, size uint32) native.Status {
			_ = s.Write(buf, []byte{0xff})
			return native.StatusRuntimeError
		})
		if errors.Is(err, sdkerrors.ErrDecoding) || !errors.Is(err, sdkerrors.ErrNativeCall) {
			t.Fatalf("error = %v, want native call failure", err)
		}
	})

	if s.Outstanding() != 0 {
		t.Fatalf("Outstanding = %d, want 0", s.Outstanding())
	}
}

// bagString fetches name from bag h and returns the foreign pointer.
func bagString(t *testing.T, s *sim.SDK, h speechsdk.Handle, name string) speechsdk.Ptr {
	t.Helper()
	a := NewArena(s)
	defer a.Free()
	ptrs, err := a.Strings(name, "")
	if err != nil {
		t.Fatalf("Strings failed: %v", err)
	}
	return s.PropertyBagGetString(h, int32(speechsdk.PropertyIDByName), ptrs[0], ptrs[1])
}

func TestTakeString(t *testing.T) {
	s := newSDK(t)

	var h speechsdk.Handle
	if st := s.PropertyBagCreate(&h); st != native.StatusOK {
		t.Fatalf("PropertyBagCreate = %v", st)
	}
	defer s.PropertyBagRelease(h)
	s.SetRaw(h, "good", []byte("välue"))
	s.SetRaw(h, "bad", []byte{'x', 0xff, 0xfe})

	t.Run("copies and frees", func(t *testing.T) {
		p := bagString(t, s, h, "good")
		got, err := TakeString(s, "property_bag_get_string", p, s.PropertyBagFreeString)
		if err != nil || got != "välue" {
			t.Fatalf("TakeString = %q, %v", got, err)
		}
		if s.Outstanding() != 0 {
			t.Fatalf("Outstanding = %d, want 0", s.Outstanding())
		}
	})

	t.Run("frees on decode failure", func(t *testing.T) {
		p := bagString(t, s, h, "bad")
		_, err := TakeString(s, "property_bag_get_string", p, s.PropertyBagFreeString)
		if !errors.Is(err, sdkerrors.ErrDecoding) {
			t.Fatalf("error = %v, want decoding error", err)
		}
		if s.Outstanding() != 0 {
			t.Fatalf("Outstanding = %d, want 0", s.Outstanding())
		}
	})

	t.Run("null pointer", func(t *testing.T) {
		freed := false
		_, err := TakeString(s, "property_bag_get_string", 0, func(speechsdk.Ptr) native.Status {
			freed = true
			return native.StatusOK
		})
		if !errors.Is(err, sdkerrors.ErrNativeCall) {
			t.Fatalf("error = %v, want native call failure", err)
		}
		if _, ok := sdkerrors.StatusCode(err); ok {
			t.Fatal("NULL result should carry no status code")
		}
		if freed {
			t.Fatal("free must not be called for NULL")
		}
	})

	t.Run("free failure is reported", func(t *testing.T) {
		p := bagString(t, s, h, "good")
		defer s.PropertyBagFreeString(p)
		got, err := TakeString(s, "property_bag_get_string", p, func(speechsdk.Ptr) native.Status {
			return native.StatusInvalidArg
		})
		if got != "" {
			t.Fatalf("got %q, want empty on error", got)
		}
		code, ok := sdkerrors.StatusCode(err)
		if !ok || code != uint64(native.StatusInvalidArg) {
			t.Fatalf("error = %v, want SPXERR_INVALID_ARG", err)
		}
	})
}
