package marshal

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/errors"
	"github.com/wippyai/speech-sdk-go/native"
)

// DefaultBufferSize is the output buffer capacity used when none is given.
const DefaultBufferSize = 1024

// Encode returns s as NUL-terminated bytes.
// Text containing a NUL byte cannot be represented and fails.
func Encode(s string) ([]byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, errors.Encoding(errors.PhaseMarshal, "string", s)
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b, nil
}

// Decode interprets b as a NUL-terminated string.
func Decode(b []byte) (string, error) {
	n := bytes.IndexByte(b, 0)
	if n < 0 {
		return "", errors.Decoding(errors.PhaseUnmarshal, "missing NUL terminator", b)
	}
	return text(b[:n])
}

func text(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errors.Decoding(errors.PhaseUnmarshal, "invalid UTF-8", b)
	}
	return string(b), nil
}

// Arena owns native copies of Go strings for the duration of one call.
type Arena struct {
	rt   native.Runtime
	ptrs []speechsdk.Ptr
}

// NewArena creates an arena allocating from rt.
func NewArena(rt native.Runtime) *Arena {
	return &Arena{rt: rt}
}

// String copies s into native memory and returns its address.
func (a *Arena) String(s string) (speechsdk.Ptr, error) {
	b, err := Encode(s)
	if err != nil {
		return 0, err
	}
	return a.place(b)
}

// Strings copies every s into native memory. All values are encoded before
// the first allocation, so an encoding failure touches no native state.
func (a *Arena) Strings(ss ...string) ([]speechsdk.Ptr, error) {
	encoded := make([][]byte, len(ss))
	for i, s := range ss {
		b, err := Encode(s)
		if err != nil {
			return nil, err
		}
		encoded[i] = b
	}

	ptrs := make([]speechsdk.Ptr, len(encoded))
	for i, b := range encoded {
		p, err := a.place(b)
		if err != nil {
			return nil, err
		}
		ptrs[i] = p
	}
	return ptrs, nil
}

// allocSize converts a Go length to a native allocation size.
func allocSize(n uint64) (uint32, error) {
	if n > math.MaxUint32 {
		return 0, errors.InvalidInput(errors.PhaseMarshal,
			fmt.Sprintf("%d bytes exceed the native allocation limit", n))
	}
	return uint32(n), nil
}

func (a *Arena) place(b []byte) (speechsdk.Ptr, error) {
	size, err := allocSize(uint64(len(b)))
	if err != nil {
		return 0, err
	}
	p, err := a.rt.Alloc(size)
	if err != nil {
		return 0, err
	}
	a.ptrs = append(a.ptrs, p)
	if err := a.rt.Write(p, b); err != nil {
		return 0, err
	}
	return p, nil
}

// Len returns the number of live allocations.
func (a *Arena) Len() int {
	return len(a.ptrs)
}

// Free releases every allocation made by the arena.
func (a *Arena) Free() {
	for _, p := range a.ptrs {
		a.rt.Free(p)
	}
	a.ptrs = a.ptrs[:0]
}

// GetString runs call with a zero-filled native buffer of size bytes and
// decodes what it wrote. A size of zero selects DefaultBufferSize. A failing
// status is returned without looking at the buffer.
func GetString(rt native.Runtime, fn string, size uint32, call func(buf speechsdk.Ptr, size uint32) native.Status) (string, error) {
	if size == 0 {
		size = DefaultBufferSize
	}

	buf, err := rt.Alloc(size)
	if err != nil {
		return "", err
	}
	defer rt.Free(buf)

	if err := native.CheckFunc(fn, call(buf, size)); err != nil {
		return "", err
	}

	data, err := rt.Read(buf, size)
	if err != nil {
		return "", err
	}
	return Decode(data)
}

// TakeString copies a string allocated by the native library and hands it
// back through free. free runs whenever p is not NULL, including when the
// contents fail to decode.
func TakeString(rt native.Runtime, fn string, p speechsdk.Ptr, free func(speechsdk.Ptr) native.Status) (string, error) {
	if p == 0 {
		return "", errors.NullResult(fn)
	}

	s, err := copyCString(rt, p)
	if ferr := native.CheckFunc("free_string", free(p)); ferr != nil {
		err = stderrors.Join(err, ferr)
	}
	if err != nil {
		return "", err
	}
	return s, nil
}

func copyCString(rt native.Runtime, p speechsdk.Ptr) (string, error) {
	n, err := rt.CStringLen(p)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	data, err := rt.Read(p, n)
	if err != nil {
		return "", err
	}
	return text(data)
}
