package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseNative    Phase = "native"    // foreign call returned failure
	PhaseMarshal   Phase = "marshal"   // Go to native
	PhaseUnmarshal Phase = "unmarshal" // native to Go
	PhaseMemory    Phase = "memory"    // native memory access
	PhaseHandle    Phase = "handle"    // handle lifecycle
	PhaseProperty  Phase = "property"  // property bag operations
	PhaseConstruct Phase = "construct" // composite object construction
)

// Kind categorizes the error
type Kind string

const (
	KindNativeCall    Kind = "native_call"
	KindEncoding      Kind = "encoding"
	KindDecoding      Kind = "decoding"
	KindUnimplemented Kind = "unimplemented"
	KindReleased      Kind = "released"
	KindInvalidHandle Kind = "invalid_handle"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindAllocation    Kind = "allocation"
	KindInvalidInput  Kind = "invalid_input"
	KindNotFound      Kind = "not_found"
)

// Error is the structured error type used throughout the bindings
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	Func    string
	Detail  string
	Code    uint64
	HasCode bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Func != "" {
		b.WriteString(" in ")
		b.WriteString(e.Func)
	}

	if e.HasCode {
		fmt.Fprintf(&b, ": code 0x%03x", e.Code)
	}

	if e.Detail != "" {
		if e.HasCode {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// Phase is only compared when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Func sets the native function name
func (b *Builder) Func(name string) *Builder {
	b.err.Func = name
	return b
}

// Code sets the raw native status code
func (b *Builder) Code(code uint64) *Builder {
	b.err.Code = code
	b.err.HasCode = true
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Sentinels for errors.Is matching by kind alone.
var (
	ErrNativeCall    = &Error{Kind: KindNativeCall}
	ErrEncoding      = &Error{Kind: KindEncoding}
	ErrDecoding      = &Error{Kind: KindDecoding}
	ErrUnimplemented = &Error{Kind: KindUnimplemented}
	ErrReleased      = &Error{Kind: KindReleased}
	ErrOutOfBounds   = &Error{Kind: KindOutOfBounds}
)

// StatusCode extracts the raw native status code carried by err, if any.
func StatusCode(err error) (uint64, bool) {
	var e *Error
	if !stderrors.As(err, &e) || !e.HasCode {
		return 0, false
	}
	return e.Code, true
}

// Convenience constructors for common error patterns

// NativeCall creates a failure for a non-zero status returned by fn
func NativeCall(fn string, code uint64) *Error {
	return &Error{
		Phase:   PhaseNative,
		Kind:    KindNativeCall,
		Func:    fn,
		Code:    code,
		HasCode: true,
	}
}

// NullResult creates a native call failure for a function that signals
// failure by returning NULL instead of a status code
func NullResult(fn string) *Error {
	return &Error{
		Phase:  PhaseNative,
		Kind:   KindNativeCall,
		Func:   fn,
		Detail: "returned NULL",
	}
}

// Encoding creates an error for Go text that cannot cross as a C string
func Encoding(phase Phase, what, s string) *Error {
	idx := strings.IndexByte(s, 0)
	return &Error{
		Phase:  phase,
		Kind:   KindEncoding,
		Detail: fmt.Sprintf("%s contains NUL byte at offset %d", what, idx),
		Value:  s,
	}
}

// Decoding creates an error for native bytes that are not valid text
func Decoding(phase Phase, detail string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindDecoding,
		Detail: fmt.Sprintf("%s: %x", detail, preview),
	}
}

// Unimplemented creates an error for a capability with no native backing
func Unimplemented(op string) *Error {
	return &Error{
		Phase:  PhaseProperty,
		Kind:   KindUnimplemented,
		Detail: op + " is not implemented",
	}
}

// Released creates an error for use of a released handle
func Released(kind string) *Error {
	return &Error{
		Phase:  PhaseHandle,
		Kind:   KindReleased,
		Detail: fmt.Sprintf("%s handle already released", kind),
	}
}

// InvalidHandle creates an error for a handle the native side rejects
func InvalidHandle(phase Phase, kind string, h uintptr) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("%s handle 0x%x is not valid", kind, h),
		Value:  h,
	}
}

// OutOfBounds creates a native memory access error
func OutOfBounds(ptr uintptr, length, size uint64) *Error {
	return &Error{
		Phase:  PhaseMemory,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access at 0x%x length %d exceeds memory size %d", ptr, length, size),
		Value:  ptr,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(size uint32, cause error) *Error {
	return &Error{
		Phase:  PhaseMemory,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}
