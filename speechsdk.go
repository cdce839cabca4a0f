package speechsdk

// Handle is an opaque value issued by the native SDK for one foreign-owned
// resource. It is never introspected, only passed back to the library.
type Handle uintptr

const (
	// NullHandle marks a handle that has not been assigned yet.
	NullHandle Handle = 0
	// InvalidHandle marks a handle that was released or never valid.
	InvalidHandle Handle = ^Handle(0)
)

// IsSet reports whether h holds a value issued by the native library.
func (h Handle) IsSet() bool {
	return h != NullHandle && h != InvalidHandle
}

// Ptr is the address of a byte in native memory. Zero is NULL.
type Ptr uintptr

// Memory represents memory owned by the native side.
// Implementations bounds-check every access and fail instead of faulting.
type Memory interface {
	Read(p Ptr, length uint32) ([]byte, error)
	Write(p Ptr, data []byte) error
	// CStringLen returns the number of bytes before the NUL terminator at p.
	CStringLen(p Ptr) (uint32, error)
}

// Allocator allocates native memory for values crossing the boundary.
type Allocator interface {
	// Alloc returns size zero-filled bytes.
	Alloc(size uint32) (Ptr, error)
	Free(p Ptr)
}
