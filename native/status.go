package native

import (
	"fmt"

	"github.com/wippyai/speech-sdk-go/errors"
)

// Status is the SDK's SPXHR result code.
type Status uintptr

// Status codes the bindings name. Any other non-zero value is still a failure.
const (
	StatusOK             Status = 0x000
	StatusNotFound       Status = 0x004
	StatusInvalidArg     Status = 0x005
	StatusBufferTooSmall Status = 0x019
	StatusOutOfMemory    Status = 0x01a
	StatusRuntimeError   Status = 0x01b
	StatusInvalidHandle  Status = 0x021
	StatusNotImplemented Status = 0xfff
)

var statusNames = map[Status]string{
	StatusOK:             "SPX_NOERROR",
	StatusNotFound:       "SPXERR_NOT_FOUND",
	StatusInvalidArg:     "SPXERR_INVALID_ARG",
	StatusBufferTooSmall: "SPXERR_BUFFER_TOO_SMALL",
	StatusOutOfMemory:    "SPXERR_OUT_OF_MEMORY",
	StatusRuntimeError:   "SPXERR_RUNTIME_ERROR",
	StatusInvalidHandle:  "SPXERR_INVALID_HANDLE",
	StatusNotImplemented: "SPXERR_NOT_IMPL",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SPXHR(0x%03x)", uintptr(s))
}

// OK reports whether s is the success code.
func (s Status) OK() bool {
	return s == StatusOK
}

// Check converts a status into nil on success or a native call error
// carrying the raw code.
func Check(st Status) error {
	if st == StatusOK {
		return nil
	}
	return errors.NativeCall("", uint64(st))
}

// CheckFunc is Check with the name of the C function that produced st.
func CheckFunc(fn string, st Status) error {
	if st == StatusOK {
		return nil
	}
	return errors.NativeCall(fn, uint64(st))
}
