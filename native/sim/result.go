package sim

import (
	"strings"

	"github.com/google/uuid"

	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/native"
)

type result struct {
	props *store
	id    string
	text  string
}

// NewResult creates a recognition result handle. The simulation does not
// recognize audio; results are planted by tests and tools. props are stored
// in the result's property bag. An empty id is replaced by a generated one
// in the SDK's 32 hex digit form.
func (s *SDK) NewResult(id, text string, props map[speechsdk.PropertyID]string) speechsdk.Handle {
	if id == "" {
		id = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	st := newStore()
	for pid, v := range props {
		st.set(int32(pid), "", []byte(v))
	}

	s.mu.Lock()
	h, ev := s.table.insert(KindResult, &result{props: st, id: id, text: text})
	s.mu.Unlock()

	s.notify(ev)
	return h
}

// RecognizerResultHandleIsValid implements recognizer_result_handle_is_valid.
func (s *SDK) RecognizerResultHandleIsValid(h speechsdk.Handle) bool {
	return s.isValid("recognizer_result_handle_is_valid", h, KindResult)
}

// RecognizerResultHandleRelease implements recognizer_result_handle_release.
func (s *SDK) RecognizerResultHandleRelease(h speechsdk.Handle) native.Status {
	return s.release("recognizer_result_handle_release", h, KindResult)
}

// ResultGetResultID implements result_get_result_id.
func (s *SDK) ResultGetResultID(h speechsdk.Handle, buf speechsdk.Ptr, size uint32) native.Status {
	return s.copyOut("result_get_result_id", h, buf, size, func(r *result) string { return r.id })
}

// ResultGetText implements result_get_text.
func (s *SDK) ResultGetText(h speechsdk.Handle, buf speechsdk.Ptr, size uint32) native.Status {
	return s.copyOut("result_get_text", h, buf, size, func(r *result) string { return r.text })
}

// ResultGetPropertyBag implements result_get_property_bag.
func (s *SDK) ResultGetPropertyBag(h speechsdk.Handle, out *speechsdk.Handle) native.Status {
	return s.propertyBagOf("result_get_property_bag", h, KindResult, out)
}

// copyOut writes a NUL-terminated field into a caller buffer of size bytes.
// A buffer too small for the terminator is rejected, never overrun.
func (s *SDK) copyOut(fn string, h speechsdk.Handle, buf speechsdk.Ptr, size uint32, field func(*result) string) native.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter(fn); failed {
		return st
	}
	v, ok := s.table.get(h, KindResult)
	if !ok {
		return native.StatusInvalidHandle
	}
	if buf == 0 {
		return native.StatusInvalidArg
	}

	value := field(v.(*result))
	if uint64(len(value))+1 > uint64(size) {
		return native.StatusBufferTooSmall
	}
	data := make([]byte, len(value)+1)
	copy(data, value)
	if err := s.heap.write(buf, data); err != nil {
		return native.StatusInvalidArg
	}
	return native.StatusOK
}
