//go:build speechsdk

package sdk

/*
#cgo linux LDFLAGS: -lMicrosoft.CognitiveServices.Speech.core
#cgo darwin LDFLAGS: -framework MicrosoftCognitiveServicesSpeech
#cgo windows LDFLAGS: -lMicrosoft.CognitiveServices.Speech.core
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>
#include <string.h>
#include <speechapi_c.h>

// Handles and pointers cross the boundary as uintptr_t.

static void* spx_ptr(uintptr_t p) { return (void*)p; }

static SPXHR spx_property_bag_create(uintptr_t* out) {
	SPXPROPERTYBAGHANDLE h = SPXHANDLE_INVALID;
	SPXHR hr = property_bag_create(&h);
	*out = (uintptr_t)h;
	return hr;
}

static bool spx_property_bag_is_valid(uintptr_t h) {
	return property_bag_is_valid((SPXPROPERTYBAGHANDLE)h);
}

static SPXHR spx_property_bag_release(uintptr_t h) {
	return property_bag_release((SPXPROPERTYBAGHANDLE)h);
}

static SPXHR spx_property_bag_copy(uintptr_t from, uintptr_t to) {
	return property_bag_copy((SPXPROPERTYBAGHANDLE)from, (SPXPROPERTYBAGHANDLE)to);
}

static uintptr_t spx_property_bag_get_string(uintptr_t h, int id, uintptr_t name, uintptr_t def) {
	return (uintptr_t)property_bag_get_string((SPXPROPERTYBAGHANDLE)h, id, (const char*)name, (const char*)def);
}

static SPXHR spx_property_bag_set_string(uintptr_t h, int id, uintptr_t name, uintptr_t value) {
	return property_bag_set_string((SPXPROPERTYBAGHANDLE)h, id, (const char*)name, (const char*)value);
}

static SPXHR spx_property_bag_free_string(uintptr_t p) {
	return property_bag_free_string((const char*)p);
}

static SPXHR spx_speech_config_from_subscription(uintptr_t* out, uintptr_t key, uintptr_t region) {
	SPXSPEECHCONFIGHANDLE h = SPXHANDLE_INVALID;
	SPXHR hr = speech_config_from_subscription(&h, (const char*)key, (const char*)region);
	*out = (uintptr_t)h;
	return hr;
}

static SPXHR spx_speech_config_from_endpoint(uintptr_t* out, uintptr_t endpoint, uintptr_t key) {
	SPXSPEECHCONFIGHANDLE h = SPXHANDLE_INVALID;
	SPXHR hr = speech_config_from_endpoint(&h, (const char*)endpoint, (const char*)key);
	*out = (uintptr_t)h;
	return hr;
}

static bool spx_speech_config_is_handle_valid(uintptr_t h) {
	return speech_config_is_handle_valid((SPXSPEECHCONFIGHANDLE)h);
}

static SPXHR spx_speech_config_release(uintptr_t h) {
	return speech_config_release((SPXSPEECHCONFIGHANDLE)h);
}

static SPXHR spx_speech_config_get_property_bag(uintptr_t h, uintptr_t* out) {
	SPXPROPERTYBAGHANDLE bag = SPXHANDLE_INVALID;
	SPXHR hr = speech_config_get_property_bag((SPXSPEECHCONFIGHANDLE)h, &bag);
	*out = (uintptr_t)bag;
	return hr;
}

static bool spx_recognizer_result_handle_is_valid(uintptr_t h) {
	return recognizer_result_handle_is_valid((SPXRESULTHANDLE)h);
}

static SPXHR spx_recognizer_result_handle_release(uintptr_t h) {
	return recognizer_result_handle_release((SPXRESULTHANDLE)h);
}

static SPXHR spx_result_get_result_id(uintptr_t h, uintptr_t buf, uint32_t size) {
	return result_get_result_id((SPXRESULTHANDLE)h, (char*)buf, size);
}

static SPXHR spx_result_get_text(uintptr_t h, uintptr_t buf, uint32_t size) {
	return result_get_text((SPXRESULTHANDLE)h, (char*)buf, size);
}

static SPXHR spx_result_get_property_bag(uintptr_t h, uintptr_t* out) {
	SPXPROPERTYBAGHANDLE bag = SPXHANDLE_INVALID;
	SPXHR hr = result_get_property_bag((SPXRESULTHANDLE)h, &bag);
	*out = (uintptr_t)bag;
	return hr;
}
*/
import "C"

import (
	"fmt"
	"math"
	"unsafe"

	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/errors"
	"github.com/wippyai/speech-sdk-go/native"
)

// SDK calls the linked Speech SDK core library. The zero value is ready
// to use; the library is safe for concurrent use.
type SDK struct{}

var _ native.API = SDK{}

// New returns the native binding.
func New() SDK {
	return SDK{}
}

func st(hr C.SPXHR) native.Status {
	return native.Status(hr)
}

func u(v uintptr) C.uintptr_t {
	return C.uintptr_t(v)
}

// Alloc implements speechsdk.Allocator with calloc.
func (SDK) Alloc(size uint32) (speechsdk.Ptr, error) {
	n := size
	if n == 0 {
		n = 1
	}
	p := C.calloc(1, C.size_t(n))
	if p == nil {
		return 0, errors.AllocationFailed(size, nil)
	}
	return speechsdk.Ptr(uintptr(p)), nil
}

// Free implements speechsdk.Allocator.
func (SDK) Free(p speechsdk.Ptr) {
	if p == 0 {
		return
	}
	C.free(C.spx_ptr(u(uintptr(p))))
}

// Read implements speechsdk.Memory.
func (SDK) Read(p speechsdk.Ptr, length uint32) ([]byte, error) {
	if p == 0 {
		return nil, errors.OutOfBounds(uintptr(p), uint64(length), 0)
	}
	if length == 0 {
		return []byte{}, nil
	}
	// C.GoBytes takes a C int
	if length > math.MaxInt32 {
		return nil, errors.InvalidInput(errors.PhaseMemory,
			fmt.Sprintf("read of %d bytes exceeds %d", length, math.MaxInt32))
	}
	return C.GoBytes(C.spx_ptr(u(uintptr(p))), C.int(length)), nil
}

// Write implements speechsdk.Memory.
func (SDK) Write(p speechsdk.Ptr, data []byte) error {
	if p == 0 {
		return errors.OutOfBounds(uintptr(p), uint64(len(data)), 0)
	}
	if len(data) == 0 {
		return nil
	}
	C.memcpy(C.spx_ptr(u(uintptr(p))), unsafe.Pointer(&data[0]), C.size_t(len(data)))
	return nil
}

// CStringLen implements speechsdk.Memory.
func (SDK) CStringLen(p speechsdk.Ptr) (uint32, error) {
	if p == 0 {
		return 0, errors.OutOfBounds(uintptr(p), 1, 0)
	}
	n := C.strlen((*C.char)(C.spx_ptr(u(uintptr(p)))))
	if uint64(n) > uint64(^uint32(0)) {
		return 0, errors.InvalidInput(errors.PhaseMemory, "string exceeds 4 GiB")
	}
	return uint32(n), nil
}

func (SDK) PropertyBagCreate(out *speechsdk.Handle) native.Status {
	var h C.uintptr_t
	hr := C.spx_property_bag_create(&h)
	*out = speechsdk.Handle(h)
	return st(hr)
}

func (SDK) PropertyBagIsValid(h speechsdk.Handle) bool {
	return bool(C.spx_property_bag_is_valid(u(uintptr(h))))
}

func (SDK) PropertyBagRelease(h speechsdk.Handle) native.Status {
	return st(C.spx_property_bag_release(u(uintptr(h))))
}

func (SDK) PropertyBagCopy(from, to speechsdk.Handle) native.Status {
	return st(C.spx_property_bag_copy(u(uintptr(from)), u(uintptr(to))))
}

func (SDK) PropertyBagGetString(h speechsdk.Handle, id int32, name, def speechsdk.Ptr) speechsdk.Ptr {
	return speechsdk.Ptr(C.spx_property_bag_get_string(u(uintptr(h)), C.int(id), u(uintptr(name)), u(uintptr(def))))
}

func (SDK) PropertyBagSetString(h speechsdk.Handle, id int32, name, value speechsdk.Ptr) native.Status {
	return st(C.spx_property_bag_set_string(u(uintptr(h)), C.int(id), u(uintptr(name)), u(uintptr(value))))
}

func (SDK) PropertyBagFreeString(p speechsdk.Ptr) native.Status {
	return st(C.spx_property_bag_free_string(u(uintptr(p))))
}

func (SDK) SpeechConfigFromSubscription(out *speechsdk.Handle, key, region speechsdk.Ptr) native.Status {
	var h C.uintptr_t
	hr := C.spx_speech_config_from_subscription(&h, u(uintptr(key)), u(uintptr(region)))
	*out = speechsdk.Handle(h)
	return st(hr)
}

func (SDK) SpeechConfigFromEndpoint(out *speechsdk.Handle, endpoint, key speechsdk.Ptr) native.Status {
	var h C.uintptr_t
	hr := C.spx_speech_config_from_endpoint(&h, u(uintptr(endpoint)), u(uintptr(key)))
	*out = speechsdk.Handle(h)
	return st(hr)
}

func (SDK) SpeechConfigIsHandleValid(h speechsdk.Handle) bool {
	return bool(C.spx_speech_config_is_handle_valid(u(uintptr(h))))
}

func (SDK) SpeechConfigRelease(h speechsdk.Handle) native.Status {
	return st(C.spx_speech_config_release(u(uintptr(h))))
}

func (SDK) SpeechConfigGetPropertyBag(h speechsdk.Handle, out *speechsdk.Handle) native.Status {
	var bag C.uintptr_t
	hr := C.spx_speech_config_get_property_bag(u(uintptr(h)), &bag)
	*out = speechsdk.Handle(bag)
	return st(hr)
}

func (SDK) RecognizerResultHandleIsValid(h speechsdk.Handle) bool {
	return bool(C.spx_recognizer_result_handle_is_valid(u(uintptr(h))))
}

func (SDK) RecognizerResultHandleRelease(h speechsdk.Handle) native.Status {
	return st(C.spx_recognizer_result_handle_release(u(uintptr(h))))
}

func (SDK) ResultGetResultID(h speechsdk.Handle, buf speechsdk.Ptr, size uint32) native.Status {
	return st(C.spx_result_get_result_id(u(uintptr(h)), u(uintptr(buf)), C.uint32_t(size)))
}

func (SDK) ResultGetText(h speechsdk.Handle, buf speechsdk.Ptr, size uint32) native.Status {
	return st(C.spx_result_get_text(u(uintptr(h)), u(uintptr(buf)), C.uint32_t(size)))
}

func (SDK) ResultGetPropertyBag(h speechsdk.Handle, out *speechsdk.Handle) native.Status {
	var bag C.uintptr_t
	hr := C.spx_result_get_property_bag(u(uintptr(h)), &bag)
	*out = speechsdk.Handle(bag)
	return st(hr)
}
